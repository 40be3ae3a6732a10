package common

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Alphabet excludes visually ambiguous characters (0/O, 1/I).
const invitationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const InvitationCodeLength = 8

// NewRand returns a time-seeded source for production use. Tests inject a
// fixed seed instead.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func GenerateInvitationCode(r *rand.Rand) string {
	result := make([]byte, InvitationCodeLength)
	for i := range result {
		result[i] = invitationCodeAlphabet[r.Intn(len(invitationCodeAlphabet))]
	}
	return string(result)
}

// GenerateWithdrawalNo builds a withdrawal number of the form
// WD<unix-millis><3 random digits>.
func GenerateWithdrawalNo(r *rand.Rand) string {
	return fmt.Sprintf("WD%d%03d", time.Now().UnixMilli(), r.Intn(1000))
}

// PercentOf computes amount*rate/100 rounded half-up to 2 decimal places.
func PercentOf(amount, rate float64) float64 {
	v, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return v
}

// SubMoney computes a-b at 2 decimal places, free of float drift.
func SubMoney(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).Float64()
	return v
}
