package services

import (
	"math/rand"
	"strings"
	"testing"

	"referral-service/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCodeAssignsAndPersists(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "")

	svc := NewInvitationService(testDB, NewLedgerService(testDB), rand.New(rand.NewSource(7)))

	code, err := svc.GetOrCreateCode(1)
	require.NoError(t, err)
	assert.Len(t, code, common.InvitationCodeLength)
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "O")
	assert.NotContains(t, code, "1")
	assert.NotContains(t, code, "I")

	// A ledger account is opened alongside the first code.
	account := accountOf(t, 1)
	assert.Equal(t, 0.0, account.TotalCommission)
}

func TestGetOrCreateCodeIsIdempotent(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "")

	svc := NewInvitationService(testDB, NewLedgerService(testDB), rand.New(rand.NewSource(7)))

	first, err := svc.GetOrCreateCode(1)
	require.NoError(t, err)
	second, err := svc.GetOrCreateCode(1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreateCodeKeepsExistingCode(t *testing.T) {
	requireDB(t)
	cleanup()

	createUser(t, 1, "alice", "EXISTING2")

	svc := NewInvitationService(testDB, NewLedgerService(testDB), nil)

	code, err := svc.GetOrCreateCode(1)
	require.NoError(t, err)
	assert.Equal(t, "EXISTING2", code)
}

func TestGetOrCreateCodeRetriesOnCollision(t *testing.T) {
	requireDB(t)
	cleanup()

	// Reserve the first code the seeded generator will produce so the
	// assignment collides and falls through to the second.
	seed := int64(42)
	taken := common.GenerateInvitationCode(rand.New(rand.NewSource(seed)))
	createUser(t, 1, "alice", taken)
	createUser(t, 2, "bob", "")

	svc := NewInvitationService(testDB, NewLedgerService(testDB), rand.New(rand.NewSource(seed)))

	code, err := svc.GetOrCreateCode(2)
	require.NoError(t, err)
	assert.NotEqual(t, taken, code)
	assert.Len(t, code, common.InvitationCodeLength)
}

func TestGetOrCreateCodeUnknownUser(t *testing.T) {
	requireDB(t)
	cleanup()

	svc := NewInvitationService(testDB, NewLedgerService(testDB), nil)

	_, err := svc.GetOrCreateCode(999)
	requireKind(t, err, common.KindNotFound)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}
