package services

import (
	"errors"
	"math/rand"
	"sync"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"gorm.io/gorm"
)

const codeGenerationAttempts = 5

// InvitationService issues the per-user invitation codes. The randomness
// source is injected so code generation is deterministic under a seeded
// generator in tests.
type InvitationService struct {
	DB     *gorm.DB
	Ledger *LedgerService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewInvitationService(db *gorm.DB, ledger *LedgerService, rng *rand.Rand) *InvitationService {
	if rng == nil {
		rng = common.NewRand()
	}
	return &InvitationService{DB: db, Ledger: ledger, rng: rng}
}

func (s *InvitationService) nextCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.GenerateInvitationCode(s.rng)
}

// GetOrCreateCode returns the user's invitation code, generating and
// persisting one on first use. Idempotent: an existing code is returned
// unchanged. Collisions with another user's code are retried with a fresh
// code, bounded by codeGenerationAttempts.
func (s *InvitationService) GetOrCreateCode(userID int) (string, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.NewNotFoundError("user not found")
		}
		return "", common.NewInternalError("failed to load user", err)
	}

	if user.InvitationCode != nil && *user.InvitationCode != "" {
		return *user.InvitationCode, nil
	}

	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code := s.nextCode()

		res := s.DB.Model(&models.User{}).
			Where("id = ? AND (invitation_code IS NULL OR invitation_code = '')", userID).
			Update("invitation_code", code)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				continue
			}
			return "", common.NewInternalError("failed to assign invitation code", res.Error)
		}

		if res.RowsAffected == 0 {
			// A concurrent call won the assignment; use its code.
			if err := s.DB.First(&user, userID).Error; err != nil {
				return "", common.NewInternalError("failed to reload user", err)
			}
			if user.InvitationCode != nil && *user.InvitationCode != "" {
				return *user.InvitationCode, nil
			}
			continue
		}

		if err := s.Ledger.EnsureAccount(s.DB, userID); err != nil {
			return "", err
		}
		return code, nil
	}

	return "", common.NewInternalError("could not generate a unique invitation code", nil)
}
