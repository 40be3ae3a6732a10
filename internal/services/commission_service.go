package services

import (
	"errors"
	"time"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"gorm.io/gorm"
)

// CommissionService turns a confirmed payment into commission credits for up
// to three ancestors of the buyer.
type CommissionService struct {
	DB        *gorm.DB
	Referrals *ReferralService
	Config    *ConfigService
	Ledger    *LedgerService
}

func NewCommissionService(db *gorm.DB, referrals *ReferralService, config *ConfigService, ledger *LedgerService) *CommissionService {
	return &CommissionService{DB: db, Referrals: referrals, Config: config, Ledger: ledger}
}

// Distribute credits each eligible ancestor of the buyer for a paid order.
// The whole distribution runs in one transaction and is safe to retry: a
// commission record already present for (order, distributor, level) skips
// both the record and its credit, so redelivery of the same payment event
// never double-counts.
func (s *CommissionService) Distribute(orderID, buyerID int, orderAmount float64) error {
	if orderAmount <= 0 {
		return common.NewValidationError("order amount must be positive")
	}

	chain, err := s.Referrals.AncestorChain(buyerID)
	if err != nil {
		return err
	}
	if len(chain) == 0 {
		return nil
	}

	rates, err := s.Config.Rates()
	if err != nil {
		return err
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, member := range chain {
			rate := rates[member.Level]
			if rate <= 0 {
				continue
			}

			amount := common.PercentOf(orderAmount, rate)
			record := models.CommissionRecord{
				OrderID:          orderID,
				BuyerID:          buyerID,
				DistributorID:    member.UserID,
				Level:            member.Level,
				OrderAmount:      orderAmount,
				CommissionRate:   rate,
				CommissionAmount: amount,
				Status:           models.CommissionStatusConfirmed,
				SettledAt:        time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Already credited for this order and level.
					continue
				}
				return common.NewInternalError("failed to create commission record", err)
			}

			if err := s.Ledger.Credit(tx, member.UserID, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return common.AsError(txErr)
	}
	return nil
}

const recentCommissionLimit = 10

type CommissionEntry struct {
	models.CommissionRecord
	BuyerName string `json:"buyer_name"`
}

type DistributionStats struct {
	Account           models.CommissionAccount `json:"account"`
	InvitationCode    string                   `json:"invitation_code"`
	RecentCommissions []CommissionEntry        `json:"recent_commissions"`
}

// MyStats returns the caller's ledger account, invitation code and the ten
// most recent commission records with buyer names.
func (s *CommissionService) MyStats(userID int) (*DistributionStats, error) {
	account, err := s.Ledger.Account(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("user not found")
		}
		return nil, common.NewInternalError("failed to load user", err)
	}

	recent := []CommissionEntry{}
	err = s.DB.Table("distribution_commissions").
		Select("distribution_commissions.*, users.username as buyer_name").
		Joins("LEFT JOIN users ON users.id = distribution_commissions.buyer_id").
		Where("distribution_commissions.distributor_id = ?", userID).
		Order("distribution_commissions.created_at DESC").
		Limit(recentCommissionLimit).
		Scan(&recent).Error
	if err != nil {
		return nil, common.NewInternalError("failed to load commission records", err)
	}

	code := ""
	if user.InvitationCode != nil {
		code = *user.InvitationCode
	}

	return &DistributionStats{
		Account:           *account,
		InvitationCode:    code,
		RecentCommissions: recent,
	}, nil
}
