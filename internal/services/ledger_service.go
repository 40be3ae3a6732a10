package services

import (
	"referral-service/internal/models"
	"referral-service/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns every mutation of user_commission_accounts. Each method
// is a single atomic statement against the row; multi-account flows compose
// them inside a caller-provided transaction.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// EnsureAccount lazily creates a zeroed account row. Safe under concurrency:
// the insert is a no-op when the row already exists.
func (s *LedgerService) EnsureAccount(tx *gorm.DB, userID int) error {
	account := models.CommissionAccount{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error; err != nil {
		return common.NewInternalError("failed to create commission account", err)
	}
	return nil
}

func (s *LedgerService) Account(userID int) (*models.CommissionAccount, error) {
	if err := s.EnsureAccount(s.DB, userID); err != nil {
		return nil, err
	}
	var account models.CommissionAccount
	if err := s.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, common.NewInternalError("failed to load commission account", err)
	}
	return &account, nil
}

// Credit adds amount to both total and available in one statement.
func (s *LedgerService) Credit(tx *gorm.DB, userID int, amount float64) error {
	if err := s.EnsureAccount(tx, userID); err != nil {
		return err
	}
	res := tx.Model(&models.CommissionAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_commission":     gorm.Expr("total_commission + ?", amount),
			"available_commission": gorm.Expr("available_commission + ?", amount),
		})
	if res.Error != nil {
		return common.NewInternalError("failed to credit commission account", res.Error)
	}
	return nil
}

// Freeze moves amount from available to frozen. The balance check lives in
// the WHERE clause so two concurrent freezes can never both pass against a
// stale read; zero rows affected means the balance was short.
func (s *LedgerService) Freeze(tx *gorm.DB, userID int, amount float64) error {
	if err := s.EnsureAccount(tx, userID); err != nil {
		return err
	}
	res := tx.Model(&models.CommissionAccount{}).
		Where("user_id = ? AND available_commission >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_commission": gorm.Expr("available_commission - ?", amount),
			"frozen_commission":    gorm.Expr("frozen_commission + ?", amount),
		})
	if res.Error != nil {
		return common.NewInternalError("failed to freeze commission", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewInsufficientBalanceError("available commission balance is insufficient")
	}
	return nil
}

// SettleApproved debits frozen and credits withdrawn after an approved
// withdrawal is paid out.
func (s *LedgerService) SettleApproved(tx *gorm.DB, userID int, amount float64) error {
	res := tx.Model(&models.CommissionAccount{}).
		Where("user_id = ? AND frozen_commission >= ?", userID, amount).
		Updates(map[string]interface{}{
			"frozen_commission":    gorm.Expr("frozen_commission - ?", amount),
			"withdrawn_commission": gorm.Expr("withdrawn_commission + ?", amount),
		})
	if res.Error != nil {
		return common.NewInternalError("failed to settle withdrawal", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewInternalError("frozen balance below settlement amount", nil)
	}
	return nil
}

// ReleaseRejected returns frozen funds to available after a rejection.
func (s *LedgerService) ReleaseRejected(tx *gorm.DB, userID int, amount float64) error {
	res := tx.Model(&models.CommissionAccount{}).
		Where("user_id = ? AND frozen_commission >= ?", userID, amount).
		Updates(map[string]interface{}{
			"frozen_commission":    gorm.Expr("frozen_commission - ?", amount),
			"available_commission": gorm.Expr("available_commission + ?", amount),
		})
	if res.Error != nil {
		return common.NewInternalError("failed to release frozen commission", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewInternalError("frozen balance below release amount", nil)
	}
	return nil
}
