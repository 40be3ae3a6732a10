package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const withdrawalListLimit = 50

// WithdrawalService validates and records withdrawal requests against the
// commission ledger. Approval and rejection are invoked by the external
// admin workflow; only their ledger effects live here.
type WithdrawalService struct {
	DB     *gorm.DB
	Config *ConfigService
	Ledger *LedgerService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewWithdrawalService(db *gorm.DB, config *ConfigService, ledger *LedgerService, rng *rand.Rand) *WithdrawalService {
	if rng == nil {
		rng = common.NewRand()
	}
	return &WithdrawalService{DB: db, Config: config, Ledger: ledger, rng: rng}
}

func (s *WithdrawalService) nextWithdrawalNo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.GenerateWithdrawalNo(s.rng)
}

type WithdrawRequestDTO struct {
	UserID      int
	Amount      float64
	Type        string
	Account     string
	AccountName string
}

type WithdrawResponse struct {
	WithdrawalNo string  `json:"withdrawal_no"`
	Amount       float64 `json:"amount"`
	Fee          float64 `json:"fee"`
	ActualAmount float64 `json:"actual_amount"`
}

// Request validates the withdrawal, freezes the amount and persists a
// pending request in one transaction. A freeze failure leaves every balance
// untouched.
func (s *WithdrawalService) Request(data WithdrawRequestDTO) (*WithdrawResponse, error) {
	if data.Amount <= 0 {
		return nil, common.NewValidationError("withdrawal amount must be positive")
	}
	if strings.TrimSpace(data.Type) == "" || strings.TrimSpace(data.Account) == "" {
		return nil, common.NewValidationError("withdrawal type and account are required")
	}

	policy, err := s.Config.Policy()
	if err != nil {
		return nil, err
	}
	if data.Amount < policy.MinWithdrawal {
		return nil, common.NewPolicyError(fmt.Sprintf("minimum withdrawal amount is %.2f", policy.MinWithdrawal))
	}

	fee := common.PercentOf(data.Amount, policy.FeeRate)
	actual := common.SubMoney(data.Amount, fee)

	withdrawal := models.Withdrawal{
		ID:                uuid.NewString(),
		UserID:            data.UserID,
		WithdrawalNo:      s.nextWithdrawalNo(),
		Amount:            data.Amount,
		Fee:               fee,
		ActualAmount:      actual,
		WithdrawalType:    data.Type,
		WithdrawalAccount: data.Account,
		AccountName:       data.AccountName,
		Status:            models.WithdrawalStatusPending,
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Ledger.Freeze(tx, data.UserID, data.Amount); err != nil {
			return err
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return common.NewInternalError("failed to create withdrawal request", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, common.AsError(txErr)
	}

	return &WithdrawResponse{
		WithdrawalNo: withdrawal.WithdrawalNo,
		Amount:       withdrawal.Amount,
		Fee:          withdrawal.Fee,
		ActualAmount: withdrawal.ActualAmount,
	}, nil
}

// ListWithdrawals returns the caller's most recent requests.
func (s *WithdrawalService) ListWithdrawals(userID int) ([]models.Withdrawal, error) {
	withdrawals := []models.Withdrawal{}
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(withdrawalListLimit).
		Find(&withdrawals).Error
	if err != nil {
		return nil, common.NewInternalError("failed to load withdrawal requests", err)
	}
	return withdrawals, nil
}

// ListPending returns pending requests for the admin review queue.
func (s *WithdrawalService) ListPending(page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = withdrawalListLimit
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, common.NewInternalError("failed to count withdrawal requests", err)
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		return common.PaginationResult{}, common.NewInternalError("failed to load withdrawal requests", err)
	}

	return common.PaginateResponse(withdrawals, total, page, limit, "Pending withdrawals fetched"), nil
}

// Approve settles a pending request: frozen funds become withdrawn and the
// request is marked paid. The status flip is conditional on the row still
// being pending, so concurrent admin actions cannot settle twice.
func (s *WithdrawalService) Approve(id string, adminID int, notes string) error {
	return s.finalize(id, adminID, notes, models.WithdrawalStatusPaid)
}

// Reject returns the frozen funds to available and marks the request
// rejected.
func (s *WithdrawalService) Reject(id string, adminID int, notes string) error {
	return s.finalize(id, adminID, notes, models.WithdrawalStatusRejected)
}

func (s *WithdrawalService) finalize(id string, adminID int, notes, status string) error {
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		err := tx.Where("id = ?", id).First(&withdrawal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("withdrawal request not found")
		}
		if err != nil {
			return common.NewInternalError("failed to load withdrawal request", err)
		}

		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":       status,
				"processed_by": adminID,
				"processed_at": now,
				"notes":        notes,
			})
		if res.Error != nil {
			return common.NewInternalError("failed to update withdrawal request", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.NewConflictError("withdrawal request is already processed")
		}

		if status == models.WithdrawalStatusPaid {
			return s.Ledger.SettleApproved(tx, withdrawal.UserID, withdrawal.Amount)
		}
		return s.Ledger.ReleaseRejected(tx, withdrawal.UserID, withdrawal.Amount)
	})
	if txErr != nil {
		return common.AsError(txErr)
	}
	return nil
}
