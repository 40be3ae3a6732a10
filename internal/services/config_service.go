package services

import (
	"errors"

	"referral-service/internal/models"
	"referral-service/pkg/common"

	"gorm.io/gorm"
)

const (
	defaultMinWithdrawal = 10.0
	defaultFeeRate       = 0.0
)

// ConfigService reads the distribution_config table. Rates and policy are
// mutated by the admin side only.
type ConfigService struct {
	DB *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db}
}

// Rates returns the commission rate per active level. Inactive or missing
// levels are simply absent; callers skip levels with no positive rate.
func (s *ConfigService) Rates() (map[int]float64, error) {
	var configs []models.CommissionConfig
	if err := s.DB.Where("is_active = ?", true).Find(&configs).Error; err != nil {
		return nil, common.NewInternalError("failed to load distribution config", err)
	}

	rates := make(map[int]float64, len(configs))
	for _, c := range configs {
		rates[c.Level] = c.CommissionRate
	}
	return rates, nil
}

// RateFor returns the rate for one level, 0 for inactive or undefined levels.
func (s *ConfigService) RateFor(level int) (float64, error) {
	var config models.CommissionConfig
	err := s.DB.Where("level = ? AND is_active = ?", level, true).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, common.NewInternalError("failed to load distribution config", err)
	}
	return config.CommissionRate, nil
}

type WithdrawalPolicy struct {
	MinWithdrawal float64
	FeeRate       float64
}

// Policy reads the withdrawal policy from the level-1 row, falling back to
// defaults when no config exists.
func (s *ConfigService) Policy() (WithdrawalPolicy, error) {
	var config models.CommissionConfig
	err := s.DB.Where("level = ?", 1).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return WithdrawalPolicy{MinWithdrawal: defaultMinWithdrawal, FeeRate: defaultFeeRate}, nil
	}
	if err != nil {
		return WithdrawalPolicy{}, common.NewInternalError("failed to load withdrawal policy", err)
	}
	return WithdrawalPolicy{
		MinWithdrawal: config.MinWithdrawalAmount,
		FeeRate:       config.WithdrawalFeeRate,
	}, nil
}
