package models

import (
	"time"
)

// CommissionConfig holds per-level commission rates and the withdrawal
// policy. Rows are owned by the admin side; this service only reads them.
type CommissionConfig struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Level               int       `gorm:"column:level;not null;uniqueIndex:idx_config_level" json:"level"`
	CommissionRate      float64   `gorm:"column:commission_rate;type:decimal(5,2);not null;default:0.00" json:"commission_rate"`
	IsActive            bool      `gorm:"column:is_active;default:true" json:"is_active"`
	MinWithdrawalAmount float64   `gorm:"column:min_withdrawal_amount;type:decimal(10,2);default:10.00" json:"min_withdrawal_amount"`
	WithdrawalFeeRate   float64   `gorm:"column:withdrawal_fee_rate;type:decimal(5,2);default:0.00" json:"withdrawal_fee_rate"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionConfig) TableName() string {
	return "distribution_config"
}
