package models

import (
	"time"
)

// CommissionAccount is the per-user ledger row, the single source of truth
// for commission money. Invariant maintained by every mutation:
// total = available + frozen + withdrawn, with available and frozen >= 0.
type CommissionAccount struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              int       `gorm:"column:user_id;not null;uniqueIndex:idx_account_user" json:"user_id"`
	TotalCommission     float64   `gorm:"column:total_commission;type:decimal(20,2);not null;default:0.00" json:"total_commission"`
	AvailableCommission float64   `gorm:"column:available_commission;type:decimal(20,2);not null;default:0.00" json:"available_commission"`
	FrozenCommission    float64   `gorm:"column:frozen_commission;type:decimal(20,2);not null;default:0.00" json:"frozen_commission"`
	WithdrawnCommission float64   `gorm:"column:withdrawn_commission;type:decimal(20,2);not null;default:0.00" json:"withdrawn_commission"`
	TotalInvited        int       `gorm:"column:total_invited;not null;default:0" json:"total_invited"`
	Level1Invited       int       `gorm:"column:level1_invited;not null;default:0" json:"level1_invited"`
	Level2Invited       int       `gorm:"column:level2_invited;not null;default:0" json:"level2_invited"`
	Level3Invited       int       `gorm:"column:level3_invited;not null;default:0" json:"level3_invited"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionAccount) TableName() string {
	return "user_commission_accounts"
}
