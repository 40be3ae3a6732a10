package models

import (
	"time"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusPaid     = "paid"
	WithdrawalStatusRejected = "rejected"
)

// Withdrawal is a commission withdrawal request. Funds move from available
// to frozen when the row is created; terminal transitions (paid/rejected)
// settle or release the frozen amount.
type Withdrawal struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	UserID            int        `gorm:"column:user_id;not null;index:idx_withdrawal_user" json:"user_id"`
	WithdrawalNo      string     `gorm:"column:withdrawal_no;size:40;not null;uniqueIndex:idx_withdrawal_no" json:"withdrawal_no"`
	Amount            float64    `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	Fee               float64    `gorm:"column:fee;type:decimal(10,2);not null;default:0.00" json:"fee"`
	ActualAmount      float64    `gorm:"column:actual_amount;type:decimal(10,2);not null" json:"actual_amount"`
	WithdrawalType    string     `gorm:"column:withdrawal_type;size:50;not null" json:"withdrawal_type"`
	WithdrawalAccount string     `gorm:"column:withdrawal_account;size:100;not null" json:"withdrawal_account"`
	AccountName       string     `gorm:"column:account_name;size:100" json:"account_name"`
	Status            string     `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	ProcessedBy       *int       `gorm:"column:processed_by" json:"processed_by"`
	ProcessedAt       *time.Time `gorm:"column:processed_at" json:"processed_at"`
	Notes             string     `gorm:"column:notes;size:255" json:"notes"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "commission_withdrawals"
}
