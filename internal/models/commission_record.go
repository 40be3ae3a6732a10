package models

import (
	"time"
)

const CommissionStatusConfirmed = "confirmed"

// CommissionRecord is immutable once created. The composite unique index on
// (order_id, distributor_id, level) guarantees at-most-once crediting per
// order per ancestor and makes redelivery of a payment event safe.
type CommissionRecord struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int       `gorm:"column:order_id;not null;index:idx_commission_order_distributor_level,unique" json:"order_id"`
	BuyerID          int       `gorm:"column:buyer_id;not null;index:idx_commission_buyer" json:"buyer_id"`
	DistributorID    int       `gorm:"column:distributor_id;not null;index:idx_commission_order_distributor_level,unique;index:idx_commission_distributor" json:"distributor_id"`
	Level            int       `gorm:"column:level;not null;index:idx_commission_order_distributor_level,unique" json:"level"`
	OrderAmount      float64   `gorm:"column:order_amount;type:decimal(20,2);not null" json:"order_amount"`
	CommissionRate   float64   `gorm:"column:commission_rate;type:decimal(5,2);not null" json:"commission_rate"`
	CommissionAmount float64   `gorm:"column:commission_amount;type:decimal(20,2);not null" json:"commission_amount"`
	Status           string    `gorm:"column:status;size:20;not null;default:confirmed" json:"status"`
	SettledAt        time.Time `gorm:"column:settled_at" json:"settled_at"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CommissionRecord) TableName() string {
	return "distribution_commissions"
}
