package models

import (
	"time"
)

// ArchivedCommission mirrors CommissionRecord for rows moved out of the hot
// table by the archive job.
type ArchivedCommission struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int       `gorm:"column:order_id;not null;index" json:"order_id"`
	BuyerID          int       `gorm:"column:buyer_id;not null" json:"buyer_id"`
	DistributorID    int       `gorm:"column:distributor_id;not null;index" json:"distributor_id"`
	Level            int       `gorm:"column:level;not null" json:"level"`
	OrderAmount      float64   `gorm:"column:order_amount;type:decimal(20,2);not null" json:"order_amount"`
	CommissionRate   float64   `gorm:"column:commission_rate;type:decimal(5,2);not null" json:"commission_rate"`
	CommissionAmount float64   `gorm:"column:commission_amount;type:decimal(20,2);not null" json:"commission_amount"`
	Status           string    `gorm:"column:status;size:20;not null" json:"status"`
	SettledAt        time.Time `gorm:"column:settled_at" json:"settled_at"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	ArchivedAt       time.Time `gorm:"column:archived_at;autoCreateTime" json:"archived_at"`
}

func (ArchivedCommission) TableName() string {
	return "archived_commissions"
}
