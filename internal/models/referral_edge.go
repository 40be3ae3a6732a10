package models

import (
	"time"
)

// ReferralEdge stores the direct invitee -> inviter relationship. A user has
// at most one inviter (unique user_id); deeper levels are derived by walking
// edges, never stored.
type ReferralEdge struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int       `gorm:"column:user_id;not null;uniqueIndex:idx_invitation_user" json:"user_id"`
	InviterID int       `gorm:"column:inviter_id;not null;index:idx_invitation_inviter" json:"inviter_id"`
	Level     int       `gorm:"column:level;not null;default:1" json:"level"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralEdge) TableName() string {
	return "user_invitations"
}
