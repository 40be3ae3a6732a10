package models

import (
	"time"
)

// User is the slice of the externally owned identity this service reads and
// writes: the invitation code it issues and the inviter code bound at
// registration. InviterCode is immutable once set.
type User struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"column:username;size:255;not null" json:"username"`
	Email          string    `gorm:"column:email;size:255" json:"email"`
	InvitationCode *string   `gorm:"column:invitation_code;size:16;uniqueIndex" json:"invitation_code"`
	InviterCode    *string   `gorm:"column:inviter_code;size:16" json:"inviter_code"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
