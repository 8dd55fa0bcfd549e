package models

import (
	"time"
)

// Notification is a one-way message to an account, produced as a side
// effect of flagging. Never mutated after creation; there is no read
// state and no deletion.
type Notification struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Email   string `json:"email" gorm:"not null;index;size:255"`
	Message string `json:"message" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
