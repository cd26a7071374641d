package models

import "time"

// HelpRequest marks that a user asked to be contacted about a session.
type HelpRequest struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SessionID   string    `json:"session_id" gorm:"index;not null"`
	RequestedAt time.Time `json:"requested_at" gorm:"not null"`
}

// TableName overrides the default table name
func (HelpRequest) TableName() string {
	return "help_requests"
}
