package models

import "time"

// FollowUp is one post-recommendation user/assistant message pair.
// Append-only; conversation replay orders by ascending ID.
type FollowUp struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	SessionID        string    `json:"session_id" gorm:"index;not null"`
	UserMessage      string    `json:"user_message" gorm:"type:text;not null"`
	AssistantMessage string    `json:"assistant_message" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (FollowUp) TableName() string {
	return "follow_ups"
}
