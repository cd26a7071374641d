package models

import "time"

// Feedback values
const (
	FeedbackThumbsUp   = "thumbs_up"
	FeedbackThumbsDown = "thumbs_down"
)

// Feedback records a thumbs up/down on the final recommendation, with
// optional free-text comments.
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"index;not null"`
	Feedback  string    `json:"feedback" gorm:"not null"`
	Comments  *string   `json:"comments,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (Feedback) TableName() string {
	return "feedback"
}
