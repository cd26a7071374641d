package models

import "time"

// Connection event types
const (
	EventLogin          = "login"
	EventLogout         = "logout"
	EventSessionCreated = "session_created"
)

// ConnectionEvent is an append-only audit row. A session is listable iff it
// has at least one session_created event with IsDeleted=false; soft delete
// flips IsDeleted and never removes rows.
type ConnectionEvent struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"index;not null"`
	EventType      string    `json:"event_type" gorm:"index;not null"`
	SessionID      *string   `json:"session_id,omitempty" gorm:"index"`
	SessionName    *string   `json:"session_name,omitempty"`
	EventTimestamp time.Time `json:"event_timestamp" gorm:"not null"`
	IsDeleted      bool      `json:"is_deleted" gorm:"not null;default:false"`
}

// TableName overrides the default table name
func (ConnectionEvent) TableName() string {
	return "connections"
}
