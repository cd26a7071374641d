package models

import "time"

// LLMExchange records one /recommendation call: the assembled prompt and the
// completion returned for it. A session may accumulate several exchanges;
// the one with the highest ID is canonical.
type LLMExchange struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SessionID    string    `json:"session_id" gorm:"index;not null"`
	Prompt       string    `json:"prompt" gorm:"type:text"`
	ResponseText string    `json:"response_text" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (LLMExchange) TableName() string {
	return "llm_responses"
}
