package models

import "time"

// SurveyResponse is one answered question within a session. Rows are
// immutable once written.
type SurveyResponse struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	QuestionID   int       `json:"question_id" gorm:"index"`
	ResponseText string    `json:"response_text" gorm:"type:text;not null"`
	SessionID    string    `json:"session_id" gorm:"index;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (SurveyResponse) TableName() string {
	return "responses"
}

// IsFreeForm reports whether this row is the free-form answer rather than a
// catalog-backed one
func (r SurveyResponse) IsFreeForm() bool {
	return r.QuestionID == FreeFormQuestionID
}
