package models

// FreeFormQuestionID is the sentinel question ID for the free-form answer.
// It never exists in the questions catalog.
const FreeFormQuestionID = -1

// Question is one entry of the static questionnaire catalog. Rows are seeded
// externally and read-only at runtime.
type Question struct {
	ID           int    `json:"id" gorm:"primaryKey"`
	Text         string `json:"question" gorm:"column:question;type:text;not null"`
	Category     string `json:"category"`
	DisplayOrder int    `json:"display_order" gorm:"index"`
}

// TableName overrides the default table name
func (Question) TableName() string {
	return "questions"
}
