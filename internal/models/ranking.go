package models

import "time"

// FeatureRanking is one entry of a session's top-feature list. Rank
// positions are expected to be unique within a session but not enforced.
type FeatureRanking struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SessionID    string    `json:"session_id" gorm:"index;not null"`
	RankPosition int       `json:"rank_position" gorm:"not null"`
	FeatureName  string    `json:"feature_name" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the default table name
func (FeatureRanking) TableName() string {
	return "feature_rankings"
}
