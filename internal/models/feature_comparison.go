package models

// FeatureComparison is one row of the static comparison reference rendered
// into the recommendation prompt as a markdown table. Seeded externally.
type FeatureComparison struct {
	ID               uint   `json:"id" gorm:"primaryKey"`
	Feature          string `json:"feature" gorm:"not null"`
	AISearch         string `json:"ai_search"`
	CosmosNoSQL      string `json:"cosmos_nosql"`
	CosmosMongoVCore string `json:"cosmos_mongo_vcore"`
	SQLDB            string `json:"sql_db"`
	PostgreSQL       string `json:"postgresql"`
}

// TableName overrides the default table name
func (FeatureComparison) TableName() string {
	return "feature_comparisons"
}
