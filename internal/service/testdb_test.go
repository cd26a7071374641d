package service

import (
	"context"
	"testing"

	"github.com/arno756/storage-advisor/ai"
	"github.com/arno756/storage-advisor/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Question{},
		&models.SurveyResponse{},
		&models.LLMExchange{},
		&models.FollowUp{},
		&models.Feedback{},
		&models.FeatureRanking{},
		&models.ConnectionEvent{},
		&models.FeatureComparison{},
		&models.HelpRequest{},
	))

	return db
}

// seedQuestions inserts a small catalog used across tests
func seedQuestions(t *testing.T, db *gorm.DB) {
	t.Helper()

	questions := []models.Question{
		{ID: 1, Text: "Customer Name", DisplayOrder: 1},
		{ID: 2, Text: "Describe use cases", DisplayOrder: 2},
		{ID: 3, Text: "What is your data volume?", DisplayOrder: 3},
	}
	require.NoError(t, db.Create(&questions).Error)
}

// fakeCompleter is a ChatCompleter stub recording every call
type fakeCompleter struct {
	response string
	err      error
	calls    [][]ai.Message
	params   []ai.CompletionParams
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.Message, params ai.CompletionParams) (string, error) {
	f.calls = append(f.calls, messages)
	f.params = append(f.params, params)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
