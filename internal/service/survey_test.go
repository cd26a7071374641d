package service

import (
	"testing"
	"time"

	"github.com/arno756/storage-advisor/internal/models"
	"github.com/arno756/storage-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveResponsesCreatesOneRowPerUsableAnswer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	entries := []AnswerEntry{
		{Question: "What is your data volume?", Answer: strPtr("10 TB"), QuestionID: 3},
		{Question: "", Answer: strPtr("ignored"), QuestionID: 4},
		{Question: "Unanswered question", Answer: nil, QuestionID: 5},
		{Question: "Anything else?", Answer: strPtr("Vector search"), QuestionID: models.FreeFormQuestionID},
	}

	sessionID, _, err := svc.SaveResponses(entries)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	var rows []models.SurveyResponse
	require.NoError(t, db.Where("session_id = ?", sessionID).Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].QuestionID)
	assert.Equal(t, "10 TB", rows[0].ResponseText)
	assert.Equal(t, models.FreeFormQuestionID, rows[1].QuestionID)
	assert.True(t, rows[1].IsFreeForm())
}

func TestSaveResponsesGeneratesUniqueSessionIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	first, _, err := svc.SaveResponses(nil)
	require.NoError(t, err)
	second, _, err := svc.SaveResponses(nil)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSessionNameDerivation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())
	today := time.Now().UTC().Format("2006-01-02")

	tests := []struct {
		name     string
		entries  []AnswerEntry
		expected string
	}{
		{
			name: "customer name and use case",
			entries: []AnswerEntry{
				{Question: "Customer Name", Answer: strPtr("Acme"), QuestionID: 1},
				{Question: "Describe use cases", Answer: strPtr("Search"), QuestionID: 2},
			},
			expected: "Acme - Search - " + today,
		},
		{
			name: "customer name only",
			entries: []AnswerEntry{
				{Question: "Customer Name", Answer: strPtr("Acme"), QuestionID: 1},
			},
			expected: "Acme - " + today,
		},
		{
			name: "use case only",
			entries: []AnswerEntry{
				{Question: "Describe use cases", Answer: strPtr("Search"), QuestionID: 2},
			},
			expected: "Search - " + today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sessionName, err := svc.SaveResponses(tt.entries)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sessionName)
		})
	}
}

func TestSessionNameFallsBackToSessionID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	sessionID, sessionName, err := svc.SaveResponses([]AnswerEntry{
		{Question: "What is your data volume?", Answer: strPtr("1 TB"), QuestionID: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, sessionID, sessionName)
}

func TestSessionNameTrimsWhitespace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())
	today := time.Now().UTC().Format("2006-01-02")

	_, sessionName, err := svc.SaveResponses([]AnswerEntry{
		{Question: "Customer Name", Answer: strPtr("  Acme  "), QuestionID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme - "+today, sessionName)
}

func TestListQuestionsOrdersByDisplayOrder(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Question{ID: 10, Text: "Later", DisplayOrder: 5}).Error)
	require.NoError(t, db.Create(&models.Question{ID: 11, Text: "Earlier", DisplayOrder: 1}).Error)

	svc := NewSurveyService(db, logger.GetGlobal())
	questions, err := svc.ListQuestions()
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Earlier", questions[0].Text)
	assert.Equal(t, "Later", questions[1].Text)
}

func TestSaveFeatureRankingsSkipsMalformedEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	err := svc.SaveFeatureRankings("sess-1", []RankingEntry{
		{RankPosition: intPtr(1), FeatureName: "Vector search"},
		{RankPosition: nil, FeatureName: "No position"},
		{RankPosition: intPtr(3), FeatureName: ""},
		{RankPosition: intPtr(2), FeatureName: "OLTP"},
	})
	require.NoError(t, err)

	var rows []models.FeatureRanking
	require.NoError(t, db.Where("session_id = ?", "sess-1").Order("rank_position ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "Vector search", rows[0].FeatureName)
	assert.Equal(t, "OLTP", rows[1].FeatureName)
}

func TestSaveFeedbackWithAndWithoutComments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	require.NoError(t, svc.SaveFeedback("sess-1", models.FeedbackThumbsUp, strPtr("great")))
	require.NoError(t, svc.SaveFeedback("sess-2", models.FeedbackThumbsDown, nil))

	var rows []models.Feedback
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, models.FeedbackThumbsUp, rows[0].Feedback)
	require.NotNil(t, rows[0].Comments)
	assert.Equal(t, "great", *rows[0].Comments)
	assert.Nil(t, rows[1].Comments)
}

func TestRecordHelpRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db, logger.GetGlobal())

	require.NoError(t, svc.RecordHelpRequest("sess-1"))

	var row models.HelpRequest
	require.NoError(t, db.Take(&row).Error)
	assert.Equal(t, "sess-1", row.SessionID)
	assert.False(t, row.RequestedAt.IsZero())
}
