package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arno756/storage-advisor/internal/models"
	"github.com/arno756/storage-advisor/pkg/cache"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureComparisonTableRendersMarkdown(t *testing.T) {
	db := setupTestDB(t)
	rows := []models.FeatureComparison{
		{Feature: "Vector search", AISearch: "Yes", CosmosNoSQL: "Yes", CosmosMongoVCore: "Yes", SQLDB: "Preview", PostgreSQL: "Yes"},
		{Feature: "Full-text search", AISearch: "Yes", CosmosNoSQL: "No", CosmosMongoVCore: "Yes", SQLDB: "Yes", PostgreSQL: "Yes"},
	}
	require.NoError(t, db.Create(&rows).Error)

	svc := NewRecommendationService(db, &fakeCompleter{}, RecommendationOptions{})
	table := svc.FeatureComparisonTable()

	assert.True(t, strings.HasPrefix(table, "| Feature "))
	assert.Contains(t, table, "| Vector search | Yes | Yes | Yes | Preview | Yes |")
	assert.Contains(t, table, "| Full-text search |")
}

func TestFeatureComparisonTableUsesCache(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.FeatureComparison{Feature: "Vector search"}).Error)

	tableCache := cache.New(0, 0)
	svc := NewRecommendationService(db, &fakeCompleter{}, RecommendationOptions{TableCache: tableCache})

	first := svc.FeatureComparisonTable()
	require.Contains(t, first, "Vector search")

	// Rows removed after the first render; the cached table must survive
	require.NoError(t, db.Where("1 = 1").Delete(&models.FeatureComparison{}).Error)
	second := svc.FeatureComparisonTable()
	assert.Equal(t, first, second)
}

func TestFeatureComparisonTableDegradesOnStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec("DROP TABLE feature_comparisons").Error)

	svc := NewRecommendationService(db, &fakeCompleter{}, RecommendationOptions{})
	assert.Equal(t, "Error fetching the feature comparison table.", svc.FeatureComparisonTable())
}

func TestBuildRecommendationPrompt(t *testing.T) {
	responses := []ResponseEntry{
		{Question: "Customer Name", Answer: "Acme", QuestionID: 1},
		{Question: "Describe use cases", Answer: "Search", QuestionID: 2},
	}
	top5 := []string{"Vector search", "OLTP"}

	prompt := buildRecommendationPrompt(responses, top5, "free form text", "THE TABLE")

	assert.Contains(t, prompt, "The user has completed a questionnaire.")
	assert.Contains(t, prompt, "- Customer Name: Acme\n")
	assert.Contains(t, prompt, "- Describe use cases: Search\n")
	assert.Contains(t, prompt, "They identified these TOP 5 Requirements:\n#1: Vector search\n#2: OLTP\n")
	assert.Contains(t, prompt, "Additional free-form details:\nfree form text")
	assert.Contains(t, prompt, "Use this feature comparison for reference:\n\nTHE TABLE")
	assert.Contains(t, prompt, "Resources for Azure AI Search:")
	assert.Contains(t, prompt, "Databases are preferred for vector indexes")
	assert.Contains(t, prompt, "AI Search is preferred for vector indexes")
	assert.Contains(t, prompt, "ask follow-up questions at the end")

	// Question/answer lines come before the ranked features
	assert.Less(t, strings.Index(prompt, "- Customer Name"), strings.Index(prompt, "TOP 5"))

	// Deterministic assembly
	assert.Equal(t, prompt, buildRecommendationPrompt(responses, top5, "free form text", "THE TABLE"))
}

func TestBuildRecommendationPromptOmitsEmptySections(t *testing.T) {
	prompt := buildRecommendationPrompt(nil, nil, "", "TABLE")
	assert.NotContains(t, prompt, "TOP 5 Requirements")
	assert.NotContains(t, prompt, "Additional free-form details")
}

func TestRecommendPersistsExchange(t *testing.T) {
	db := setupTestDB(t)
	completer := &fakeCompleter{response: "Use Azure PostgreSQL."}
	svc := NewRecommendationService(db, completer, RecommendationOptions{})

	responses := []ResponseEntry{
		{Question: "Describe use cases", Answer: "Search", QuestionID: 2},
		{Question: "Anything else?", Answer: "RAG over PDFs", QuestionID: models.FreeFormQuestionID},
	}

	recommendation, err := svc.Recommend(context.Background(), "sess-1", responses, []string{"Vector search"})
	require.NoError(t, err)
	assert.Equal(t, "Use Azure PostgreSQL.", recommendation)

	var exchange models.LLMExchange
	require.NoError(t, db.Where("session_id = ?", "sess-1").Take(&exchange).Error)
	assert.Contains(t, exchange.Prompt, "RAG over PDFs")
	assert.Equal(t, "Use Azure PostgreSQL.", exchange.ResponseText)

	// Fixed completion parameters
	require.Len(t, completer.params, 1)
	assert.Equal(t, 1000, completer.params[0].MaxTokens)
	assert.InDelta(t, 1.0, completer.params[0].Temperature, 0.001)

	// System turn pins the advisor persona
	require.Len(t, completer.calls, 1)
	require.Len(t, completer.calls[0], 2)
	assert.Equal(t, "system", completer.calls[0][0].Role)
	assert.Contains(t, completer.calls[0][0].Content, "data storage recommendation system")
}

func TestRecommendUpstreamFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecommendationService(db, &fakeCompleter{err: errors.New("deployment offline")}, RecommendationOptions{})

	_, err := svc.Recommend(context.Background(), "sess-1", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NewUpstreamError("", nil)))

	var count int64
	require.NoError(t, db.Model(&models.LLMExchange{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecommendReturnedEvenIfSaveFails(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec(
		"CREATE TRIGGER block_exchange_insert BEFORE INSERT ON llm_responses BEGIN SELECT RAISE(ABORT, 'insert blocked'); END",
	).Error)

	svc := NewRecommendationService(db, &fakeCompleter{response: "still recommended"}, RecommendationOptions{})

	recommendation, err := svc.Recommend(context.Background(), "sess-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "still recommended", recommendation)
}

func TestRecommendLastFreeFormEntryWins(t *testing.T) {
	db := setupTestDB(t)
	completer := &fakeCompleter{response: "ok"}
	svc := NewRecommendationService(db, completer, RecommendationOptions{})

	responses := []ResponseEntry{
		{Question: "Anything else?", Answer: "first", QuestionID: models.FreeFormQuestionID},
		{Question: "Anything else?", Answer: "second", QuestionID: models.FreeFormQuestionID},
	}

	_, err := svc.Recommend(context.Background(), "sess-1", responses, nil)
	require.NoError(t, err)

	require.Len(t, completer.calls, 1)
	assert.Contains(t, completer.calls[0][1].Content, "Additional free-form details:\nsecond")
}
