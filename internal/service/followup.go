package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/arno756/storage-advisor/ai"
	"github.com/arno756/storage-advisor/internal/models"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/logger"
	"github.com/arno756/storage-advisor/pkg/metrics"
	"github.com/arno756/storage-advisor/pkg/resilience"

	"gorm.io/gorm"
)

const followUpSystemPrompt = "You are an expert recommendation system for data storage in the context of Intelligent Applications. " +
	"Provide guidance based on the previously given recommendation and Q&As. " +
	"Do not repeat the entire recommendation unless asked. " +
	"Do not answer topics not related to AI or Data Storage."

// QAPair is one catalog question with its recorded answer
type QAPair struct {
	Question string
	Answer   string
}

// FollowUpPair is one stored user/assistant exchange
type FollowUpPair struct {
	UserMessage      string
	AssistantMessage string
}

// ConversationContext is everything needed to rebuild the conversation for a
// follow-up turn. OriginalPrompt and Recommendation are empty strings when
// the session has no recorded exchange yet.
type ConversationContext struct {
	QAPairs        []QAPair
	FreeForm       string
	OriginalPrompt string
	Recommendation string
	PriorFollowUps []FollowUpPair
}

// FollowUpOptions configures the follow-up orchestrator
type FollowUpOptions struct {
	Breaker      *resilience.CircuitBreaker
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
	MaxFollowUps int
	MaxTokens    int
	Temperature  float64
}

// FollowUpService answers capped follow-up questions using the session's
// stored conversation
type FollowUpService struct {
	db           *gorm.DB
	completer    ChatCompleter
	breaker      *resilience.CircuitBreaker
	metrics      *metrics.Metrics
	log          *logger.Logger
	maxFollowUps int
	params       ai.CompletionParams
}

// NewFollowUpService creates a new follow-up service
func NewFollowUpService(db *gorm.DB, completer ChatCompleter, opts FollowUpOptions) *FollowUpService {
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobal()
	}
	breaker := opts.Breaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.DefaultConfig("completion"), log)
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	maxFollowUps := opts.MaxFollowUps
	if maxFollowUps <= 0 {
		maxFollowUps = 20
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &FollowUpService{
		db:           db,
		completer:    completer,
		breaker:      breaker,
		metrics:      m,
		log:          log,
		maxFollowUps: maxFollowUps,
		params:       ai.CompletionParams{MaxTokens: maxTokens, Temperature: temperature},
	}
}

// CountFollowUps returns the number of stored follow-ups for a session
func (s *FollowUpService) CountFollowUps(sessionID string) (int, error) {
	var count int64
	result := s.db.Model(&models.FollowUp{}).Where("session_id = ?", sessionID).Count(&count)
	if result.Error != nil {
		return 0, apperrors.NewStoreError("Error with follow-up generation.", result.Error)
	}
	return int(count), nil
}

// LoadConversationContext reconstructs the session's conversation from the
// store. Prior follow-ups come back in insertion order.
func (s *FollowUpService) LoadConversationContext(sessionID string) (*ConversationContext, error) {
	ctx := &ConversationContext{}

	var qaRows []struct {
		Question     string
		ResponseText string
	}
	err := s.db.Table("responses r").
		Select("q.question AS question, r.response_text AS response_text").
		Joins("JOIN questions q ON r.question_id = q.id").
		Where("r.session_id = ? AND r.question_id != ?", sessionID, models.FreeFormQuestionID).
		Order("r.id ASC").
		Scan(&qaRows).Error
	if err != nil {
		return nil, apperrors.NewStoreError("Error with follow-up generation.", err)
	}
	for _, row := range qaRows {
		ctx.QAPairs = append(ctx.QAPairs, QAPair{Question: row.Question, Answer: row.ResponseText})
	}

	var freeForm models.SurveyResponse
	err = s.db.Where("session_id = ? AND question_id = ?", sessionID, models.FreeFormQuestionID).
		Order("id ASC").
		Take(&freeForm).Error
	if err == nil {
		ctx.FreeForm = freeForm.ResponseText
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.NewStoreError("Error with follow-up generation.", err)
	}

	var exchange models.LLMExchange
	err = s.db.Where("session_id = ?", sessionID).Order("id DESC").Take(&exchange).Error
	if err == nil {
		ctx.OriginalPrompt = exchange.Prompt
		ctx.Recommendation = exchange.ResponseText
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.NewStoreError("Error with follow-up generation.", err)
	}

	var followUps []models.FollowUp
	err = s.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&followUps).Error
	if err != nil {
		return nil, apperrors.NewStoreError("Error with follow-up generation.", err)
	}
	for _, f := range followUps {
		ctx.PriorFollowUps = append(ctx.PriorFollowUps, FollowUpPair{
			UserMessage:      f.UserMessage,
			AssistantMessage: f.AssistantMessage,
		})
	}

	return ctx, nil
}

// Answer handles one follow-up turn: quota check, conversation rebuild,
// completion, then best-effort persistence of the new pair
func (s *FollowUpService) Answer(ctx context.Context, sessionID, userMessage string) (string, error) {
	count, err := s.CountFollowUps(sessionID)
	if err != nil {
		return "", err
	}
	if count >= s.maxFollowUps {
		return "", apperrors.NewQuotaExceededError(
			fmt.Sprintf("Maximum of %d follow-up questions reached.", s.maxFollowUps))
	}

	conversation, err := s.LoadConversationContext(sessionID)
	if err != nil {
		return "", err
	}

	messages := buildFollowUpMessages(conversation, userMessage)

	var answer string
	err = s.breaker.Execute(func() error {
		var completeErr error
		answer, completeErr = s.completer.Complete(ctx, messages, s.params)
		return completeErr
	})
	if err != nil {
		s.metrics.CompletionCalls.WithLabelValues("followup", "failure").Inc()
		return "", apperrors.NewUpstreamError("Error with Azure OpenAI generation.", err)
	}
	s.metrics.CompletionCalls.WithLabelValues("followup", "success").Inc()

	followUp := models.FollowUp{
		SessionID:        sessionID,
		UserMessage:      userMessage,
		AssistantMessage: answer,
	}
	if saveErr := s.db.Create(&followUp).Error; saveErr != nil {
		// Best-effort side record: the answer is still returned
		s.metrics.SideRecordFailures.WithLabelValues("followup").Inc()
		s.log.LogError(saveErr, "failed to save follow-up", "session_id", sessionID)
	}

	return answer, nil
}

// buildFollowUpMessages rebuilds the message sequence: persona system turn,
// one synthetic user turn carrying the original context, prior follow-ups
// replayed as alternating user/assistant turns, then the new user message
func buildFollowUpMessages(conversation *ConversationContext, userMessage string) []ai.Message {
	var qaLines []string
	for _, pair := range conversation.QAPairs {
		qaLines = append(qaLines, fmt.Sprintf("%s: %s", pair.Question, pair.Answer))
	}

	contextTurn := fmt.Sprintf(
		"Original prompt:\n\n%s\n\nInitial Q&A responses:\n%s\n\nFree-form details: %s\n\nPrevious recommendation:\n%s",
		conversation.OriginalPrompt,
		strings.Join(qaLines, "\n"),
		conversation.FreeForm,
		conversation.Recommendation,
	)

	messages := []ai.Message{
		ai.SystemMessage(followUpSystemPrompt),
		ai.UserMessage(contextTurn),
	}

	for _, pair := range conversation.PriorFollowUps {
		messages = append(messages, ai.UserMessage(pair.UserMessage))
		messages = append(messages, ai.AssistantMessage(pair.AssistantMessage))
	}

	messages = append(messages, ai.UserMessage(userMessage))
	return messages
}
