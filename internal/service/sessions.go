package service

import (
	"sort"
	"time"

	"github.com/arno756/storage-advisor/internal/models"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/logger"

	"gorm.io/gorm"
)

// SessionSummary is one row of the per-email session listing
type SessionSummary struct {
	SessionID   string `json:"session_id"`
	SessionName string `json:"session_name"`
	CreatedAt   string `json:"created_at"`
}

// SessionQA is one labeled question/answer pair of a stored session
type SessionQA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SessionFollowUp is one stored follow-up exchange
type SessionFollowUp struct {
	UserMessage      string `json:"user_message"`
	AssistantMessage string `json:"assistant_message"`
}

// SessionRanking is one stored feature ranking
type SessionRanking struct {
	RankPosition int    `json:"rank_position"`
	FeatureName  string `json:"feature_name"`
}

// SessionData is the full stored state of a session
type SessionData struct {
	QA              []SessionQA       `json:"qa"`
	Recommendation  *string           `json:"recommendation"`
	FollowUps       []SessionFollowUp `json:"followups"`
	FeatureRankings []SessionRanking  `json:"feature_rankings"`
}

// SessionDirectoryService lists, soft-deletes and reads back sessions via
// the connections audit table
type SessionDirectoryService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSessionDirectoryService creates a new session directory service
func NewSessionDirectoryService(db *gorm.DB, log *logger.Logger) *SessionDirectoryService {
	return &SessionDirectoryService{db: db, log: log}
}

// RecordConnectionEvent appends one audit row. SessionID and SessionName are
// only set for session_created events.
func (s *SessionDirectoryService) RecordConnectionEvent(email, eventType string, sessionID, sessionName *string) error {
	event := models.ConnectionEvent{
		Email:          email,
		EventType:      eventType,
		SessionID:      sessionID,
		SessionName:    sessionName,
		EventTimestamp: time.Now().UTC(),
	}
	if err := s.db.Create(&event).Error; err != nil {
		return apperrors.NewStoreError("Could not record "+eventType, err)
	}
	return nil
}

// ListSessions returns the email's non-deleted sessions, one row per
// distinct (session_id, session_name) pair, newest first by the earliest
// event timestamp. A missing name falls back to the session ID.
func (s *SessionDirectoryService) ListSessions(email string) ([]SessionSummary, error) {
	var events []models.ConnectionEvent
	err := s.db.
		Where("email = ? AND session_id IS NOT NULL AND event_type = ? AND is_deleted = ?",
			email, models.EventSessionCreated, false).
		Order("event_timestamp ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.NewStoreError("Could not retrieve sessions", err)
	}

	// Group by (session_id, session_name) keeping the earliest timestamp
	type group struct {
		summary   SessionSummary
		createdAt time.Time
	}
	seen := make(map[string]bool)
	var groups []group
	for _, event := range events {
		name := ""
		if event.SessionName != nil {
			name = *event.SessionName
		}
		key := *event.SessionID + "\x00" + name
		if seen[key] {
			continue
		}
		seen[key] = true

		if name == "" {
			name = *event.SessionID
		}
		groups = append(groups, group{
			summary: SessionSummary{
				SessionID:   *event.SessionID,
				SessionName: name,
				CreatedAt:   event.EventTimestamp.UTC().Format(time.RFC3339),
			},
			createdAt: event.EventTimestamp,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].createdAt.After(groups[j].createdAt)
	})

	sessions := make([]SessionSummary, 0, len(groups))
	for _, g := range groups {
		sessions = append(sessions, g.summary)
	}

	return sessions, nil
}

// SoftDelete hides a session from listings by flagging its session_created
// events. Matching zero rows is not an error.
func (s *SessionDirectoryService) SoftDelete(sessionID string) error {
	result := s.db.Model(&models.ConnectionEvent{}).
		Where("session_id = ? AND event_type = ?", sessionID, models.EventSessionCreated).
		Update("is_deleted", true)
	if result.Error != nil {
		return apperrors.NewStoreError("Could not delete session", result.Error)
	}
	return nil
}

// SessionData returns the full stored state of a session: labeled Q&A in
// insertion order, the latest recommendation, follow-ups and rankings
func (s *SessionDirectoryService) SessionData(sessionID string) (*SessionData, error) {
	data := &SessionData{
		QA:              []SessionQA{},
		FollowUps:       []SessionFollowUp{},
		FeatureRankings: []SessionRanking{},
	}

	var qaRows []struct {
		Question     *string
		ResponseText string
		QuestionID   int
	}
	err := s.db.Table("responses r").
		Select("q.question AS question, r.response_text AS response_text, r.question_id AS question_id").
		Joins("LEFT JOIN questions q ON r.question_id = q.id").
		Where("r.session_id = ?", sessionID).
		Order("r.id ASC").
		Scan(&qaRows).Error
	if err != nil {
		return nil, apperrors.NewStoreError("Could not retrieve session data", err)
	}
	for _, row := range qaRows {
		label := "Question"
		if row.QuestionID == models.FreeFormQuestionID {
			label = "Free-form question"
		} else if row.Question != nil && *row.Question != "" {
			label = *row.Question
		}
		data.QA = append(data.QA, SessionQA{Question: label, Answer: row.ResponseText})
	}

	var exchange models.LLMExchange
	err = s.db.Where("session_id = ?", sessionID).Order("id DESC").Take(&exchange).Error
	if err == nil {
		data.Recommendation = &exchange.ResponseText
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.NewStoreError("Could not retrieve session data", err)
	}

	var followUps []models.FollowUp
	if err := s.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&followUps).Error; err != nil {
		return nil, apperrors.NewStoreError("Could not retrieve session data", err)
	}
	for _, f := range followUps {
		data.FollowUps = append(data.FollowUps, SessionFollowUp{
			UserMessage:      f.UserMessage,
			AssistantMessage: f.AssistantMessage,
		})
	}

	var rankings []models.FeatureRanking
	if err := s.db.Where("session_id = ?", sessionID).Order("rank_position ASC").Find(&rankings).Error; err != nil {
		return nil, apperrors.NewStoreError("Could not retrieve session data", err)
	}
	for _, r := range rankings {
		data.FeatureRankings = append(data.FeatureRankings, SessionRanking{
			RankPosition: r.RankPosition,
			FeatureName:  r.FeatureName,
		})
	}

	return data, nil
}
