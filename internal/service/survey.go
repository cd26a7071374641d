package service

import (
	"strings"
	"time"

	"github.com/arno756/storage-advisor/internal/models"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerEntry is one submitted questionnaire answer. A nil Answer marks an
// unanswered question and creates no row.
type AnswerEntry struct {
	Question   string  `json:"question"`
	Answer     *string `json:"answer"`
	QuestionID int     `json:"question_id"`
}

// RankingEntry is one submitted feature ranking. Entries missing either
// field are skipped.
type RankingEntry struct {
	RankPosition *int   `json:"rank_position"`
	FeatureName  string `json:"feature_name"`
}

// SurveyService persists questionnaire responses, rankings, feedback and
// help requests
type SurveyService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSurveyService creates a new survey service
func NewSurveyService(db *gorm.DB, log *logger.Logger) *SurveyService {
	return &SurveyService{db: db, log: log}
}

// ListQuestions returns the static question catalog in display order
func (s *SurveyService) ListQuestions() ([]models.Question, error) {
	var questions []models.Question
	result := s.db.Order("display_order ASC, id ASC").Find(&questions)
	if result.Error != nil {
		return nil, apperrors.NewStoreError("An error occurred while fetching questions.", result.Error)
	}
	return questions, nil
}

// SaveResponses generates a fresh session ID, inserts one row per usable
// answer inside a single transaction, and derives a session name from the
// "Customer Name" and "use cases" answers when present.
func (s *SurveyService) SaveResponses(entries []AnswerEntry) (sessionID, sessionName string, err error) {
	sessionID = uuid.New().String()

	var companyName, useCase string

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Question == "" || entry.Answer == nil {
				continue
			}

			response := models.SurveyResponse{
				QuestionID:   entry.QuestionID,
				ResponseText: *entry.Answer,
				SessionID:    sessionID,
			}
			if err := tx.Create(&response).Error; err != nil {
				return err
			}

			if strings.Contains(entry.Question, "Customer Name") {
				companyName = strings.TrimSpace(*entry.Answer)
			}
			if strings.Contains(entry.Question, "use cases") {
				useCase = strings.TrimSpace(*entry.Answer)
			}
		}
		return nil
	})
	if txErr != nil {
		return "", "", apperrors.NewStoreError("An error occurred while saving responses.", txErr)
	}

	sessionName = buildSessionName(sessionID, companyName, useCase, time.Now().UTC())
	return sessionID, sessionName, nil
}

// buildSessionName derives a human-readable session name, falling back to
// the raw session ID when neither naming hint was answered
func buildSessionName(sessionID, companyName, useCase string, now time.Time) string {
	dateStr := now.Format("2006-01-02")
	switch {
	case companyName != "" && useCase != "":
		return companyName + " - " + useCase + " - " + dateStr
	case companyName != "":
		return companyName + " - " + dateStr
	case useCase != "":
		return useCase + " - " + dateStr
	default:
		return sessionID
	}
}

// SaveFeatureRankings inserts one row per well-formed entry inside a single
// transaction. Malformed entries are silently skipped.
func (s *SurveyService) SaveFeatureRankings(sessionID string, entries []RankingEntry) error {
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.RankPosition == nil || entry.FeatureName == "" {
				continue
			}

			ranking := models.FeatureRanking{
				SessionID:    sessionID,
				RankPosition: *entry.RankPosition,
				FeatureName:  entry.FeatureName,
			}
			if err := tx.Create(&ranking).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return apperrors.NewStoreError("Could not record feature ranking", txErr)
	}
	return nil
}

// SaveFeedback records a thumbs up/down with optional comments
func (s *SurveyService) SaveFeedback(sessionID, feedback string, comments *string) error {
	row := models.Feedback{
		SessionID: sessionID,
		Feedback:  feedback,
		Comments:  comments,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return apperrors.NewStoreError("An error occurred while saving feedback.", err)
	}
	return nil
}

// RecordHelpRequest marks that the user asked for help with a session
func (s *SurveyService) RecordHelpRequest(sessionID string) error {
	row := models.HelpRequest{
		SessionID:   sessionID,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return apperrors.NewStoreError("Could not record help request", err)
	}
	return nil
}
