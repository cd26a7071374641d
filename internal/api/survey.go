package api

import (
	"net/http"

	"github.com/arno756/storage-advisor/internal/service"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"
	"github.com/arno756/storage-advisor/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// SurveyController handles the questionnaire endpoints
type SurveyController struct {
	survey  *service.SurveyService
	metrics *metrics.Metrics
}

// NewSurveyController creates a new survey controller
func NewSurveyController(survey *service.SurveyService, m *metrics.Metrics) *SurveyController {
	return &SurveyController{survey: survey, metrics: m}
}

// RegisterRoutes registers the survey routes
func (c *SurveyController) RegisterRoutes(router *gin.Engine) {
	router.GET("/questions", c.GetQuestions)
	router.POST("/submit", c.Submit)
	router.POST("/feedback", c.Feedback)
	router.POST("/featureRanking", c.FeatureRanking)
	router.POST("/getHelp", c.GetHelp)
}

// GetQuestions returns the question catalog
func (c *SurveyController) GetQuestions(ctx *gin.Context) {
	questions, err := c.survey.ListQuestions()
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// Submit saves the questionnaire responses and returns the generated
// session ID and derived session name
func (c *SurveyController) Submit(ctx *gin.Context) {
	var entries []service.AnswerEntry
	if err := ctx.ShouldBindJSON(&entries); err != nil {
		ctx.Error(apperrors.NewValidationError("A list of responses is required."))
		return
	}

	sessionID, sessionName, err := c.survey.SaveResponses(entries)
	if err != nil {
		ctx.Error(err)
		return
	}

	c.metrics.SessionsCreated.Inc()

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Responses saved successfully!",
		"session_id":   sessionID,
		"session_name": sessionName,
	})
}

// Feedback records a thumbs up/down with optional comments
func (c *SurveyController) Feedback(ctx *gin.Context) {
	var request struct {
		SessionID string  `json:"session_id"`
		Feedback  string  `json:"feedback"`
		Comments  *string `json:"comments"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.SessionID == "" || request.Feedback == "" {
		ctx.Error(apperrors.NewValidationError("Session ID and feedback are required"))
		return
	}

	if err := c.survey.SaveFeedback(request.SessionID, request.Feedback, request.Comments); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Feedback recorded successfully!"})
}

// FeatureRanking records the session's ranked feature list
func (c *SurveyController) FeatureRanking(ctx *gin.Context) {
	var request struct {
		SessionID       string                 `json:"session_id"`
		FeatureRankings []service.RankingEntry `json:"feature_rankings"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.SessionID == "" || len(request.FeatureRankings) == 0 {
		ctx.Error(apperrors.NewValidationError("session_id and feature_rankings are required"))
		return
	}

	if err := c.survey.SaveFeatureRankings(request.SessionID, request.FeatureRankings); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Feature rankings saved successfully!"})
}

// GetHelp records a help request for a session
func (c *SurveyController) GetHelp(ctx *gin.Context) {
	var request struct {
		SessionID string `json:"session_id"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.SessionID == "" {
		ctx.Error(apperrors.NewValidationError("session_id is required"))
		return
	}

	if err := c.survey.RecordHelpRequest(request.SessionID); err != nil {
		ctx.Error(err)
		return
	}

	c.metrics.HelpRequests.Inc()

	ctx.JSON(http.StatusOK, gin.H{"message": "Help request recorded successfully!"})
}
