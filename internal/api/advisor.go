package api

import (
	"net/http"

	"github.com/arno756/storage-advisor/internal/service"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AdvisorController handles the two LLM-backed endpoints
type AdvisorController struct {
	recommendation *service.RecommendationService
	followUp       *service.FollowUpService
}

// NewAdvisorController creates a new advisor controller
func NewAdvisorController(recommendation *service.RecommendationService, followUp *service.FollowUpService) *AdvisorController {
	return &AdvisorController{
		recommendation: recommendation,
		followUp:       followUp,
	}
}

// RegisterRoutes registers the advisor routes
func (c *AdvisorController) RegisterRoutes(router *gin.Engine) {
	router.POST("/recommendation", c.Recommendation)
	router.POST("/followup", c.FollowUp)
}

// Recommendation generates the data-storage recommendation for a session
func (c *AdvisorController) Recommendation(ctx *gin.Context) {
	var request struct {
		Responses    []service.ResponseEntry `json:"responses"`
		SessionID    string                  `json:"session_id"`
		Top5Features []string                `json:"top5_features"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.Error(apperrors.NewValidationError("A valid request body is required."))
		return
	}

	recommendation, err := c.recommendation.Recommend(ctx.Request.Context(), request.SessionID, request.Responses, request.Top5Features)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"recommendation": recommendation})
}

// FollowUp answers one follow-up question within the session's conversation
func (c *AdvisorController) FollowUp(ctx *gin.Context) {
	var request struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.SessionID == "" || request.Message == "" {
		ctx.Error(apperrors.NewValidationError("session_id and message are required."))
		return
	}

	answer, err := c.followUp.Answer(ctx.Request.Context(), request.SessionID, request.Message)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"answer": answer})
}
