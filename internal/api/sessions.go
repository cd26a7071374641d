package api

import (
	"net/http"

	"github.com/arno756/storage-advisor/internal/models"
	"github.com/arno756/storage-advisor/internal/service"
	apperrors "github.com/arno756/storage-advisor/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SessionsController handles connection events and the session directory
type SessionsController struct {
	directory *service.SessionDirectoryService
}

// NewSessionsController creates a new sessions controller
func NewSessionsController(directory *service.SessionDirectoryService) *SessionsController {
	return &SessionsController{directory: directory}
}

// RegisterRoutes registers the session routes
func (c *SessionsController) RegisterRoutes(router *gin.Engine) {
	router.POST("/recordLogin", c.RecordLogin)
	router.POST("/recordLogout", c.RecordLogout)
	router.POST("/recordSession", c.RecordSession)
	router.GET("/mySessions", c.MySessions)
	router.POST("/deleteSession/:session_id", c.DeleteSession)
	router.GET("/sessionData/:session_id", c.SessionData)
}

// RecordLogin appends a login audit event
func (c *SessionsController) RecordLogin(ctx *gin.Context) {
	c.recordAuthEvent(ctx, models.EventLogin, "Login recorded")
}

// RecordLogout appends a logout audit event
func (c *SessionsController) RecordLogout(ctx *gin.Context) {
	c.recordAuthEvent(ctx, models.EventLogout, "Logout recorded")
}

func (c *SessionsController) recordAuthEvent(ctx *gin.Context, eventType, successMessage string) {
	var request struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Email == "" {
		ctx.Error(apperrors.NewValidationError("Email is required"))
		return
	}

	if err := c.directory.RecordConnectionEvent(request.Email, eventType, nil, nil); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": successMessage})
}

// RecordSession links a generated session to an email in the directory
func (c *SessionsController) RecordSession(ctx *gin.Context) {
	var request struct {
		Email       string  `json:"email"`
		SessionID   string  `json:"session_id"`
		SessionName *string `json:"session_name"`
	}
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Email == "" || request.SessionID == "" {
		ctx.Error(apperrors.NewValidationError("Email and session_id are required"))
		return
	}

	if err := c.directory.RecordConnectionEvent(request.Email, models.EventSessionCreated, &request.SessionID, request.SessionName); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Session recorded"})
}

// MySessions lists the email's non-deleted sessions, newest first
func (c *SessionsController) MySessions(ctx *gin.Context) {
	email := ctx.Query("email")
	if email == "" {
		ctx.Error(apperrors.NewValidationError("Missing email parameter"))
		return
	}

	sessions, err := c.directory.ListSessions(email)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// DeleteSession soft-deletes a session's directory entries
func (c *SessionsController) DeleteSession(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	if sessionID == "" {
		ctx.Error(apperrors.NewValidationError("session_id is required"))
		return
	}

	if err := c.directory.SoftDelete(sessionID); err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Session soft-deleted."})
}

// SessionData returns the full stored state of a session
func (c *SessionsController) SessionData(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	if sessionID == "" {
		ctx.Error(apperrors.NewValidationError("session_id is required"))
		return
	}

	data, err := c.directory.SessionData(sessionID)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, data)
}
