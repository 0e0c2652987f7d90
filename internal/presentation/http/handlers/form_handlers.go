// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Portfolio-Session-ID"

// FormHandlers contains all contact form state HTTP handlers
type FormHandlers struct {
	formService *services.FormService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFormHandlers creates form handlers with injected dependencies
func NewFormHandlers(formService *services.FormService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FormHandlers {
	return &FormHandlers{
		formService: formService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func (h *FormHandlers) sessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		h.logger.Form().Error("Form request missing session ID", "path", c.Request.URL.Path)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return "", false
	}
	return sessionID, true
}

// GetState handles GET /api/v1/form/state - returns the current form state
// for the caller's session, seeded from any persisted draft.
func (h *FormHandlers) GetState(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.formService.GetState(sessionID))
}

// PostField handles POST /api/v1/form/field - processes one field edit.
func (h *FormHandlers) PostField(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	marker := h.perfTracker.StartOperation("form_field_change")
	defer marker.Complete()

	field := c.PostForm("field")
	value := c.PostForm("value")

	state, err := h.formService.HandleFieldChange(sessionID, field, value)
	if err != nil {
		h.logger.Form().Error("Field change rejected", "sessionId", sessionID, "field", field, "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// PostBlur handles POST /api/v1/form/blur - runs field-level validation when
// the visitor leaves a field.
func (h *FormHandlers) PostBlur(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.formService.HandleBlur(sessionID, c.PostForm("field")))
}

// PostVerification handles POST /api/v1/form/verification - records the
// verification widget outcome for the session.
func (h *FormHandlers) PostVerification(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	token := c.PostForm("token")
	loaded := c.PostForm("failed") != "true"

	c.JSON(http.StatusOK, h.formService.HandleVerification(sessionID, token, loaded))
}

// PostClear handles POST /api/v1/form/clear - wipes the form and its saved
// draft when the visitor confirms.
func (h *FormHandlers) PostClear(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	confirmed := c.PostForm("confirmed") == "true"
	c.JSON(http.StatusOK, h.formService.Clear(sessionID, confirmed))
}

// PostSubmit handles POST /api/v1/form/submit - runs the full submission
// lifecycle and returns the resulting form state.
func (h *FormHandlers) PostSubmit(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	marker := h.perfTracker.StartOperation("form_submit")
	defer marker.Complete()

	state := h.formService.Submit(c.Request.Context(), sessionID)
	marker.SetSuccess(state.IsSuccess)

	c.JSON(http.StatusOK, state)
}

// PostTeardown handles POST /api/v1/form/teardown - flushes any pending
// draft write and discards the session's form state.
func (h *FormHandlers) PostTeardown(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	h.formService.Teardown(sessionID)
	c.Status(http.StatusNoContent)
}
