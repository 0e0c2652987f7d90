package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/verification"
	"github.com/gin-gonic/gin"
)

// ContactHandlers contains the contact endpoint HTTP handlers
type ContactHandlers struct {
	contactService *services.ContactService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContactHandlers creates contact handlers with injected dependencies
func NewContactHandlers(contactService *services.ContactService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContactHandlers {
	return &ContactHandlers{
		contactService: contactService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostContact handles POST /api/contact - accepts one contact submission.
func (h *ContactHandlers) PostContact(c *gin.Context) {
	marker := h.perfTracker.StartOperation("contact_submission")
	defer marker.Complete()

	var req contact.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Contact().Warn("Malformed contact payload", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.contactService.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrVerificationFailed):
			c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
		case errors.Is(err, services.ErrInvalidSubmission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Contact().Error("Contact submission failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "status": msg.Status})
}

// GetMessages handles GET /api/v1/admin/messages - lists stored submissions.
func (h *ContactHandlers) GetMessages(c *gin.Context) {
	opts := contact.ListOptions{Status: c.DefaultQuery("status", "all")}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		opts.Offset = offset
	}

	messages, err := h.contactService.List(c.Request.Context(), opts)
	if err != nil {
		h.logger.Contact().Error("Failed to list messages", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// PutMessageRead handles PUT /api/v1/admin/messages/:id/read.
func (h *ContactHandlers) PutMessageRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.contactService.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": contact.StatusRead})
}
