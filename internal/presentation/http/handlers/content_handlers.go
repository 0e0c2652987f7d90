package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// ContentHandlers contains portfolio content HTTP handlers
type ContentHandlers struct {
	contentService *services.ContentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContentHandlers creates content handlers with injected dependencies
func NewContentHandlers(contentService *services.ContentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContentHandlers {
	return &ContentHandlers{
		contentService: contentService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetPortfolio handles GET /api/portfolio - the full content document.
func (h *ContentHandlers) GetPortfolio(c *gin.Context) {
	portfolio := h.contentService.Portfolio()
	if portfolio == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "content not loaded"})
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

// GetSection handles GET /api/portfolio/:section - one content section.
func (h *ContentHandlers) GetSection(c *gin.Context) {
	name := c.Param("section")
	section, ok := h.contentService.Section(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}

	c.JSON(http.StatusOK, gin.H{name: section})
}
