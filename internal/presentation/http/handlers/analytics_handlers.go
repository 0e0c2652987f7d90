package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandlers contains admin analytics and performance HTTP handlers
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetSummary handles GET /api/v1/admin/analytics - event counts by category.
func (h *AnalyticsHandlers) GetSummary(c *gin.Context) {
	counts, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		h.logger.Analytics().Error("Failed to summarize analytics", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

// GetPerformance handles GET /api/v1/admin/performance - operation timings.
func (h *AnalyticsHandlers) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime":     h.perfTracker.Uptime().String(),
		"operations": h.perfTracker.Stats(),
	})
}
