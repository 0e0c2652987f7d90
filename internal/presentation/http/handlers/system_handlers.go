package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SystemHandlers contains health and public configuration handlers
type SystemHandlers struct {
	db          *database.DB
	perfTracker *performance.Tracker
}

// NewSystemHandlers creates system handlers with injected dependencies
func NewSystemHandlers(db *database.DB, perfTracker *performance.Tracker) *SystemHandlers {
	return &SystemHandlers{db: db, perfTracker: perfTracker}
}

// GetHealth handles GET /api/v1/health.
func (h *SystemHandlers) GetHealth(c *gin.Context) {
	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		dbStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   h.perfTracker.Uptime().String(),
	})
}

// GetPublicConfig handles GET /api/v1/config - the values a frontend needs
// to drive the contact form. Secrets never appear here.
func (h *SystemHandlers) GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recaptchaSiteKey": config.RecaptchaSiteKey,
		"contactEndpoint":  config.ContactEndpoint,
		"messageMaxLength": config.MessageMaxLength,
		"environment":      config.Environment,
	})
}
