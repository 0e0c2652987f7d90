package handlers

import (
	"io"
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PushHandlers contains push notification HTTP handlers
type PushHandlers struct {
	manager     *manager.Manager
	broadcaster *messaging.PushBroadcaster
	analytics   *services.AnalyticsService
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewPushHandlers creates push handlers with injected dependencies
func NewPushHandlers(mgr *manager.Manager, broadcaster *messaging.PushBroadcaster, analytics *services.AnalyticsService, logger *logging.ChanneledLogger) *PushHandlers {
	return &PushHandlers{
		manager:     mgr,
		broadcaster: broadcaster,
		analytics:   analytics,
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// PostPush handles POST /api/v1/admin/push - broadcasts a notification to
// every connected client. The payload may be empty; defaults apply.
func (h *PushHandlers) PostPush(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	if err := h.manager.HandlePush(payload); err != nil {
		h.logger.Push().Error("Push broadcast failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "push failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": h.broadcaster.ClientCount()})
}

// GetStream handles GET /api/v1/push/stream - upgrades to a WebSocket and
// keeps the connection registered until the peer disconnects.
func (h *PushHandlers) GetStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Push().Warn("WebSocket upgrade failed", "error", err.Error())
		return
	}

	h.broadcaster.AddClient(conn)
	go func() {
		defer h.broadcaster.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// PostClick handles POST /api/v1/push/click - resolves a notification click
// to its target URL and records the interaction.
func (h *PushHandlers) PostClick(c *gin.Context) {
	var data types.NotificationData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target := h.manager.HandleNotificationClick(data)
	h.analytics.TrackEvent("Push", "click", target, 0)
	c.JSON(http.StatusOK, gin.H{"url": target})
}
