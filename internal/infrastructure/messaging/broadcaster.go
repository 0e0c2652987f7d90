// Package messaging provides the WebSocket notification surface
package messaging

import (
	"encoding/json"
	"sync"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// PushBroadcaster fans push notifications out to connected WebSocket clients.
// It implements the gateway's notification surface.
type PushBroadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *logging.ChanneledLogger
}

var _ interfaces.NotificationSurface = (*PushBroadcaster)(nil)

// NewPushBroadcaster creates an empty broadcaster.
func NewPushBroadcaster(logger *logging.ChanneledLogger) *PushBroadcaster {
	return &PushBroadcaster{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// AddClient registers a connected WebSocket client.
func (b *PushBroadcaster) AddClient(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[conn] = true
	b.logger.Push().Debug("Push client registered", "clients", len(b.clients))
}

// RemoveClient unregisters a client and closes its connection.
func (b *PushBroadcaster) RemoveClient(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.clients[conn]; exists {
		delete(b.clients, conn)
		conn.Close()
	}
	b.logger.Push().Debug("Push client unregistered", "clients", len(b.clients))
}

// ClientCount reports the number of connected clients.
func (b *PushBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Show broadcasts the notification to every connected client. Write failures
// drop the failing client; delivery is best-effort.
func (b *PushBroadcaster) Show(notification types.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.Push().Warn("Dropping unresponsive push client", "error", err.Error())
			delete(b.clients, conn)
			conn.Close()
		}
	}
	return nil
}
