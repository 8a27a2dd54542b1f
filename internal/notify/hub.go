package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/observability"
	"go.uber.org/zap"
)

// Hub fans import progress snapshots out to websocket subscribers. Each job
// id forms a group; a subscriber only receives snapshots for the job it
// subscribed to. Writes happen on the publisher's goroutine, one connection
// at a time, so a single subscriber sees snapshots in publish order.
type Hub struct {
	logger  *zap.Logger
	metrics *observability.Metrics

	mu     sync.RWMutex
	groups map[string]map[*websocket.Conn]struct{}
}

func NewHub(logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger,
		metrics: metrics,
		groups:  make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Publish sends the snapshot to every subscriber of the job. Connections
// that fail to accept the write are dropped from the group and closed;
// a broken subscriber never fails the publish.
func (h *Hub) Publish(ctx context.Context, jobID string, snapshot domain.ProgressSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode progress snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.groups[jobID]
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("dropping broken progress subscriber",
				zap.String("jobId", jobID),
				zap.Error(err),
			)
			h.removeLocked(jobID, conn)
			_ = conn.Close()
		}
	}

	return nil
}

// Subscribe registers the connection for the job's progress events.
func (h *Hub) Subscribe(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[jobID]
	if !ok {
		group = make(map[*websocket.Conn]struct{})
		h.groups[jobID] = group
	}
	group[conn] = struct{}{}
	h.metrics.IncProgressSubscribers()
}

// Unsubscribe removes the connection; it is a no-op for unknown connections.
func (h *Hub) Unsubscribe(jobID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(jobID, conn)
}

// SubscriberCount reports how many connections follow the given job.
func (h *Hub) SubscriberCount(jobID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[jobID])
}

func (h *Hub) removeLocked(jobID string, conn *websocket.Conn) {
	group, ok := h.groups[jobID]
	if !ok {
		return
	}
	if _, subscribed := group[conn]; !subscribed {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.groups, jobID)
	}
	h.metrics.DecProgressSubscribers()
}

// UpgradeMiddleware rejects plain HTTP requests on websocket routes.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler upgrades the request and keeps the connection subscribed until
// the client goes away. Incoming frames are read and discarded; the socket
// is push-only.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		jobID := conn.Params("jobId")
		if jobID == "" {
			_ = conn.Close()
			return
		}

		h.Subscribe(jobID, conn)
		defer h.Unsubscribe(jobID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
