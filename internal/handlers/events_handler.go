package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/najeeb67/my-money-mat/internal/events"
	"github.com/najeeb67/my-money-mat/internal/logger"
)

const wsWriteTimeout = 5 * time.Second

// Subscriber hands out event subscriptions.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// EventsHandler streams store and sync events over a websocket.
type EventsHandler struct {
	subscriber     Subscriber
	originPatterns []string
}

// NewEventsHandler creates a new EventsHandler. originPatterns limits which
// browser origins may connect; nil allows same-origin only.
func NewEventsHandler(subscriber Subscriber, originPatterns []string) *EventsHandler {
	return &EventsHandler{subscriber: subscriber, originPatterns: originPatterns}
}

// Stream upgrades the request and forwards every event as a JSON text frame
// until the client goes away.
// @Summary     Event stream
// @Description Websocket of unsynced_count_changed, sync_pass_completed, conflicts_updated, online_status_changed and outbox_replayed events
// @Tags        events
// @Security    ApiKeyAuth
// @Success     101 "Switching protocols"
// @Router      /ws [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.Get().Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	// The client never sends; CloseRead handles control frames and cancels
	// ctx when the peer disconnects.
	ctx := conn.CloseRead(c.Request.Context())

	sub, cancel := h.subscriber.Subscribe()
	defer cancel()

	log := logger.Get()
	log.Debugw("event subscriber connected", "remote", c.ClientIP())

	for {
		select {
		case <-ctx.Done():
			log.Debugw("event subscriber disconnected", "remote", c.ClientIP())
			return
		case ev, ok := <-sub:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := writeEvent(ctx, conn, ev); err != nil {
				log.Debugw("event write failed", "error", err)
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
