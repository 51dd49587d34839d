package handler

import (
	"net/http"
	"time"

	"labourhub/internal/service"
	"labourhub/pkg/events"
	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the API key gate runs before the upgrade
	},
}

// EventsHandler streams a coordinator's accountability entries over websocket
type EventsHandler struct {
	hub          *events.Hub
	coordinators *service.CoordinatorService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub, coordinators *service.CoordinatorService) *EventsHandler {
	return &EventsHandler{hub: hub, coordinators: coordinators}
}

// Stream upgrades to websocket and pushes each new log entry as a JSON text frame
// @Router /api/v1/coordinators/{id}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	coordinatorID := c.Param("id")
	if _, err := h.coordinators.Get(ctx, coordinatorID); err != nil {
		respondError(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to upgrade to websocket: %v", err)
		return
	}
	defer ws.Close()

	sub := h.hub.Subscribe(coordinatorID)
	defer sub.Close()
	logger.InfoCtx(ctx, "event stream opened for coordinator %s", coordinatorID)
	logger.DebugCtx(ctx, "coordinator %s has %d event streams", coordinatorID, h.hub.Subscribers(coordinatorID))

	// reader: handles pongs and detects client close
	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.SetReadLimit(512)
		_ = ws.SetReadDeadline(time.Now().Add(wsPongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			logger.InfoCtx(ctx, "event stream closed by client for coordinator %s", coordinatorID)
			return
		case entry, ok := <-sub.C:
			if !ok {
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
				return
			}
			_ = ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := ws.WriteJSON(entry); err != nil {
				logger.WarnCtx(ctx, "event stream write failed for coordinator %s: %v", coordinatorID, err)
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
