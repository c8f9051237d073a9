package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	models "SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	xlogger "SwingPull/pkg/logger"
)

const wsWriteTimeout = 5 * time.Second

// WSHub pushes each published snapshot to connected dashboard sessions.
// It implements the snapshot publisher interface so the refresher can fan
// out to it alongside the event bus.
type WSHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewWSHub(logger *xlogger.Logger) *WSHub {
	return &WSHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and holds the connection until the client
// goes away. Inbound frames are drained and discarded.
func (h *WSHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("dashboard session connected", xlogger.Int("sessions", n))

	go h.reader(conn)
	return nil
}

func (h *WSHub) reader(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// PublishSnapshot broadcasts the snapshot to every session. Write failures
// drop the session; the broadcast itself never fails.
func (h *WSHub) PublishSnapshot(_ context.Context, snap *models.MarketSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(conn)
		}
	}
	return nil
}

func (h *WSHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	return nil
}

var _ drepo.SnapshotPublisher = (*WSHub)(nil)
