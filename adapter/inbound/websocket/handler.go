package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

const writeTimeout = 10 * time.Second

// Handler pushes state replacement events to connected panel pages so an
// open tab re-renders without polling.
type Handler struct {
	state    inbound.StateService
	guard    inbound.SessionGuard
	logger   outbound.Logger
	upgrader websocket.Upgrader
	rootCtx  context.Context

	mu          sync.RWMutex
	connections map[*websocket.Conn]struct{}
}

func NewHandler(state inbound.StateService, guard inbound.SessionGuard, logger outbound.Logger, rootCtx context.Context) *Handler {
	return &Handler{
		state:  state,
		guard:  guard,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the panel is same-origin only
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
		rootCtx:     rootCtx,
		connections: make(map[*websocket.Conn]struct{}),
	}
}

// HandleConnection upgrades the request and streams StateEvents until the
// client goes away.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.Current(r.Context()); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.connections[conn] = struct{}{}
	count := len(h.connections)
	h.mu.Unlock()
	h.logger.Debug("Panel page connected", "connections", count)

	events, cancel := h.state.Watch()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(map[string]any{
		"type":    "connected",
		"version": h.state.Snapshot().Version,
	}); err != nil {
		h.closeConnection(conn, cancel)
		return
	}

	go h.readLoop(conn, cancel)
	go h.writeLoop(conn, events, cancel)
}

// readLoop drains client frames so pings are answered and closure is seen.
func (h *Handler) readLoop(conn *websocket.Conn, cancel func()) {
	defer h.closeConnection(conn, cancel)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, events <-chan inbound.StateEvent, cancel func()) {
	defer h.closeConnection(conn, cancel)

	for {
		select {
		case <-h.rootCtx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("Dropping panel connection", "error", err)
				return
			}
		}
	}
}

func (h *Handler) closeConnection(conn *websocket.Conn, cancel func()) {
	cancel()
	conn.Close()

	h.mu.Lock()
	delete(h.connections, conn)
	h.mu.Unlock()
}

// CloseAll terminates every open connection. Called on shutdown.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		delete(h.connections, conn)
	}
}
