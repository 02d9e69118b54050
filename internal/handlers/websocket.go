package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
)

const writeTimeout = 5 * time.Second

// Message types sent to websocket clients
const (
	MessageConnected = "connected"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is the envelope of every websocket message
type WSMessage struct {
	Type             string      `json:"type"`
	ServerInstanceID string      `json:"server_instance_id"`
	Payload          interface{} `json:"payload,omitempty"`
}

type WebSocketHandler struct {
	logger           arbor.ILogger
	clients          map[*websocket.Conn]*sync.Mutex // per-connection write lock
	mu               sync.RWMutex
	eventService     interfaces.EventService
	reloadThrottler  *rate.Limiter // nil = no throttling
	serverInstanceID string        // clients use it to detect a server restart
}

func NewWebSocketHandler(eventService interfaces.EventService, logger arbor.ILogger, config *common.WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]*sync.Mutex),
		eventService:     eventService,
		serverInstanceID: uuid.New().String(),
	}

	if config != nil {
		if interval := config.ThrottleInterval(); interval > 0 {
			h.reloadThrottler = rate.NewLimiter(rate.Every(interval), 1)
			logger.Debug().
				Dur("interval", interval).
				Msg("Throttler initialized for dataset_reloaded events")
		}
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized")

	if eventService != nil {
		h.subscribe()
	}
	return h
}

// subscribe forwards dataset events to connected clients
func (h *WebSocketHandler) subscribe() {
	forward := func(ctx context.Context, event interfaces.Event) error {
		payload, ok := event.Payload.(models.DatasetEvent)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
		}
		h.BroadcastDatasetEvent(event.Type, payload)
		return nil
	}

	for _, eventType := range interfaces.AllEventTypes {
		if err := h.eventService.Subscribe(eventType, forward); err != nil {
			h.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to subscribe websocket handler")
		}
	}
}

// HandleWebSocket upgrades the connection and keeps it until the client leaves
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	h.send(conn, WSMessage{Type: MessageConnected})

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	// Read messages from client (keep connection alive)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// BroadcastDatasetEvent sends a dataset event to every client.
// Successful reloads are throttled; failures always go out.
func (h *WebSocketHandler) BroadcastDatasetEvent(eventType interfaces.EventType, event models.DatasetEvent) {
	if eventType == interfaces.EventDatasetReloaded && h.reloadThrottler != nil && !h.reloadThrottler.Allow() {
		h.logger.Debug().Str("snapshot_id", event.SnapshotID).Msg("dataset_reloaded broadcast throttled")
		return
	}
	h.broadcast(WSMessage{Type: string(eventType), Payload: event})
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServerInstanceID returns the id sent with every message
func (h *WebSocketHandler) ServerInstanceID() string {
	return h.serverInstanceID
}

func (h *WebSocketHandler) broadcast(msg WSMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		h.send(conn, msg)
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg WSMessage) {
	h.mu.RLock()
	lock, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	msg.ServerInstanceID = h.serverInstanceID

	lock.Lock()
	defer lock.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send WebSocket message")
	}
}

// Close disconnects every client
func (h *WebSocketHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, lock := range h.clients {
		lock.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		lock.Unlock()
		conn.Close()
	}
}
