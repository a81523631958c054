package handler

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/realtime"
)

const pongWait = 60 * time.Second

type WSHandler struct {
	registry *realtime.Registry
}

func NewWSHandler(registry *realtime.Registry) *WSHandler {
	return &WSHandler{registry: registry}
}

// wsSink adapts a websocket connection to the realtime.Sink interface.
// Writes are serialized; fiber's websocket does not allow concurrent writers.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Deliver(payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(payload)
}

func (s *wsSink) Close() error {
	return s.conn.Close()
}

// Upgrade gates the route so only genuine websocket upgrade requests reach
// the connection handler.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle registers the connection with the presence registry for the
// authenticated user and blocks reading until the client goes away. Events
// reach the client through the registry, never directly from here.
func (h *WSHandler) Handle(conn *websocket.Conn) {
	userID, ok := conn.Locals(middleware.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		_ = conn.Close()
		return
	}

	c := h.registry.Attach(userID, &wsSink{conn: conn})
	defer h.registry.Detach(c)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		c.LastSeen = time.Now()
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
