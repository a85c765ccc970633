package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go-household-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

const (
	// BroadcastBuffer is how many events may wait for the hub; Publish drops
	// events beyond it.
	BroadcastBuffer = 64
	writeWait       = 5 * time.Second
)

// Client is the part of a websocket connection the hub writes to.
type Client interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Event is the payload broadcast to every connected client.
type Event struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Product any    `json:"product,omitempty"`
	Message string `json:"message"`
}

type Hub struct {
	Clients    map[Client]bool
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte
	mutex      sync.Mutex
	logg       *logger.Logger
}

func NewHub(logg *logger.Logger) *Hub {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Hub{
		Clients:    make(map[Client]bool),
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, BroadcastBuffer),
		logg:       logg,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every remaining client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.logg.Debug(h.logg.WithField(ctx, "clients", h.ClientCount()), "websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			h.logg.Debug(h.logg.WithField(ctx, "clients", h.ClientCount()), "websocket client disconnected")

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := h.write(conn, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// A stalled client gets writeWait before it is dropped.
func (h *Hub) write(conn Client, message []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, message)
}

// Publish queues event for broadcast without blocking the caller. Events are
// dropped when the queue is full or the hub is nil.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.logg.Error(context.Background(), "encoding websocket event", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.logg.Warn(h.logg.WithField(context.Background(), "action", event.Action), "websocket queue full, event dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
