package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/store"
)

// Hub maintains the set of connected browsers and fans messages out to them
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	// closed when Run returns
	done chan struct{}

	origins []string

	mu sync.RWMutex
}

// StoreChanged is pushed to every browser after a committed transaction
type StoreChanged struct {
	Type string `json:"type"`
	store.Change
}

// DomainEvent relays a published event to the browsers
type DomainEvent struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

// NewHub creates a new Hub instance. Browsers may connect from the
// listed origins ("*" allows any) or from the API's own host.
func NewHub(allowedOrigins ...string) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		origins:    allowedOrigins,
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Logger.Debug().Str("client_id", client.ID).Msg("Browser connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Logger.Debug().Str("client_id", client.ID).Msg("Browser disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues v, encoded as JSON, for every connected browser.
// It drops the message rather than block when the queue is full.
func (h *Hub) Broadcast(v interface{}) bool {
	msg, err := json.Marshal(v)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Error marshaling broadcast")
		return false
	}
	select {
	case h.broadcast <- msg:
		return true
	default:
		logger.Logger.Warn().Msg("Broadcast queue full, dropping message")
		return false
	}
}

// NotifyStoreChange is a store.Listener
func (h *Hub) NotifyStoreChange(c store.Change) {
	h.Broadcast(StoreChanged{Type: "STORE_CHANGED", Change: c})
}

// Publish implements events.Publisher
func (h *Hub) Publish(_ context.Context, evt events.Event) error {
	h.Broadcast(DomainEvent{Type: "DOMAIN_EVENT", Event: evt})
	return nil
}

// Close implements events.Publisher; the hub stops with its Run context
func (h *Hub) Close() error { return nil }

// checkOrigin accepts requests without an Origin header, same-host
// requests and the configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// ClientCount reports how many browsers are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
