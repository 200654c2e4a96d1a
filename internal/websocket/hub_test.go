package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/store"
)

func TestStoreChangeReachesBrowser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	hub.NotifyStoreChange(store.Change{Collections: []store.Collection{store.Orders, store.Products}, At: at})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "STORE_CHANGED", msg["type"])
	assert.Equal(t, []interface{}{"orders", "products"}, msg["collections"])
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", nil, "", true},
		{"same host", nil, "http://api.example.com", true},
		{"listed origin", []string{"https://shop.example.com/"}, "https://shop.example.com", true},
		{"wildcard", []string{"*"}, "https://evil.example.net", true},
		{"foreign origin", []string{"https://shop.example.com"}, "https://evil.example.net", false},
		{"garbage origin", nil, "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(tt.allowed...)
			req := httptest.NewRequest(http.MethodGet, "http://api.example.com/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, hub.checkOrigin(req))
		})
	}
}

func TestServeWsRejectsForeignOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub("https://shop.example.com")
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example.net"}}
	_, resp, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestServeWsAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	returned := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
		close(returned)
	}))
	defer srv.Close()

	conn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err == nil {
		defer conn.Close()
	}

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeWs blocked on a stopped hub")
	}
}

func TestPublishRelaysDomainEvents(t *testing.T) {
	hub := NewHub()
	evt := events.New(events.TypeOrderPlaced, "o1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil)

	require.NoError(t, hub.Publish(context.Background(), evt))

	raw := <-hub.broadcast
	var msg DomainEvent
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "DOMAIN_EVENT", msg.Type)
	assert.Equal(t, "o1", msg.Event.EntityID)
}
