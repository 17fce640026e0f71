package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_PublishReachesAdminAndOrderRooms(t *testing.T) {
	hub := startHub(t)

	admin := &Client{Hub: hub, Room: AdminRoom, Send: make(chan []byte, 4)}
	customer := &Client{Hub: hub, Room: OrderRoom("o-1"), Send: make(chan []byte, 4)}
	other := &Client{Hub: hub, Room: OrderRoom("o-2"), Send: make(chan []byte, 4)}
	hub.Register(admin)
	hub.Register(customer)
	hub.Register(other)

	require.Eventually(t, func() bool {
		return hub.RoomSize(AdminRoom) == 1 && hub.RoomSize(OrderRoom("o-1")) == 1
	}, time.Second, 5*time.Millisecond)

	event := events.OrderEvent{Type: events.OrderStatusChanged, OrderID: "o-1", Status: model.OrderStatusReady}
	require.NoError(t, hub.Publish(context.Background(), event))

	for _, c := range []*Client{admin, customer} {
		select {
		case raw := <-c.Send:
			var got events.OrderEvent
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, model.OrderStatusReady, got.Status)
		case <-time.After(time.Second):
			t.Fatalf("no message for room %s", c.Room)
		}
	}

	select {
	case <-other.Send:
		t.Fatal("unrelated order room must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	client := &Client{Hub: hub, Room: AdminRoom, Send: make(chan []byte, 1)}
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.RoomSize(AdminRoom) == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.RoomSize(AdminRoom) == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	live := &Client{Hub: hub, Room: AdminRoom, Send: make(chan []byte, 1)}
	hub.Register(live)
	require.Eventually(t, func() bool { return hub.RoomSize(AdminRoom) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	_, open := <-live.Send
	assert.False(t, open, "stopping the hub closes every client")

	// More than the unregister buffer holds.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Unregister(live)
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}

	late := &Client{Hub: hub, Room: AdminRoom, Send: make(chan []byte, 1)}
	hub.Register(late)
	_, open = <-late.Send
	assert.False(t, open)
}

func TestHub_SubscribeOverRealConnection(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader(nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := hub.Subscribe(&upgrader, w, r, OrderRoom("o-9"))
		assert.NoError(t, err)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(OrderRoom("o-9")) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.SendToRoom(OrderRoom("o-9"), map[string]string{"status": "preparing"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"preparing"}`, string(data))
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://imperio.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://imperio.example")
	assert.True(t, upgrader.CheckOrigin(req))
}
