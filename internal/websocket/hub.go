package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
)

// AdminRoom receives every order event.
const AdminRoom = "admin"

// OrderRoom is the room a customer's status page listens on.
func OrderRoom(orderID string) string {
	return "order:" + orderID
}

// Client is one websocket connection subscribed to a single room.
type Client struct {
	Hub  *Hub
	Conn *Conn
	Room string
	Send chan []byte
}

type BroadcastMessage struct {
	Room    string
	Message []byte
}

// Hub fans server-side messages out to room subscribers. Clients never send
// application messages.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	// done is closed once Run has returned.
	done chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			size := len(h.rooms[client.Room])
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", map[string]interface{}{
				"room":         client.Room,
				"room_clients": size,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var stale []*Client
			for client := range h.rooms[message.Room] {
				select {
				case client.Send <- message.Message:
				default:
					stale = append(stale, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range stale {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"room": client.Room,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.Room]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.Room)
	}
	close(client.Send)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, clients := range h.rooms {
		for client := range clients {
			close(client.Send)
		}
		delete(h.rooms, room)
	}
}

// SendToRoom queues message for the room. A full broadcast queue drops it;
// status pages also poll so a lost push is recoverable.
func (h *Hub) SendToRoom(room string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err)
		return err
	}

	select {
	case h.broadcast <- &BroadcastMessage{Room: room, Message: data}:
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"room": room,
		})
	}
	return nil
}

// Publish pushes an order event to the admin room and the order's own room.
func (h *Hub) Publish(_ context.Context, event events.OrderEvent) error {
	if err := h.SendToRoom(AdminRoom, event); err != nil {
		return err
	}
	return h.SendToRoom(OrderRoom(event.OrderID), event)
}

// Register adds client to its room. Once the hub has stopped the client's
// send channel is closed instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.Send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister never blocks after the hub has stopped; closeAll already
// released every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
