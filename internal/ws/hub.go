package ws

import (
	"log"
	"sync"
)

// Destinations a client may subscribe to. The first two are per-user feeds;
// system is a shared broadcast feed.
const (
	DestinationNotifications  = "notifications"
	DestinationBookingUpdates = "booking-updates"
	DestinationSystem         = "system"
)

// Event types carried inside envelopes.
const (
	EventTypeBookingUpdate = "booking_update"
	EventTypeNotification  = "notification"
	EventTypeSystem        = "system"
	EventTypeConnected     = "connected"
)

// Client represents one WebSocket session of an authenticated user.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte
	Hub    *Hub
	Conn   *Connection

	mu            sync.RWMutex
	subscriptions map[string]bool
}

// Subscribe registers interest in a destination.
func (c *Client) Subscribe(destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscriptions == nil {
		c.subscriptions = make(map[string]bool)
	}
	c.subscriptions[destination] = true
}

// Unsubscribe removes interest in a destination.
func (c *Client) Unsubscribe(destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, destination)
}

// Subscribed reports whether the client listens on a destination.
func (c *Client) Subscribed(destination string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscriptions[destination]
}

// Hub maintains active clients keyed by user ID and fans events out to the
// destinations they subscribed to.
type Hub struct {
	// Registered clients by user ID
	clients map[string]map[*Client]bool

	// Outbound events
	publish chan *Envelope

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan *Envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the Hub's main loop. Call once from a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				if _, ok := h.clients[client.UserID][client]; ok {
					delete(h.clients[client.UserID], client)
					close(client.Send)
					if len(h.clients[client.UserID]) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()

		case envelope := <-h.publish:
			h.deliver(envelope)
		}
	}
}

// deliver fans an envelope out to the subscribed clients of the target user,
// or to every subscribed client when the envelope is a broadcast.
func (h *Hub) deliver(envelope *Envelope) {
	h.mu.RLock()
	var targets []*Client
	if envelope.Broadcast() {
		for _, clients := range h.clients {
			for client := range clients {
				targets = append(targets, client)
			}
		}
	} else {
		for client := range h.clients[envelope.UserID] {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	data := envelope.ToJSON()
	for _, client := range targets {
		if !client.Subscribed(envelope.Destination) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			// Slow client: drop the connection rather than block the hub.
			h.mu.Lock()
			if _, ok := h.clients[client.UserID][client]; ok {
				delete(h.clients[client.UserID], client)
				close(client.Send)
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
			log.Printf("ws: evicted slow client %s (user %s)", client.ID, client.UserID)
		}
	}
}

// PublishToUser queues an event for every session of a user on a destination.
func (h *Hub) PublishToUser(userID, destination, eventType string, payload interface{}) {
	h.publish <- &Envelope{
		UserID:      userID,
		Destination: destination,
		Type:        eventType,
		Payload:     payload,
	}
}

// Broadcast queues a system-wide event for all clients subscribed to the
// system destination.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	h.publish <- &Envelope{
		Destination: DestinationSystem,
		Type:        eventType,
		Payload:     payload,
	}
}

// ClientCount returns the number of connected sessions for a user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
