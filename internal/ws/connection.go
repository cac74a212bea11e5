package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Envelope is the wire format for every pushed message. Destination lets the
// client demultiplex onto its subscription handlers.
type Envelope struct {
	UserID      string      `json:"-"`
	Destination string      `json:"destination"`
	Type        string      `json:"type"`
	Payload     interface{} `json:"payload"`
}

// Broadcast reports whether the envelope targets all users.
func (e *Envelope) Broadcast() bool {
	return e.UserID == ""
}

// ToJSON converts the envelope to JSON bytes.
func (e *Envelope) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("ws: marshal envelope: %v", err)
		return []byte("{}")
	}
	return data
}

// clientFrame is what the peer may send: subscription management only.
type clientFrame struct {
	Action      string `json:"action"`
	Destination string `json:"destination"`
}

// Connection wraps the WebSocket connection.
type Connection struct {
	ws     *websocket.Conn
	client *Client
}

// NewConnection creates a new Connection.
func NewConnection(ws *websocket.Conn, client *Client) *Connection {
	return &Connection{
		ws:     ws,
		client: client,
	}
}

// ReadPump pumps frames from the WebSocket connection to the hub. The only
// frames a client sends are subscribe/unsubscribe requests.
func (c *Connection) ReadPump() {
	defer func() {
		c.client.Hub.unregister <- c.client
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("ws: bad frame from client %s: %v", c.client.ID, err)
			continue
		}

		switch frame.Action {
		case "subscribe":
			if validDestination(frame.Destination) {
				c.client.Subscribe(frame.Destination)
			}
		case "unsubscribe":
			c.client.Unsubscribe(frame.Destination)
		}
	}
}

func validDestination(destination string) bool {
	switch destination {
	case DestinationNotifications, DestinationBookingUpdates, DestinationSystem:
		return true
	}
	return false
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.client.Send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.client.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.client.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
