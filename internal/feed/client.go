// Package feed consumes the push channel: it maintains an authenticated
// WebSocket session against /ws, demultiplexes envelopes onto per-destination
// handlers and reconnects with exponential backoff when the link drops.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Destinations mirror the server side push channels.
const (
	DestinationNotifications  = "notifications"
	DestinationBookingUpdates = "booking-updates"
	DestinationSystem         = "system"
)

// Envelope is a message received from the push channel.
type Envelope struct {
	Destination string          `json:"destination"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
}

// Handler consumes envelopes delivered to a subscribed destination.
type Handler func(Envelope)

// ConnectionError reports a failed connection attempt, including rejected or
// missing credentials.
type ConnectionError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed: connect %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("feed: connect %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RetryPolicy controls reconnect pacing. Delay doubles per attempt from
// BaseDelay up to MaxDelay.
type RetryPolicy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy reconnects after 1s, 2s, 4s... capped at 30s.
var DefaultRetryPolicy = RetryPolicy{
	BaseDelay: time.Second,
	MaxDelay:  30 * time.Second,
}

// Delay returns the wait before the given attempt (0-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Client is a push channel consumer. Subscriptions survive reconnects: after
// the link is reestablished every destination is subscribed again.
type Client struct {
	url    string
	token  string
	retry  RetryPolicy
	dialer *websocket.Dialer

	mu       sync.RWMutex
	conn     *websocket.Conn
	handlers map[string]Handler
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// Dial connects to the push channel at url using the given access token. The
// token is required: connecting without one fails without retrying.
func Dial(ctx context.Context, url, token string, retry RetryPolicy) (*Client, error) {
	if token == "" {
		return nil, &ConnectionError{URL: url, Err: fmt.Errorf("no token provided")}
	}
	if retry.BaseDelay <= 0 {
		retry = DefaultRetryPolicy
	}

	c := &Client{
		url:      url,
		token:    token,
		retry:    retry,
		dialer:   websocket.DefaultDialer,
		handlers: make(map[string]Handler),
		done:     make(chan struct{}),
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	c.conn = conn

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.readLoop(runCtx)

	return c, nil
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		ce := &ConnectionError{URL: c.url, Err: err}
		if resp != nil {
			ce.StatusCode = resp.StatusCode
		}
		return nil, ce
	}
	return conn, nil
}

// Subscribe registers a handler for a destination and sends the subscribe
// frame. Subscribing twice replaces the handler.
func (c *Client) Subscribe(destination string, handler Handler) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("feed: client is closed")
	}
	c.handlers[destination] = handler
	conn := c.conn
	c.mu.Unlock()

	return c.sendSubscribe(conn, destination)
}

func (c *Client) sendSubscribe(conn *websocket.Conn, destination string) error {
	frame := map[string]string{"action": "subscribe", "destination": destination}
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("feed: marshal subscribe frame: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("feed: send subscribe frame: %w", err)
	}
	return nil
}

// readLoop dispatches incoming envelopes and reconnects on failure.
func (c *Client) readLoop(ctx context.Context) {
	defer close(c.done)

	for {
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		_, data, err := conn.ReadMessage()
		if err != nil {
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		c.dispatch(data)
	}
}

// dispatch routes each envelope in the frame to its destination handler.
// Batched frames hold newline-separated envelopes.
func (c *Client) dispatch(data []byte) {
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var env Envelope
		if err := dec.Decode(&env); err != nil {
			return
		}

		c.mu.RLock()
		handler := c.handlers[env.Destination]
		c.mu.RUnlock()

		if handler != nil {
			handler(env)
		}
	}
}

// reconnect redials with exponential backoff and resubscribes every
// destination. Returns false once the client is closed.
func (c *Client) reconnect(ctx context.Context) bool {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.retry.Delay(attempt)):
		}

		conn, err := c.connect(ctx)
		if err != nil {
			log.Printf("feed: reconnect attempt %d: %v", attempt+1, err)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			conn.Close()
			return false
		}
		c.conn = conn
		destinations := make([]string, 0, len(c.handlers))
		for d := range c.handlers {
			destinations = append(destinations, d)
		}
		c.mu.Unlock()

		for _, d := range destinations {
			if err := c.sendSubscribe(conn, d); err != nil {
				log.Printf("feed: resubscribe %s: %v", d, err)
			}
		}
		return true
	}
}

// Close shuts the session down. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
	}
	return nil
}
