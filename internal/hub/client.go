package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

// wsConn is the subset of *websocket.Conn the client uses.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Client adapts a websocket connection to the hub's Conn interface with a
// buffered outbound queue, a writer pump, and ping-based liveness: a peer
// that misses its pong deadline is terminated by the read side.
type Client struct {
	userID    string
	conn      wsConn
	send      chan Event
	heartbeat time.Duration
	closeOnce sync.Once
	done      chan struct{}
}

// NewClient wraps an upgraded websocket connection for the given user and
// starts its writer pump. heartbeat controls the ping interval; the pong
// deadline is twice that.
func NewClient(conn wsConn, userID string, heartbeat time.Duration) *Client {
	c := &Client{
		userID:    userID,
		conn:      conn,
		send:      make(chan Event, sendBufferSize),
		heartbeat: heartbeat,
		done:      make(chan struct{}),
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * heartbeat))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * heartbeat))
	})
	go c.writePump()
	return c
}

// UserID returns the user bound to this connection.
func (c *Client) UserID() string { return c.userID }

// Send queues an event without blocking. It reports false when the buffer
// is full, signalling the hub to evict this subscriber.
func (c *Client) Send(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// Close terminates the connection and stops the writer pump.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case ev := <-c.send:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
