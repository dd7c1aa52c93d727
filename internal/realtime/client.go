package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendBufferSize bounds how far a slow reader may fall behind
	// before deliveries to it are dropped.
	sendBufferSize = 64

	writeTimeout = 10 * time.Second
)

// wsClient adapts a websocket connection to the Sink interface. Writes
// go through a buffered channel drained by a single write pump, so
// broadcasts never block on a slow peer.
type wsClient struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer func() { _ = c.conn.Close() }()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	// Channel closed: say goodbye before the deferred close.
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Send implements Sink. Non-blocking: reports false when the buffer is
// full or the client is already closing. A broadcast snapshot taken
// just before the connection unregistered may still call Send, so the
// closed check and the channel send happen under the same lock.
func (c *wsClient) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close shuts down the write pump. Idempotent.
func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
