// Package ws adapts gorilla websocket connections to the chat protocol:
// one ChatConn plus one Session per client, driven by a read and a write
// pump.
package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/avdeenko/chatline/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// ChatConn wraps a websocket with a buffered outbound queue. TrySend never
// blocks; a full queue counts as a send failure so one slow client cannot
// stall a broadcast pass.
type ChatConn struct {
	id   string
	ws   *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func NewChatConn(ws *websocket.Conn, buffer int) *ChatConn {
	return &ChatConn{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan core.Frame, buffer),
	}
}

// ID is a correlation id for logs only; it never goes over the wire.
func (c *ChatConn) ID() string { return c.id }

func (c *ChatConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *ChatConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.ws.Close()
	c.mu.Unlock()
}

// CloseWithReason sends a close control frame with the given status code
// and reason, then tears the transport down. Used for handshake
// rejections, where the reason text is part of the contract.
func (c *ChatConn) CloseWithReason(code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	c.Close()
}
