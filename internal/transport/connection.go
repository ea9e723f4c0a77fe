package transport

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection wraps the WebSocket connection with a codec and an outgoing queue
type Connection struct {
	ws    *websocket.Conn
	codec Codec
	send  chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// MessageHandler handles decoded frames from a connection.
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, codec Codec) *Connection {
	return &Connection{
		ws:     ws,
		codec:  codec,
		send:   make(chan []byte, 256),
		closed: make(chan struct{}),
	}
}

// Codec returns the codec negotiated for this connection.
func (c *Connection) Codec() Codec {
	return c.codec
}

// ReadPump reads messages until the peer goes away.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("error reading message", "remote", c.ws.RemoteAddr().String(), "error", err)
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for {
		select {
		case message := <-c.send:
			if err := c.ws.WriteMessage(c.codec.FrameType(), message); err != nil {
				return
			}
		case <-c.closed:
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// SendMessage encodes msg and queues it. A client that cannot keep up is
// disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		slog.Warn("send queue full, dropping client", "remote", c.ws.RemoteAddr().String())
		c.Close()
		return ErrConnectionClosed
	}
}

// Close stops the write pump.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}
