package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline = 10 * time.Second
	// Plan-stream clients are mostly idle; pings arrive well inside this.
	readDeadline = 5 * time.Minute
)

// Conn wraps a gorilla connection with a write lock. The plan stream has
// two write sources, the PubSub fan-out loop and the reader goroutine's
// control replies, and gorilla permits only one concurrent writer.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// Wrap adopts an upgraded gorilla connection.
func Wrap(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed payload, serialized against all other
// writers on this connection.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func (c *Conn) WriteError(errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes a message with a read deadline applied.
// Reads need no lock; the connection has a single reader.
func (c *Conn) ReadJSON(v interface{}) error {
	c.ws.SetReadDeadline(time.Now().Add(readDeadline))
	return c.ws.ReadJSON(v)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
