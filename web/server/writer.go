package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SafeWriter serializes writes to a websocket connection. Frames and console
// messages are written from different goroutines.
type SafeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewSafeWriter wraps conn
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

// WriteJSON writes v as a text message
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// WriteMessage writes a raw message of the given websocket type
func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// Close closes the connection
func (w *SafeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}
