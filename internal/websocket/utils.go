package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// idleWait is how long a client may stay silent before the read
	// side gives up. Ping actions reset it.
	idleWait = 5 * time.Minute
)

// WriteFrame sends one typed frame, bounding the write with writeWait.
func WriteFrame(conn *websocket.Conn, frame interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}

// WriteError sends a typed ErrorFrame.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteFrame(conn, ErrorFrame{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadEnvelope reads the next client action. The deadline makes an
// abandoned connection surface as a read error within idleWait.
func ReadEnvelope(conn *websocket.Conn) (RequestEnvelope, error) {
	var req RequestEnvelope
	conn.SetReadDeadline(time.Now().Add(idleWait))
	err := conn.ReadJSON(&req)
	return req, err
}
