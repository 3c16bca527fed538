package main

import (
	"net"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
)

// WebsocketTransport carries one protocol message per text frame, for browser
// clients connecting through the HTTP server.
type WebsocketTransport struct {
	id           string
	conn         net.Conn
	remoteAddr   string
	writeTimeout time.Duration
}

func NewWebsocketTransport(conn net.Conn, remoteAddr string, writeTimeout time.Duration) *WebsocketTransport {
	return &WebsocketTransport{id: uuid.NewString(), conn: conn, remoteAddr: remoteAddr, writeTimeout: writeTimeout}
}

func (w *WebsocketTransport) ID() string {
	return w.id
}

func (w *WebsocketTransport) ReadMessage() ([]byte, error) {
	return wsutil.ReadClientText(w.conn)
}

func (w *WebsocketTransport) WriteMessage(payload []byte) error {
	return w.WriteMessageWithin(payload, w.writeTimeout)
}

func (w *WebsocketTransport) WriteMessageWithin(payload []byte, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return wsutil.WriteServerText(w.conn, payload)
}

func (w *WebsocketTransport) SetReadDeadline(deadline time.Time) error {
	return w.conn.SetReadDeadline(deadline)
}

func (w *WebsocketTransport) RemoteAddr() string {
	return w.remoteAddr
}

func (w *WebsocketTransport) Close() error {
	return w.conn.Close()
}
