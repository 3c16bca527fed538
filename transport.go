package main

import (
	"bufio"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
)

// Transport carries whole protocol messages for one client connection.
// ReadMessage and WriteMessage may be called from different goroutines, but
// each of them from one goroutine at a time. ID names the connection in logs.
type Transport interface {
	ID() string
	ReadMessage() ([]byte, error)
	WriteMessage(payload []byte) error
	WriteMessageWithin(payload []byte, timeout time.Duration) error
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

const maxLineLength = 1 << 20

// LineTransport frames messages as newline-terminated lines on a stream.
type LineTransport struct {
	id           string
	conn         net.Conn
	scanner      *bufio.Scanner
	writeTimeout time.Duration
}

func NewLineTransport(conn net.Conn, writeTimeout time.Duration) *LineTransport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	return &LineTransport{id: uuid.NewString(), conn: conn, scanner: scanner, writeTimeout: writeTimeout}
}

func (t *LineTransport) ID() string {
	return t.id
}

func (t *LineTransport) ReadMessage() ([]byte, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	line := t.scanner.Bytes()
	message := make([]byte, len(line))
	copy(message, line)
	return message, nil
}

func (t *LineTransport) WriteMessage(payload []byte) error {
	return t.WriteMessageWithin(payload, t.writeTimeout)
}

// WriteMessageWithin writes payload with its own deadline instead of the
// transport's write timeout. Zero means no deadline.
func (t *LineTransport) WriteMessageWithin(payload []byte, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	line := make([]byte, 0, len(payload)+1)
	line = append(line, payload...)
	line = append(line, '\n')
	_, err := t.conn.Write(line)
	return err
}

func (t *LineTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *LineTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *LineTransport) Close() error {
	return t.conn.Close()
}
