package main

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"typeracer-server/protocol"
)

func testSettings() GameSettings {
	return GameSettings{
		CountdownSeconds: 10,
		CountdownTick:    20 * time.Millisecond,
		HandshakeTimeout: time.Second,
		JoinTimeout:      time.Second,
		OutboundBuffer:   64,
	}
}

// testPeer is the client end of a net.Pipe; server is the transport the
// registry sees.
type testPeer struct {
	conn     net.Conn
	server   *LineTransport
	messages chan protocol.Message
}

func newTestPeer(t *testing.T) *testPeer {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	p := &testPeer{
		conn:     clientSide,
		server:   NewLineTransport(serverSide, time.Second),
		messages: make(chan protocol.Message, 256),
	}
	go func() {
		defer close(p.messages)
		scanner := bufio.NewScanner(clientSide)
		scanner.Buffer(make([]byte, 4096), maxLineLength)
		for scanner.Scan() {
			msg, err := protocol.Decode(scanner.Bytes())
			if err != nil {
				return
			}
			p.messages <- msg
		}
	}()
	t.Cleanup(func() {
		clientSide.Close()
		serverSide.Close()
	})
	return p
}

func (p *testPeer) send(t *testing.T, m protocol.Message) {
	t.Helper()
	payload, err := protocol.Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := p.conn.Write(append(payload, '\n')); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// handshake runs HandleConnection for the peer and sends first as its first message.
func (p *testPeer) handshake(t *testing.T, r *Registry, first protocol.Message) error {
	t.Helper()
	errs := make(chan error, 1)
	go func() { errs <- r.HandleConnection(context.Background(), p.server) }()
	p.send(t, first)
	select {
	case err := <-errs:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for handshake")
		return nil
	}
}

func createGame(t *testing.T, r *Registry) int {
	t.Helper()
	id, err := r.CreateGame()
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return id
}

func recvMessage(t *testing.T, p *testPeer, within time.Duration) protocol.Message {
	t.Helper()
	select {
	case msg, ok := <-p.messages:
		if !ok {
			t.Fatalf("connection closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return nil
	}
}

func recvType[T protocol.Message](t *testing.T, p *testPeer, within time.Duration) T {
	t.Helper()
	msg := recvMessage(t, p, within)
	typed, ok := msg.(T)
	if !ok {
		var want T
		t.Fatalf("expected %s, got %s", want.Type(), msg.Type())
	}
	return typed
}

func recvNoMessage(t *testing.T, p *testPeer, within time.Duration) {
	t.Helper()
	select {
	case msg, ok := <-p.messages:
		if !ok {
			return
		}
		t.Fatalf("expected no message within %v, but got: %s", within, msg.Type())
	case <-time.After(within):
	}
}

// expectClosed drains the peer until the server closes the connection and
// returns what arrived in between.
func expectClosed(t *testing.T, p *testPeer, within time.Duration) []protocol.Message {
	t.Helper()
	var rest []protocol.Message
	deadline := time.After(within)
	for {
		select {
		case msg, ok := <-p.messages:
			if !ok {
				return rest
			}
			rest = append(rest, msg)
		case <-deadline:
			t.Fatalf("timed out waiting for the connection to close")
			return nil
		}
	}
}

func eventually(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", within)
}

// brokenTransport fails every write.
type brokenTransport struct {
	closed atomic.Bool
}

func (b *brokenTransport) ID() string { return "broken" }
func (b *brokenTransport) ReadMessage() ([]byte, error) { return nil, io.EOF }
func (b *brokenTransport) WriteMessage([]byte) error { return io.ErrClosedPipe }
func (b *brokenTransport) WriteMessageWithin([]byte, time.Duration) error { return io.ErrClosedPipe }
func (b *brokenTransport) SetReadDeadline(time.Time) error { return nil }
func (b *brokenTransport) RemoteAddr() string { return "broken" }
func (b *brokenTransport) Close() error { b.closed.Store(true); return nil }

// fakeTransport is an in-memory transport whose reads block until Close.
// Every write sleeps for stall, ignoring deadlines, and once okWrites writes
// have succeeded every further write fails.
type fakeTransport struct {
	stall     time.Duration
	okWrites  int32
	attempts  atomic.Int32
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeTransport(stall time.Duration, okWrites int32) *fakeTransport {
	return &fakeTransport{stall: stall, okWrites: okWrites, closed: make(chan struct{})}
}

func (f *fakeTransport) ID() string { return "fake" }
func (f *fakeTransport) RemoteAddr() string { return "fake" }
func (f *fakeTransport) SetReadDeadline(time.Time) error { return nil }

func (f *fakeTransport) ReadMessage() ([]byte, error) {
	<-f.closed
	return nil, io.ErrClosedPipe
}

func (f *fakeTransport) WriteMessage(payload []byte) error {
	return f.WriteMessageWithin(payload, 0)
}

func (f *fakeTransport) WriteMessageWithin([]byte, time.Duration) error {
	time.Sleep(f.stall)
	if f.attempts.Add(1) > f.okWrites {
		return io.ErrClosedPipe
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}
