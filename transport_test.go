package main

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestLineTransportWriteAppendsNewline(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		transport := NewLineTransport(server, time.Second)
		transport.WriteMessage([]byte(`{"messageType":"StartGameRequest"}`))
		server.Close()
	}()
	line, err := bufio.NewReader(client).ReadString('\n')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "{\"messageType\":\"StartGameRequest\"}\n" {
		t.Errorf("wrong line: %q", line)
	}
	client.Close()
}

func TestLineTransportReadsLines(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		io.WriteString(client, "first\r\nsecond\n")
		client.Close()
	}()
	transport := NewLineTransport(server, time.Second)
	for _, want := range []string{"first", "second"} {
		got, err := transport.ReadMessage()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != want {
			t.Errorf("wrong line expected: %q got %q", want, got)
		}
	}
	if _, err := transport.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Errorf("want io.EOF after close, got %v", err)
	}
}

func TestLineTransportRejectsHugeLine(t *testing.T) {
	client, server := net.Pipe()
	go func() {
		io.WriteString(client, strings.Repeat("x", maxLineLength+1)+"\n")
		client.Close()
	}()
	transport := NewLineTransport(server, time.Second)
	if _, err := transport.ReadMessage(); err == nil {
		t.Errorf("expected an error for an oversized line")
	}
	server.Close()
}

func TestLineTransportWriteTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	transport := NewLineTransport(server, 20*time.Millisecond)
	err := transport.WriteMessage([]byte("nobody reads this"))
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("want timeout error, got %v", err)
	}
	server.Close()
}

func TestTransportIDs(t *testing.T) {
	first, second := net.Pipe()
	defer first.Close()
	defer second.Close()

	ids := []string{
		NewLineTransport(first, time.Second).ID(),
		NewLineTransport(second, time.Second).ID(),
		NewWebsocketTransport(first, "pipe", time.Second).ID(),
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" || seen[id] {
			t.Errorf("connection ids should be unique and set, got %v", ids)
		}
		seen[id] = true
	}
}

func TestLineTransportWriteWithinOwnDeadline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	transport := NewLineTransport(server, 10*time.Second)

	start := time.Now()
	err := transport.WriteMessageWithin([]byte("nobody reads this"), 20*time.Millisecond)
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("want timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("write took %v", elapsed)
	}
}
