package main

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
)

// Listener accepts game connections and runs their handshakes on at most
// workers goroutines at a time.
type Listener struct {
	listener     net.Listener
	registry     *Registry
	workers      int
	writeTimeout time.Duration
}

func Listen(addr string, registry *Registry, workers int, writeTimeout time.Duration) (*Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{listener: listener, registry: registry, workers: workers, writeTimeout: writeTimeout}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then waits for running
// handshakes.
func (l *Listener) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { l.listener.Close() })
	defer stop()

	var group errgroup.Group
	group.SetLimit(l.workers)
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			LogAcceptError(err)
			continue
		}
		group.Go(func() error {
			transport := NewLineTransport(conn, l.writeTimeout)
			if err := l.registry.HandleConnection(ctx, transport); err != nil {
				// the peer went away or was rejected; other connections are unaffected
				LogHandshakeFailed(transport.ID(), transport.RemoteAddr(), err)
			}
			return nil
		})
	}
	return group.Wait()
}

func (l *Listener) Close() error {
	return l.listener.Close()
}
