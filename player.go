package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"typeracer-server/protocol"
)

// playerHandler receives the requests a joined player sends. Registry
// implements it.
type playerHandler interface {
	BeginCountdown(gameID int)
	RecordWordCompletion(gameID int, playerName string, wpm int)
	Leave(gameID int, playerName string)
}

type outbound struct {
	payload    []byte
	closeAfter bool
}

// Player is the link between a joined player and its game. The reader goroutine
// turns requests into handler calls; the writer goroutine drains the outbound
// queue, so a stalled connection never blocks the game executor.
type Player struct {
	name      string
	gameID    int
	transport Transport
	handler   playerHandler
	outbound  chan outbound
	connected atomic.Bool
	closeOnce sync.Once
	closed    chan struct{}
	logger    PlayerLogger
}

func NewPlayer(name string, gameID int, transport Transport, handler playerHandler, buffer int) *Player {
	p := &Player{
		name:      name,
		gameID:    gameID,
		transport: transport,
		handler:   handler,
		outbound:  make(chan outbound, buffer),
		closed:    make(chan struct{}),
		logger:    GetPlayerLogger(transport.ID(), transport.RemoteAddr(), gameID, name),
	}
	p.connected.Store(true)
	return p
}

func (p *Player) IsConnected() bool {
	return p.connected.Load()
}

// Start launches the reader and writer goroutines.
func (p *Player) Start() {
	go p.writeLoop()
	go p.readLoop()
}

// Send queues payload. It is a no-op once the player is disconnected. A full
// queue disconnects the player.
func (p *Player) Send(payload []byte) {
	p.enqueue(outbound{payload: payload})
}

// SendAndClose queues a last payload and closes the transport once it is
// written. Later sends are dropped.
func (p *Player) SendAndClose(payload []byte) {
	if p.enqueue(outbound{payload: payload, closeAfter: true}) {
		p.connected.Store(false)
	}
}

func (p *Player) enqueue(out outbound) bool {
	if !p.connected.Load() {
		return false
	}
	select {
	case p.outbound <- out:
		return true
	default:
		p.logger.SlowConsumer()
		p.Close()
		return false
	}
}

// Close disconnects the player. The reader goroutine notices the closed
// transport and reports the leave.
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		p.connected.Store(false)
		close(p.closed)
		p.transport.Close()
	})
}

func (p *Player) writeLoop() {
	for {
		select {
		case <-p.closed:
			return
		case out := <-p.outbound:
			if err := p.transport.WriteMessage(out.payload); err != nil {
				p.logger.Disconnected(err)
				p.Close()
				return
			}
			if out.closeAfter {
				p.logger.FinishedGame()
				p.Close()
				return
			}
		}
	}
}

func (p *Player) readLoop() {
	defer p.handler.Leave(p.gameID, p.name)
	defer p.Close()
	for {
		data, err := p.transport.ReadMessage()
		if err != nil {
			if p.connected.Load() && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				p.logger.Disconnected(err)
			}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			p.logger.ProtocolViolation(err)
			return
		}
		switch m := msg.(type) {
		case protocol.StartGameRequest:
			p.handler.BeginCountdown(p.gameID)
		case protocol.FinishedWordRequest:
			p.handler.RecordWordCompletion(p.gameID, p.name, m.NewWpmEntry)
		default:
			p.logger.ProtocolViolation(fmt.Errorf("%w: %s while in game", ErrProtocolViolation, msg.Type()))
			return
		}
	}
}
