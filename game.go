package main

import (
	"context"
	"fmt"
	"time"

	"typeracer-server/protocol"
)

const inboxSize = 64

type task func()

// Game owns one race. Every read and write of its state, players and spectators
// happens on the goroutine started by newGame, in the order tasks were
// submitted.
type Game struct {
	id            int
	registry      *Registry
	state         *GameState
	players       map[string]*Player
	spectators    map[chan []byte]struct{}
	finished      bool
	countdownTick time.Duration
	joinTimeout   time.Duration
	buffer        int

	inbox  chan task
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newGame(parent context.Context, id int, registry *Registry, state *GameState, settings GameSettings) *Game {
	ctx, cancel := context.WithCancel(parent)
	g := &Game{
		id:            id,
		registry:      registry,
		state:         state,
		players:       make(map[string]*Player),
		spectators:    make(map[chan []byte]struct{}),
		countdownTick: settings.CountdownTick,
		joinTimeout:   settings.JoinTimeout,
		buffer:        settings.OutboundBuffer,
		inbox:         make(chan task, inboxSize),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	go g.loop()
	return g
}

func (g *Game) loop() {
	defer close(g.done)
	for {
		select {
		case <-g.ctx.Done():
			g.shutdown()
			return
		case t := <-g.inbox:
			if g.ctx.Err() != nil {
				g.shutdown()
				return
			}
			t()
		}
	}
}

func (g *Game) shutdown() {
	for name, player := range g.players {
		player.Close()
		delete(g.players, name)
	}
	for ch := range g.spectators {
		close(ch)
		delete(g.spectators, ch)
	}
}

// submit queues t. It returns false if the game is already closed.
func (g *Game) submit(t task) bool {
	select {
	case <-g.ctx.Done():
		return false
	case g.inbox <- t:
		return true
	}
}

// call runs t on the game goroutine and waits for it. It returns ErrUnknownGame
// if the game closes before t runs.
func (g *Game) call(ctx context.Context, t task) error {
	ran := make(chan struct{})
	if !g.submit(func() { defer close(ran); t() }) {
		return ErrUnknownGame
	}
	select {
	case <-ran:
		return nil
	case <-g.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrUnknownGame
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// destroy unregisters the game. Tasks still queued are dropped.
func (g *Game) destroy() {
	g.registry.removeGame(g)
	g.cancel()
}

func (g *Game) broadcast(payload []byte) {
	for _, player := range g.players {
		player.Send(payload)
	}
	g.notifySpectators(payload)
}

func (g *Game) broadcastMessage(m protocol.Message) {
	payload, err := protocol.Encode(m)
	if err != nil {
		LogEncodeError(err)
		return
	}
	g.broadcast(payload)
}

func (g *Game) notifySpectators(payload []byte) {
	for ch := range g.spectators {
		select {
		case ch <- payload:
		default:
			close(ch)
			delete(g.spectators, ch)
		}
	}
}

func (g *Game) join(name string, transport Transport) (*Player, error) {
	if g.finished {
		return nil, ErrUnknownGame
	}
	if !g.state.AddPlayer(name) {
		return nil, ErrDuplicateName
	}
	payload, err := protocol.Encode(protocol.JoinGameResponse{
		GameID:           g.id,
		PlayerName:       name,
		CurrentGameState: g.state.Snapshot(),
	})
	if err == nil {
		// the write holds the game goroutine, so it gets its own short deadline
		err = transport.WriteMessageWithin(payload, g.joinTimeout)
	}
	if err != nil {
		g.state.RemovePlayer(name)
		if g.state.NumPlayers() == 0 {
			g.destroy()
		}
		return nil, fmt.Errorf("send join response: %w", err)
	}
	player := NewPlayer(name, g.id, transport, g.registry, g.buffer)
	g.broadcastMessage(protocol.PlayerJoinedNotification{CurrentGameState: g.state.Snapshot()})
	g.players[name] = player
	player.Start()
	player.logger.Joined()
	return player, nil
}

func (g *Game) leave(name string) {
	if !g.state.RemovePlayer(name) {
		return
	}
	if player, ok := g.players[name]; ok {
		delete(g.players, name)
		player.Close()
		player.logger.Left()
	}
	g.broadcastMessage(protocol.PlayerLeftNotification{CurrentGameState: g.state.Snapshot()})
	if g.state.NumPlayers() == 0 {
		g.destroy()
	}
}

func (g *Game) recordWordCompletion(name string, wpm int) {
	if g.finished {
		return
	}
	finished, ok := g.state.CompleteWord(name, wpm)
	if !ok {
		return
	}
	if !finished {
		g.broadcastMessage(protocol.PlayerFinishedWord{GameStateAfterFinishedWord: g.state.Snapshot()})
		return
	}
	g.finished = true
	payload, err := protocol.Encode(protocol.GameFinishedNotification{FinishedGameState: g.state.Snapshot()})
	if err != nil {
		LogEncodeError(err)
		return
	}
	for _, player := range g.players {
		player.SendAndClose(payload)
	}
	g.notifySpectators(payload)
}

func (g *Game) beginCountdown() {
	if !g.state.StartCountdown(time.Now()) {
		return
	}
	LogCountdownStarted(g.id)
	go g.runCountdown()
}

// runCountdown submits one tick per interval instead of holding the game
// goroutine, so joins and completions keep flowing during the countdown.
func (g *Game) runCountdown() {
	ticker := time.NewTicker(g.countdownTick)
	defer ticker.Stop()
	for {
		over := make(chan bool, 1)
		if !g.submit(func() { over <- g.tickCountdown() }) {
			return
		}
		select {
		case <-g.ctx.Done():
			return
		case stop := <-over:
			if stop {
				return
			}
		}
		select {
		case <-g.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tickCountdown broadcasts the remaining countdown and reports whether the
// countdown is over. The last broadcast is always 0, even when a delayed tick
// finds the countdown already past it.
func (g *Game) tickCountdown() bool {
	remaining := max(g.state.CountdownRemaining(time.Now()), 0)
	g.broadcastMessage(protocol.UpdateCountdownNotification{Countdown: remaining})
	return remaining == 0
}

// watch registers a spectator channel and returns the state it starts from.
func (g *Game) watch(ch chan []byte) protocol.GameState {
	g.spectators[ch] = struct{}{}
	return g.state.Snapshot()
}

func (g *Game) unwatch(ch chan []byte) {
	if _, ok := g.spectators[ch]; ok {
		delete(g.spectators, ch)
		close(ch)
	}
}
