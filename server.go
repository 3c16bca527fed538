package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"typeracer-server/protocol"
)

var (
	ErrUnknownGame       = errors.New("game does not exist")
	ErrDuplicateName     = errors.New("player name already exists")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrClosed            = errors.New("registry closed")
)

const defaultPlayerName = "unnamed"

type GameSettings struct {
	CountdownSeconds int
	CountdownTick    time.Duration
	HandshakeTimeout time.Duration
	JoinTimeout      time.Duration
	OutboundBuffer   int
}

// Registry owns every live game. The id to game map is safe for concurrent use;
// everything inside a game goes through that game's goroutine.
type Registry struct {
	games    map[int]*Game
	lock     sync.RWMutex
	rand     *rand.Rand
	texts    TextSource
	settings GameSettings
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewRegistry(texts TextSource, settings GameSettings) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		games:    make(map[int]*Game),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		texts:    texts,
		settings: settings,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Registry) GetGame(id int) (*Game, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	game, exists := r.games[id]
	return game, exists
}

func (r *Registry) NumGames() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.games)
}

// CreateGame registers a new game with a fresh text and returns its id. It
// fails with ErrClosed once the registry is closed.
func (r *Registry) CreateGame() (int, error) {
	state := NewGameState(r.texts.Text(), r.settings.CountdownSeconds)
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.ctx.Err() != nil {
		return 0, ErrClosed
	}
	var id int
	for {
		id = GenerateGameID(r.rand)
		if _, exists := r.games[id]; !exists {
			break
		}
	}
	r.games[id] = newGame(r.ctx, id, r, state, r.settings)
	LogCreatedGame(id)
	return id, nil
}

func (r *Registry) removeGame(game *Game) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.games[game.id] == game {
		delete(r.games, game.id)
		LogRemovedGame(game.id)
	}
}

// Join adds playerName to the game and starts its link on transport. The join
// response is written before Join returns; a failed write rolls the join back.
func (r *Registry) Join(ctx context.Context, gameID int, playerName string, transport Transport) (*Player, error) {
	game, exists := r.GetGame(gameID)
	if !exists {
		return nil, ErrUnknownGame
	}
	if strings.TrimSpace(playerName) == "" {
		playerName = defaultPlayerName
	}
	var player *Player
	var joinErr error
	if err := game.call(ctx, func() { player, joinErr = game.join(playerName, transport) }); err != nil {
		return nil, err
	}
	return player, joinErr
}

// Leave removes the player and notifies the rest of the game. Unknown games and
// names are ignored.
func (r *Registry) Leave(gameID int, playerName string) {
	if game, exists := r.GetGame(gameID); exists {
		game.submit(func() { game.leave(playerName) })
	}
}

func (r *Registry) RecordWordCompletion(gameID int, playerName string, wpm int) {
	if game, exists := r.GetGame(gameID); exists {
		game.submit(func() { game.recordWordCompletion(playerName, wpm) })
	}
}

// BeginCountdown starts the countdown of the game. Only the first call has an
// effect.
func (r *Registry) BeginCountdown(gameID int) {
	if game, exists := r.GetGame(gameID); exists {
		game.submit(game.beginCountdown)
	}
}

func (r *Registry) Snapshot(ctx context.Context, gameID int) (protocol.GameState, error) {
	game, exists := r.GetGame(gameID)
	if !exists {
		return protocol.GameState{}, ErrUnknownGame
	}
	var state protocol.GameState
	err := game.call(ctx, func() { state = game.state.Snapshot() })
	return state, err
}

// Watch subscribes to every payload broadcast in the game. The channel is
// closed when the game ends, when the subscriber falls behind, or after the
// returned stop function is called.
func (r *Registry) Watch(ctx context.Context, gameID int, buffer int) (protocol.GameState, <-chan []byte, func(), error) {
	game, exists := r.GetGame(gameID)
	if !exists {
		return protocol.GameState{}, nil, nil, ErrUnknownGame
	}
	ch := make(chan []byte, buffer)
	var state protocol.GameState
	if err := game.call(ctx, func() { state = game.watch(ch) }); err != nil {
		return protocol.GameState{}, nil, nil, err
	}
	stop := func() {
		game.submit(func() { game.unwatch(ch) })
	}
	return state, ch, stop, nil
}

// HandleConnection runs the handshake for a fresh connection: the first
// message must create or join a game. Rejections are written to the transport
// before it is closed.
func (r *Registry) HandleConnection(ctx context.Context, transport Transport) error {
	if r.settings.HandshakeTimeout > 0 {
		transport.SetReadDeadline(time.Now().Add(r.settings.HandshakeTimeout))
	}
	data, err := transport.ReadMessage()
	if err != nil {
		transport.Close()
		return fmt.Errorf("read first message: %w", err)
	}
	transport.SetReadDeadline(time.Time{})
	msg, err := protocol.Decode(data)
	if err != nil {
		transport.Close()
		return fmt.Errorf("%w: %v", ErrProtocolViolation, err)
	}

	var gameID int
	var playerName string
	switch m := msg.(type) {
	case protocol.NewGameRequest:
		if gameID, err = r.CreateGame(); err != nil {
			transport.Close()
			return err
		}
		playerName = m.PlayerName
	case protocol.JoinGameRequest:
		gameID = m.GameID
		playerName = m.PlayerName
	default:
		transport.Close()
		return fmt.Errorf("%w: first message is %s", ErrProtocolViolation, msg.Type())
	}

	_, err = r.Join(ctx, gameID, playerName, transport)
	switch {
	case errors.Is(err, ErrUnknownGame):
		LogJoinRejected(gameID, playerName, err)
		r.reject(transport, protocol.GameDoesNotExistsResponse{})
	case errors.Is(err, ErrDuplicateName):
		LogJoinRejected(gameID, playerName, err)
		r.reject(transport, protocol.PlayerNameAlreadyExistsResponse{})
	case err != nil:
		transport.Close()
	}
	return err
}

func (r *Registry) reject(transport Transport, m protocol.Message) {
	defer transport.Close()
	payload, err := protocol.Encode(m)
	if err != nil {
		LogEncodeError(err)
		return
	}
	transport.WriteMessage(payload)
}

// Close stops every game and closes every player connection.
func (r *Registry) Close() {
	r.cancel()
	r.lock.Lock()
	games := make([]*Game, 0, len(r.games))
	for id, game := range r.games {
		games = append(games, game)
		delete(r.games, id)
	}
	r.lock.Unlock()
	for _, game := range games {
		<-game.done
	}
}
