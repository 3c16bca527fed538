// Package client speaks the typing-race protocol from the player side: it dials
// the server, performs the create/join handshake and exchanges messages one at
// a time. Race keeps the local typing state a user interface needs.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"typeracer-server/protocol"
)

var (
	ErrUnknownGame       = errors.New("game does not exist")
	ErrDuplicateName     = errors.New("player name already exists")
	ErrUnexpectedMessage = errors.New("unexpected message")
)

const maxLineLength = 1 << 20

// Conn is a player connection. Receive must be called from one goroutine;
// the send methods are safe to call concurrently with it and with each other.
type Conn struct {
	conn      net.Conn
	scanner   *bufio.Scanner
	writeLock sync.Mutex
}

func Dial(ctx context.Context, addr string) (*Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

func NewConn(conn net.Conn) *Conn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	return &Conn{conn: conn, scanner: scanner}
}

func (c *Conn) Send(m protocol.Message) error {
	payload, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	_, err = c.conn.Write(append(payload, '\n'))
	return err
}

// Receive blocks until the next message arrives.
func (c *Conn) Receive() (protocol.Message, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return protocol.Decode(c.scanner.Bytes())
}

func (c *Conn) NewGame(playerName string) (protocol.JoinGameResponse, error) {
	if err := c.Send(protocol.NewGameRequest{PlayerName: playerName}); err != nil {
		return protocol.JoinGameResponse{}, err
	}
	return c.awaitJoin()
}

func (c *Conn) JoinGame(gameID int, playerName string) (protocol.JoinGameResponse, error) {
	if err := c.Send(protocol.JoinGameRequest{GameID: gameID, PlayerName: playerName}); err != nil {
		return protocol.JoinGameResponse{}, err
	}
	return c.awaitJoin()
}

func (c *Conn) awaitJoin() (protocol.JoinGameResponse, error) {
	msg, err := c.Receive()
	if err != nil {
		return protocol.JoinGameResponse{}, err
	}
	switch m := msg.(type) {
	case protocol.JoinGameResponse:
		return m, nil
	case protocol.GameDoesNotExistsResponse:
		return protocol.JoinGameResponse{}, ErrUnknownGame
	case protocol.PlayerNameAlreadyExistsResponse:
		return protocol.JoinGameResponse{}, ErrDuplicateName
	}
	return protocol.JoinGameResponse{}, fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type())
}

func (c *Conn) StartCountdown() error {
	return c.Send(protocol.StartGameRequest{})
}

func (c *Conn) FinishWord(wpm int) error {
	return c.Send(protocol.FinishedWordRequest{NewWpmEntry: wpm})
}

func (c *Conn) Close() error {
	return c.conn.Close()
}
