package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"typeracer-server/protocol"
)

const closedEvent = `{"type":"close"}`

// SpectatorStream writes the events of one game to an HTTP client as
// server-sent events. Each event is a single line of JSON.
type SpectatorStream struct {
	w          http.ResponseWriter
	controller *http.ResponseController
}

func NewSpectatorStream(w http.ResponseWriter) *SpectatorStream {
	return &SpectatorStream{w: w, controller: http.NewResponseController(w)}
}

func (s *SpectatorStream) event(data []byte) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return s.controller.Flush()
}

type stateEvent struct {
	Type   string `json:"type"`
	GameID int    `json:"gameId"`
	protocol.GameState
}

// State sends the snapshot a spectator starts from.
func (s *SpectatorStream) State(gameID int, state protocol.GameState) error {
	data, err := json.Marshal(stateEvent{Type: "state", GameID: gameID, GameState: state})
	if err != nil {
		return err
	}
	return s.event(data)
}

// Broadcast forwards an encoded protocol message as is.
func (s *SpectatorStream) Broadcast(payload []byte) error {
	return s.event(payload)
}

func (s *SpectatorStream) Closed() error {
	return s.event([]byte(closedEvent))
}
