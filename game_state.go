package main

import (
	"time"

	"typeracer-server/protocol"
)

type PlayerProgress struct {
	WordsCompleted int
	LastWpm        int
}

func NewPlayerProgress() *PlayerProgress {
	return &PlayerProgress{WordsCompleted: -1}
}

func (p *PlayerProgress) CompleteWord(wpm int) {
	p.WordsCompleted++
	p.LastWpm = wpm
}

// GameState is the data of one race. It is not safe for concurrent use; a
// Game only touches it from its executor goroutine.
type GameState struct {
	text               protocol.TextToType
	countdownSeconds   int
	countdownStartedAt time.Time
	players            map[string]*PlayerProgress
}

func NewGameState(text string, countdownSeconds int) *GameState {
	return &GameState{
		text:             protocol.NewTextToType(text),
		countdownSeconds: countdownSeconds,
		players:          make(map[string]*PlayerProgress),
	}
}

func (s *GameState) HasPlayer(name string) bool {
	_, exists := s.players[name]
	return exists
}

func (s *GameState) AddPlayer(name string) bool {
	if s.HasPlayer(name) {
		return false
	}
	s.players[name] = NewPlayerProgress()
	return true
}

func (s *GameState) RemovePlayer(name string) bool {
	if !s.HasPlayer(name) {
		return false
	}
	delete(s.players, name)
	return true
}

func (s *GameState) NumPlayers() int {
	return len(s.players)
}

// CompleteWord records one finished word for name. finished reports whether the
// player has now reached the last word of the text.
func (s *GameState) CompleteWord(name string, wpm int) (finished bool, ok bool) {
	progress, exists := s.players[name]
	if !exists {
		return false, false
	}
	progress.CompleteWord(wpm)
	return progress.WordsCompleted == s.text.Len()-1, true
}

// StartCountdown sets the countdown baseline. It returns false if the countdown
// was already started.
func (s *GameState) StartCountdown(now time.Time) bool {
	if s.CountdownStarted() {
		return false
	}
	s.countdownStartedAt = now
	return true
}

func (s *GameState) CountdownStarted() bool {
	return !s.countdownStartedAt.IsZero()
}

// CountdownRemaining is the configured countdown minus the whole seconds elapsed
// since StartCountdown.
func (s *GameState) CountdownRemaining(now time.Time) int {
	elapsed := int(now.Sub(s.countdownStartedAt) / time.Second)
	return s.countdownSeconds - elapsed
}

func (s *GameState) Snapshot() protocol.GameState {
	players := make(map[string]protocol.PlayerState, len(s.players))
	for name, progress := range s.players {
		players[name] = protocol.PlayerState{Wpm: progress.LastWpm, WordProgress: progress.WordsCompleted}
	}
	return protocol.GameState{
		PlayerStateMap:     players,
		TextToType:         s.text,
		CountdownInSeconds: s.countdownSeconds,
	}
}
