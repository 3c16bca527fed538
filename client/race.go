package client

import (
	"math"
	"sync"
	"time"

	"typeracer-server/protocol"
)

// firstWordWpm is reported for the first word, before any timing is possible.
const firstWordWpm = 12

// Race is the local view of one game: the latest server snapshot plus the
// player's own typing progress. It is safe for concurrent use.
type Race struct {
	lock           sync.Mutex
	gameID         int
	name           string
	state          protocol.GameState
	countdown      int
	userInput      string
	isTypedCorrect bool
	typed          int
	mistakes       int
	wpm            int
	startedAt      time.Time
	finished       bool
}

func NewRace(joined protocol.JoinGameResponse) *Race {
	return &Race{
		gameID:         joined.GameID,
		name:           joined.PlayerName,
		state:          joined.CurrentGameState,
		countdown:      -1,
		isTypedCorrect: true,
	}
}

func (r *Race) GameID() int {
	return r.gameID
}

func (r *Race) Name() string {
	return r.name
}

// Apply updates the race from a server message. It reports whether the game
// is finished.
func (r *Race) Apply(msg protocol.Message, now time.Time) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	switch m := msg.(type) {
	case protocol.UpdateCountdownNotification:
		r.countdown = m.Countdown
		if m.Countdown == 0 && r.startedAt.IsZero() {
			r.startedAt = now
			r.isTypedCorrect = true
		}
	case protocol.PlayerJoinedNotification:
		r.state = m.CurrentGameState
	case protocol.PlayerLeftNotification:
		r.state = m.CurrentGameState
	case protocol.PlayerFinishedWord:
		r.state = m.GameStateAfterFinishedWord
	case protocol.GameFinishedNotification:
		r.state = m.FinishedGameState
		r.finished = true
	}
	return r.finished
}

func (r *Race) State() protocol.GameState {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

func (r *Race) Countdown() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.countdown
}

// Started reports whether the countdown reached zero.
func (r *Race) Started() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return !r.startedAt.IsZero()
}

func (r *Race) UserInput() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.userInput
}

func (r *Race) IsTypedCorrect() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.isTypedCorrect
}

// CurrentWord is the next word the player has to type.
func (r *Race) CurrentWord() (string, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state.TextToType.Word(r.typed)
}

// Type checks input against the current word. On a match it advances to the
// next word and returns the wpm to report to the server.
func (r *Race) Type(input string, now time.Time) (completed bool, wpm int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.userInput = input
	word, ok := r.state.TextToType.Word(r.typed)
	if !ok || input != word {
		r.isTypedCorrect = false
		r.mistakes++
		return false, 0
	}
	r.isTypedCorrect = true
	r.wpm = r.calculateWpm(now)
	r.typed++
	return true, r.wpm
}

func (r *Race) calculateWpm(now time.Time) int {
	if r.typed == 0 {
		return firstWordWpm
	}
	seconds := int(now.Sub(r.startedAt) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	progress := r.state.PlayerStateMap[r.name].WordProgress
	return progress * 60 / seconds
}

// Accuracy is the share of words typed without a mistake, in percent with
// two decimals.
func (r *Race) Accuracy() float64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	total := r.state.TextToType.Len()
	if total == 0 {
		return 0
	}
	accuracy := 100 * float64(total-r.mistakes) / float64(total)
	return math.Round(accuracy*100) / 100
}
