package main

import (
	"testing"
	"time"
)

func TestGameStatePlayers(t *testing.T) {
	state := NewGameState("one two three", 10)

	if !state.AddPlayer("alice") {
		t.Fatalf("failed to add alice")
	}
	if state.AddPlayer("alice") {
		t.Errorf("added alice twice")
	}
	if !state.AddPlayer("bob") || state.NumPlayers() != 2 {
		t.Errorf("expected 2 players, got %d", state.NumPlayers())
	}

	snapshot := state.Snapshot()
	if got := snapshot.PlayerStateMap["alice"].WordProgress; got != -1 {
		t.Errorf("new player should start at -1, got %d", got)
	}
	if snapshot.CountdownInSeconds != 10 {
		t.Errorf("countdown is %d, want 10", snapshot.CountdownInSeconds)
	}
	if len(snapshot.TextToType.Words) != 3 {
		t.Errorf("unexpected words %v", snapshot.TextToType.Words)
	}

	if !state.RemovePlayer("alice") || state.RemovePlayer("alice") {
		t.Errorf("alice should be removed exactly once")
	}
	if state.HasPlayer("alice") || !state.HasPlayer("bob") {
		t.Errorf("unexpected players after remove")
	}
}

func TestGameStateCompleteWord(t *testing.T) {
	state := NewGameState("one two three", 10)
	state.AddPlayer("alice")

	for i, wpm := range []int{12, 40} {
		finished, ok := state.CompleteWord("alice", wpm)
		if !ok || finished {
			t.Fatalf("word %d: finished=%v ok=%v", i, finished, ok)
		}
		progress := state.Snapshot().PlayerStateMap["alice"]
		if progress.WordProgress != i || progress.Wpm != wpm {
			t.Errorf("word %d: unexpected progress %+v", i, progress)
		}
	}
	finished, ok := state.CompleteWord("alice", 55)
	if !ok || !finished {
		t.Errorf("last word should finish the race, finished=%v ok=%v", finished, ok)
	}

	if _, ok := state.CompleteWord("nobody", 10); ok {
		t.Errorf("unknown player should be ignored")
	}
}

func TestGameStateCountdown(t *testing.T) {
	state := NewGameState("one", 3)
	start := time.Unix(1000, 0)

	if state.CountdownStarted() {
		t.Fatalf("countdown started before StartCountdown")
	}
	if !state.StartCountdown(start) {
		t.Fatalf("first StartCountdown should succeed")
	}
	if state.StartCountdown(start.Add(time.Second)) {
		t.Errorf("second StartCountdown should be ignored")
	}

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 3},
		{999 * time.Millisecond, 3},
		{time.Second, 2},
		{2500 * time.Millisecond, 1},
		{3 * time.Second, 0},
		{4 * time.Second, -1},
	}
	for _, tc := range tests {
		if got := state.CountdownRemaining(start.Add(tc.elapsed)); got != tc.want {
			t.Errorf("after %v: got %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}
