package protocol

import "strings"

// PlayerState is one player's progress as seen on the wire.
type PlayerState struct {
	Wpm          int `json:"wpm"`
	WordProgress int `json:"wordProgress"`
}

type TextToType struct {
	FullText string   `json:"fullText"`
	Words    []string `json:"words"`
}

func NewTextToType(text string) TextToType {
	return TextToType{FullText: text, Words: strings.Fields(text)}
}

func (t TextToType) Len() int {
	return len(t.Words)
}

// Word returns the word at index, or false when index is out of range.
func (t TextToType) Word(index int) (string, bool) {
	if index < 0 || index >= len(t.Words) {
		return "", false
	}
	return t.Words[index], true
}

// GameState is the snapshot of a game carried by join responses and notifications.
type GameState struct {
	PlayerStateMap     map[string]PlayerState `json:"playerStateMap"`
	TextToType         TextToType             `json:"textToType"`
	CountdownInSeconds int                    `json:"countdownInSeconds"`
}
