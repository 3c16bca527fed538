package main

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"
)

//go:embed stories.txt
var embeddedStories string

var ErrNoTexts = errors.New("no texts to choose from")

// TextSource picks the text of a new game.
type TextSource interface {
	Text() string
}

type RandomTextSource struct {
	texts []string
	rand  *rand.Rand
	lock  sync.Mutex
}

// NewRandomTextSource keeps every non-blank line of texts.
func NewRandomTextSource(texts []string) (*RandomTextSource, error) {
	kept := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text != "" {
			kept = append(kept, text)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoTexts
	}
	return &RandomTextSource{texts: kept, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}, nil
}

// LoadTextSource reads one text per line from path, or uses the built-in
// stories when path is empty.
func LoadTextSource(path string) (*RandomTextSource, error) {
	content := embeddedStories
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read texts file: %w", err)
		}
		content = string(data)
	}
	return NewRandomTextSource(strings.Split(content, "\n"))
}

func (s *RandomTextSource) Text() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.texts[s.rand.Intn(len(s.texts))]
}
