package main

import (
	"math/rand"
)

// Game ids are short enough to be read out loud to other players.
const maxGameID = 100000

func GenerateGameID(r *rand.Rand) int {
	return r.Intn(maxGameID-1) + 1
}
