package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"typeracer-server/client"
	"typeracer-server/protocol"
)

var botFlags = []cli.Flag{
	&cli.StringFlag{Name: "addr", Value: "localhost:4441", Usage: "game server address", Sources: cli.EnvVars("BOT_ADDR")},
	&cli.StringFlag{Name: "name", Value: "bot", Usage: "player name"},
	&cli.IntFlag{Name: "game", Usage: "id of the game to join, a new game is created when unset"},
	&cli.DurationFlag{Name: "delay", Value: 400 * time.Millisecond, Usage: "pause between two words"},
	&cli.BoolFlag{Name: "start", Value: true, Usage: "request the countdown after joining"},
}

func runBot(ctx context.Context, cmd *cli.Command) error {
	conn, err := client.Dial(ctx, cmd.String("addr"))
	if err != nil {
		return err
	}
	defer conn.Close()

	var joined protocol.JoinGameResponse
	if gameID := cmd.Int("game"); gameID != 0 {
		joined, err = conn.JoinGame(int(gameID), cmd.String("name"))
	} else {
		joined, err = conn.NewGame(cmd.String("name"))
	}
	if err != nil {
		return err
	}
	logger := log.With().Int("game-id", joined.GameID).Str("player", joined.PlayerName).Logger()
	logger.Info().Str("text", joined.CurrentGameState.TextToType.FullText).Msg("Joined game")

	race := client.NewRace(joined)
	if cmd.Bool("start") {
		if err := conn.StartCountdown(); err != nil {
			return err
		}
	}

	typing := false
	for {
		msg, err := conn.Receive()
		if err != nil {
			return err
		}
		finished := race.Apply(msg, time.Now())
		logger.Debug().Str("message", msg.Type()).Msg("Received")
		if finished {
			state := race.State()
			for name, player := range state.PlayerStateMap {
				logger.Info().Str("name", name).Int("wpm", player.Wpm).Int("progress", player.WordProgress).Msg("Result")
			}
			return nil
		}
		if race.Started() && !typing {
			typing = true
			go typeText(ctx, conn, race, cmd.Duration("delay"))
		}
	}
}

// typeText types every word of the race, pausing delay before each one.
func typeText(ctx context.Context, conn *client.Conn, race *client.Race, delay time.Duration) {
	for {
		word, ok := race.CurrentWord()
		if !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if _, wpm := race.Type(word, time.Now()); conn.FinishWord(wpm) != nil {
			return
		}
	}
}
