package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func SetupLogger(level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

type PlayerLogger struct {
	zerolog zerolog.Logger
}

func GetPlayerLogger(connID string, ip string, gameID int, playerName string) PlayerLogger {
	return PlayerLogger{log.With().Str("conn-id", connID).Str("ip", ip).Int("game-id", gameID).Str("player", playerName).Logger()}
}

func (l PlayerLogger) Joined() {
	l.zerolog.Info().Msg("Joined game")
}

func (l PlayerLogger) Left() {
	l.zerolog.Info().Msg("Left game")
}

func (l PlayerLogger) Disconnected(err error) {
	l.zerolog.Info().Err(err).Msg("Disconnected")
}

func (l PlayerLogger) ProtocolViolation(err error) {
	l.zerolog.Warn().Err(err).Msg("Protocol violation")
}

func (l PlayerLogger) SlowConsumer() {
	l.zerolog.Warn().Msg("Outbound queue full, dropping player")
}

func (l PlayerLogger) FinishedGame() {
	l.zerolog.Info().Msg("Finished game")
}

func LogCreatedGame(gameID int) {
	log.Info().Int("game-id", gameID).Msg("Created")
}

func LogRemovedGame(gameID int) {
	log.Info().Int("game-id", gameID).Msg("Removing game")
}

func LogCountdownStarted(gameID int) {
	log.Info().Int("game-id", gameID).Msg("Countdown started")
}

func LogJoinRejected(gameID int, playerName string, err error) {
	log.Info().Int("game-id", gameID).Str("player", playerName).Err(err).Msg("Join rejected")
}

func LogEncodeError(err error) {
	log.Error().Err(err).Msg("Error while encoding message")
}

func LogHandshakeFailed(connID string, ip string, err error) {
	log.Debug().Str("conn-id", connID).Str("ip", ip).Err(err).Msg("Handshake failed")
}

func LogAcceptError(err error) {
	log.Error().Err(err).Msg("Error while accepting connection")
}

func LogStartedServer(addr string) {
	log.Info().Msgf("Starting game server on %v", addr)
}

func LogStartedHTTPServer(addr string) {
	log.Info().Msgf("Starting HTTP server on %v", addr)
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}
