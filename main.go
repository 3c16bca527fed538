package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cmd := &cli.Command{
		Name:   "typeracer",
		Usage:  "multiplayer typing race server",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the game server (configured through the environment)",
				Action: serve,
			},
			{
				Name:   "bot",
				Usage:  "join a game and type its text automatically",
				Flags:  botFlags,
				Action: runBot,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Exited")
	}
}

func serve(ctx context.Context, _ *cli.Command) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := SetupLogger(config.LogLevel, config.LogPretty); err != nil {
		return err
	}
	texts, err := LoadTextSource(config.TextsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := NewRegistry(texts, config.GameSettings())
	defer registry.Close()

	addr := fmt.Sprintf(":%d", config.Port)
	listener, err := Listen(addr, registry, config.Workers, config.WriteTimeout)
	if err != nil {
		return err
	}
	LogStartedServer(addr)

	httpAddr := fmt.Sprintf(":%d", config.HTTPPort)
	httpServer := &http.Server{Addr: httpAddr, Handler: NewHTTPServer(registry, config)}
	go func() {
		LogStartedHTTPServer(httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	err = listener.Serve(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}
	log.Info().Msg("Server stopped")
	return err
}
