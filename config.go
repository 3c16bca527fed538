package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             int           `env:"PORT" envDefault:"4441"`
	HTTPPort         int           `env:"HTTP_PORT" envDefault:"8080"`
	Workers          int           `env:"WORKERS" envDefault:"5"`
	CountdownSeconds int           `env:"COUNTDOWN_SECONDS" envDefault:"10"`
	CountdownTick    time.Duration `env:"COUNTDOWN_TICK" envDefault:"250ms"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"30s"`
	JoinTimeout      time.Duration `env:"JOIN_TIMEOUT" envDefault:"1s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
	OutboundBuffer   int           `env:"OUTBOUND_BUFFER" envDefault:"64"`
	TextsFile        string        `env:"TEXTS_FILE"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty        bool          `env:"LOG_PRETTY" envDefault:"false"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimit        int           `env:"RATE_LIMIT" envDefault:"60"`
}

var ErrInvalidConfig = errors.New("invalid config")

func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()
	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: WORKERS must be positive", ErrInvalidConfig)
	case c.CountdownSeconds < 0:
		return fmt.Errorf("%w: COUNTDOWN_SECONDS must not be negative", ErrInvalidConfig)
	case c.CountdownTick <= 0:
		return fmt.Errorf("%w: COUNTDOWN_TICK must be positive", ErrInvalidConfig)
	case c.JoinTimeout <= 0:
		return fmt.Errorf("%w: JOIN_TIMEOUT must be positive", ErrInvalidConfig)
	case c.OutboundBuffer < 1:
		return fmt.Errorf("%w: OUTBOUND_BUFFER must be positive", ErrInvalidConfig)
	case c.RateLimit < 1:
		return fmt.Errorf("%w: RATE_LIMIT must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) GameSettings() GameSettings {
	return GameSettings{
		CountdownSeconds: c.CountdownSeconds,
		CountdownTick:    c.CountdownTick,
		HandshakeTimeout: c.HandshakeTimeout,
		JoinTimeout:      c.JoinTimeout,
		OutboundBuffer:   c.OutboundBuffer,
	}
}
