package main

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Port != 4441 {
		t.Errorf("wrong port expected: 4441 got %d", config.Port)
	}
	if config.Workers != 5 {
		t.Errorf("wrong workers expected: 5 got %d", config.Workers)
	}
	if config.CountdownSeconds != 10 || config.CountdownTick != 250*time.Millisecond {
		t.Errorf("wrong countdown %d / %v", config.CountdownSeconds, config.CountdownTick)
	}
	if config.JoinTimeout != time.Second || config.JoinTimeout >= config.WriteTimeout {
		t.Errorf("join timeout %v should default to 1s, below the write timeout %v", config.JoinTimeout, config.WriteTimeout)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "5000")
	t.Setenv("COUNTDOWN_TICK", "1s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Port != 5000 {
		t.Errorf("wrong port expected: 5000 got %d", config.Port)
	}
	if config.CountdownTick != time.Second {
		t.Errorf("wrong tick expected: 1s got %v", config.CountdownTick)
	}
	if len(config.AllowedOrigins) != 2 {
		t.Errorf("wrong origins %v", config.AllowedOrigins)
	}
}

func TestLoadConfigRejectsZeroWorkers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WORKERS", "0")
	_, err := LoadConfig()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig, got %v", err)
	}
}
