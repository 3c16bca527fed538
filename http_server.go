package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
)

const spectatorBuffer = 32

type HTTPHandler struct {
	Registry     *Registry
	WriteTimeout time.Duration
}

func NewHTTPServer(registry *Registry, config *Config) http.Handler {
	httpHandler := HTTPHandler{Registry: registry, WriteTimeout: config.WriteTimeout}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(httprate.Limit(config.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
	r.Use(middleware.Heartbeat("/"))

	r.Get("/ws", httpHandler.websocket())
	r.Get("/game/{gameId}", httpHandler.getGameState())
	r.Get("/game/{gameId}/events", httpHandler.getGameEventStream())
	return r
}

// websocket runs the game handshake on an upgraded connection. The connection
// outlives the request once the player has joined.
func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		transport := NewWebsocketTransport(conn, r.RemoteAddr, h.WriteTimeout)
		if err := h.Registry.HandleConnection(r.Context(), transport); err != nil {
			LogHandshakeFailed(transport.ID(), r.RemoteAddr, err)
		}
	}
}

func gameIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameId"))
	return id, err == nil
}

func (h HTTPHandler) getGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		state, err := h.Registry.Snapshot(r.Context(), id)
		if errors.Is(err, ErrUnknownGame) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(state)
	}
}

func (h HTTPHandler) getGameEventStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		state, events, stop, err := h.Registry.Watch(r.Context(), id, spectatorBuffer)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		defer stop()
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		stream := NewSpectatorStream(w)
		if err := stream.State(id, state); err != nil {
			return
		}
		for {
			select {
			case payload, more := <-events:
				if !more {
					stream.Closed()
					return
				}
				if err := stream.Broadcast(payload); err != nil {
					return
				}
			case <-r.Context().Done():
				return
			}
		}
	}
}
