package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
)

// Options tune the presentation layer.
type Options struct {
    // Heartbeat is the idle interval for SSE and websocket pings.
    Heartbeat  time.Duration
    Mode       app.Mode
    Difficulty search.Difficulty
}

func DefaultOptions() Options {
    return Options{Heartbeat: 15 * time.Second, Mode: app.VersusMachine, Difficulty: search.Medium}
}

// NewServer wires routes with default options and returns an http.Handler.
func NewServer(s *app.Service) http.Handler { return NewServerWithOptions(s, DefaultOptions()) }

// NewServerWithOptions wires routes and returns an http.Handler.
func NewServerWithOptions(s *app.Service, opts Options) http.Handler {
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = DefaultOptions().Heartbeat
    }
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger)
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), opts: opts}
    r.Get("/", h.index)
    r.Get("/api/score", h.score)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/tap", h.tap)
        r.Post("/reset", h.reset)
        r.Post("/difficulty", h.difficulty)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}
