package main

import (
    "context"
    "errors"
    "flag"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/config"
    "github.com/jaminalder/codex-three-mens-morris/internal/score"
    "github.com/jaminalder/codex-three-mens-morris/internal/web"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

func main() {
    configPath := flag.String("config", "morris.json", "path to a JSON config file")
    addr := flag.String("addr", "", "listen address, overrides the config file")
    flag.Parse()

    cfg, err := config.Load(*configPath)
    if err != nil {
        log.Fatal().Err(err).Str("path", *configPath).Msg("invalid config")
    }
    if *addr != "" {
        cfg.Addr = *addr
    }

    zerolog.SetGlobalLevel(cfg.Level())
    if cfg.PrettyLog {
        log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
    }

    store := score.NewStore(cfg.ScoreFile)
    svc := app.NewServiceWithStore(store)
    handler := web.NewServerWithOptions(svc, web.Options{
        Heartbeat:  cfg.Heartbeat(),
        Mode:       cfg.Mode(),
        Difficulty: cfg.Difficulty(),
    })

    server := &http.Server{
        Addr:              cfg.Addr,
        Handler:           handler,
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    go func() {
        log.Info().Str("addr", cfg.Addr).Str("score_file", store.Path()).Stringer("tally", svc.Tally()).Msg("listening")
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("server failed")
        }
    }()

    <-ctx.Done()
    log.Info().Msg("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Error().Err(err).Msg("shutdown failed")
    }
}
