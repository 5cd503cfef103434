package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/jaminalder/codex-three-mens-morris/internal/score"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
    "github.com/rs/zerolog/log"
)

var difficulties = []search.Difficulty{search.Easy, search.Medium, search.Hard}

type handlers struct {
    svc  *app.Service
    tpl  *templates
    opts Options
}

type boardData struct {
    ID           string
    State        app.State
    Tally        score.Tally
    Error        string
    Difficulties []search.Difficulty
}

func (h *handlers) dataFor(gs app.GameState, errMsg string) boardData {
    return boardData{ID: gs.ID, State: gs.State, Tally: gs.Tally, Error: errMsg, Difficulties: difficulties}
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", h.dataFor(gs, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

// errorMessage turns a rejected action into status text.
func errorMessage(err error) string {
    switch {
    case err == nil:
        return ""
    case errors.Is(err, domain.ErrOutOfRange):
        return "Out of range"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, app.ErrIllegalMove):
        return "Illegal move"
    default:
        log.Error().Err(err).Msg("unexpected game error")
        return "Something went wrong"
    }
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := struct {
        Mode         string
        Difficulty   search.Difficulty
        Difficulties []search.Difficulty
        Tally        score.Tally
    }{Mode: h.opts.Mode.String(), Difficulty: h.opts.Difficulty, Difficulties: difficulties, Tally: h.svc.Tally()}
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    mode := h.opts.Mode
    if v := r.Form.Get("mode"); v != "" {
        m, err := app.ParseMode(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        mode = m
    }
    difficulty := h.opts.Difficulty
    if v := r.Form.Get("difficulty"); v != "" {
        d, err := search.ParseDifficulty(v)
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        difficulty = d
    }
    gs, err := h.svc.CreateGame(mode, difficulty)
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", h.dataFor(*gs, "")))
}

func (h *handlers) tap(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    i, err := strconv.Atoi(r.Form.Get("i"))
    if err != nil {
        i = -1
    }
    gs, err := h.svc.Tap(id, i)
    if errors.Is(err, app.ErrNotFound) || gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, errorMessage(err))
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.Reset(chi.URLParam(r, "id"))
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) difficulty(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    d, err := search.ParseDifficulty(r.Form.Get("difficulty"))
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    gs, err := h.svc.SetDifficulty(id, d)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) score(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(h.svc.Tally())
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(h.opts.Heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(h.renderBoard(gs, "")))
            flusher.Flush()
        }
    }
}

// sseData continues multi-line payloads on further data lines.
func sseData(b []byte) string {
    return strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", "\ndata: ")
}
