package web

import (
    "context"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMessage struct {
    Type  string         `json:"type"`
    State *app.GameState `json:"state,omitempty"`
}

// ws streams JSON snapshots of a game: the current one on connect, then one
// per change.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Warn().Err(err).Str("game", id).Msg("websocket upgrade failed")
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    // drain client frames so close and ping control frames are handled
    go func() {
        defer cancel()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    if err := writeWSWithHeartbeat(ctx, conn, gs, ch, h.opts.Heartbeat); err != nil {
        log.Debug().Err(err).Str("game", id).Msg("websocket closed")
    }
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, first *app.GameState, updates <-chan app.GameState, idle time.Duration) error {
    ticker := time.NewTicker(idle)
    defer ticker.Stop()
    if err := conn.WriteJSON(wsMessage{Type: "state", State: first}); err != nil {
        return err
    }
    lastWrite := time.Now()
    for {
        select {
        case <-ctx.Done():
            return nil
        case gs, ok := <-updates:
            if !ok {
                return nil
            }
            if err := conn.WriteJSON(wsMessage{Type: "state", State: &gs}); err != nil {
                return err
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < idle {
                continue
            }
            if err := conn.WriteJSON(wsMessage{Type: "ping"}); err != nil {
                return err
            }
            lastWrite = time.Now()
        }
    }
}
