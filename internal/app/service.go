package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/jaminalder/codex-three-mens-morris/internal/score"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
    "github.com/rs/zerolog/log"
)

// Errors exposed by the service layer.
var (
    ErrNotFound = errors.New("game not found")
)

// ScoreStore persists the win tally.
type ScoreStore interface {
    Load() score.Tally
    Save(score.Tally) error
}

type memoryStore struct{ t score.Tally }

func (m *memoryStore) Load() score.Tally         { return m.t }
func (m *memoryStore) Save(t score.Tally) error { m.t = t; return nil }

// GameState is a snapshot of one game as seen by the presentation layer.
type GameState struct {
    ID      string      `json:"id"`
    State   State       `json:"state"`
    Last    MoveOutcome `json:"last"`
    Tally   score.Tally `json:"tally"`
    Created time.Time   `json:"created"`
    Updated time.Time   `json:"updated"`
}

type game struct {
    id      string
    session *Session
    last    MoveOutcome
    created time.Time
    updated time.Time
}

// subscriber guards its channel so a send never races a close.
type subscriber struct {
    mu     sync.Mutex
    ch     chan GameState
    closed bool
}

// send delivers gs without blocking. It reports false when the subscriber
// is closed or its buffer is full.
func (s *subscriber) send(gs GameState) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return false
    }
    select {
    case s.ch <- gs:
        return true
    default:
        return false
    }
}

func (s *subscriber) close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.closed {
        s.closed = true
        close(s.ch)
    }
}

// Service manages sessions, the shared tally and subscribers. All calls on a
// session are serialised, so a session never runs two searches at once.
type Service struct {
    mu       sync.Mutex
    games    map[string]*game
    subs     map[string]map[*subscriber]struct{}
    store    ScoreStore
    tally    score.Tally
    sessOpts []Option
}

// NewService keeps the tally in memory only.
func NewService(opts ...Option) *Service { return NewServiceWithStore(&memoryStore{}, opts...) }

// NewServiceWithStore loads the tally once from store and saves it after
// every win. opts are applied to each new session.
func NewServiceWithStore(store ScoreStore, opts ...Option) *Service {
    if store == nil {
        store = &memoryStore{}
    }
    return &Service{
        games:    make(map[string]*game),
        subs:     make(map[string]map[*subscriber]struct{}),
        store:    store,
        tally:    store.Load(),
        sessOpts: opts,
    }
}

// Tally returns the running win count.
func (s *Service) Tally() score.Tally {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.tally
}

func (s *Service) snapshotLocked(g *game) GameState {
    return GameState{
        ID:      g.id,
        State:   g.session.Snapshot(),
        Last:    g.last,
        Tally:   s.tally,
        Created: g.created,
        Updated: g.updated,
    }
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(mode Mode, difficulty search.Difficulty) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now()
    g := &game{
        id:      uuid.NewString(),
        session: NewSession(mode, difficulty, s.sessOpts...),
        created: now,
        updated: now,
    }
    s.games[g.id] = g
    log.Info().Str("game", g.id).Stringer("mode", mode).Stringer("difficulty", difficulty).Msg("game created")
    gs := s.snapshotLocked(g)
    return &gs, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := s.snapshotLocked(g)
    return &gs, true
}

// Tap forwards a cell tap to the session, records a win and broadcasts.
// The returned state is current even when err is not nil.
func (s *Service) Tap(id string, i int) (*GameState, error) {
    return s.update(id, func(g *game) error {
        out, err := g.session.Tap(i)
        g.last = out
        if err != nil {
            return err
        }
        if out.Terminal && out.Winner != domain.Empty {
            s.recordWinLocked(id, out.Winner)
        }
        return nil
    })
}

// Reset starts the game over, keeping mode, difficulty and tally.
func (s *Service) Reset(id string) (*GameState, error) {
    return s.update(id, func(g *game) error {
        g.session.Reset()
        g.last = MoveOutcome{}
        return nil
    })
}

// SetDifficulty changes the machine's strength for the rest of the game.
func (s *Service) SetDifficulty(id string, d search.Difficulty) (*GameState, error) {
    return s.update(id, func(g *game) error {
        g.session.SetDifficulty(d)
        return nil
    })
}

func (s *Service) recordWinLocked(id string, winner domain.Cell) {
    s.tally.Record(winner)
    if err := s.store.Save(s.tally); err != nil {
        log.Warn().Err(err).Str("game", id).Msg("could not save score")
    }
    log.Info().Str("game", id).Stringer("winner", winner).Stringer("tally", s.tally).Msg("game won")
}

// update runs fn under the lock and fans out the new state to subscribers.
func (s *Service) update(id string, fn func(*game) error) (*GameState, error) {
    var toDrop []*subscriber

    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    before := g.session.Snapshot()
    err := fn(g)
    if g.session.Snapshot() == before && err != nil {
        gs := s.snapshotLocked(g)
        s.mu.Unlock()
        return &gs, err
    }
    g.updated = time.Now()
    gs := s.snapshotLocked(g)
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    // Fan-out; drop slow subscribers by closing and marking for deletion
    for sub := range subs {
        if !sub.send(gs) {
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
    return &gs, err
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
