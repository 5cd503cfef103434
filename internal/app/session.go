package app

import (
    "errors"
    "fmt"
    "time"

    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
    "github.com/rs/zerolog/log"
    "golang.org/x/exp/rand"
)

// ErrIllegalMove wraps every rejected player action. The session is left
// unchanged when it is returned.
var ErrIllegalMove = errors.New("illegal move")

// Mode says who plays O.
type Mode uint8

const (
    TwoPlayer Mode = iota
    VersusMachine
)

func (m Mode) String() string {
    if m == VersusMachine {
        return "machine"
    }
    return "two"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode accepts "two" or "machine".
func ParseMode(s string) (Mode, error) {
    switch s {
    case "two", "2":
        return TwoPlayer, nil
    case "machine", "ai":
        return VersusMachine, nil
    }
    return TwoPlayer, fmt.Errorf("unknown mode %q", s)
}

// Machine is the side the machine plays in VersusMachine mode.
const Machine = domain.O

// MachineMove is a move made by the machine. From is -1 for a placement.
type MachineMove struct {
    From int `json:"from"`
    To   int `json:"to"`
}

// MoveOutcome is what a caller needs to re-render after an action.
type MoveOutcome struct {
    Applied  bool         `json:"applied"`
    Winner   domain.Cell  `json:"winner"`
    Terminal bool         `json:"terminal"`
    Phase    domain.Phase `json:"phase"`
    Machine  *MachineMove `json:"machine,omitempty"`
}

// State is a value snapshot of a session.
type State struct {
    Board      domain.Board      `json:"board"`
    Phase      domain.Phase      `json:"phase"`
    Turn       domain.Cell       `json:"turn"`
    Selected   int               `json:"selected"`
    Winner     domain.Cell       `json:"winner"`
    Over       bool              `json:"over"`
    Line       [3]int            `json:"line"`
    Mode       Mode              `json:"mode"`
    Difficulty search.Difficulty `json:"difficulty"`
}

type PlacerFactory func(search.Difficulty, *rand.Rand) search.Placer

type Option func(*Session)

// WithRand injects the random source used by the Easy and Medium policies and
// the sliding fallback.
func WithRand(rng *rand.Rand) Option {
    return func(s *Session) { s.rng = rng }
}

// WithPlacer replaces the placement policy factory.
func WithPlacer(f PlacerFactory) Option {
    return func(s *Session) { s.newPlacer = f }
}

// Session is one match of Three Men's Morris. It is not safe for concurrent
// use.
type Session struct {
    game       domain.Game
    selected   int
    mode       Mode
    difficulty search.Difficulty
    rng        *rand.Rand
    newPlacer  PlacerFactory
}

// NewSession starts a match with X to move.
func NewSession(mode Mode, difficulty search.Difficulty, opts ...Option) *Session {
    s := &Session{newPlacer: search.NewPlacer}
    for _, opt := range opts {
        opt(s)
    }
    if s.rng == nil {
        s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
    }
    s.StartMatch(mode, difficulty)
    return s
}

// StartMatch resets the board and sets mode and difficulty.
func (s *Session) StartMatch(mode Mode, difficulty search.Difficulty) {
    s.mode = mode
    s.difficulty = difficulty
    s.Reset()
}

// Reset clears the board, phase, counters, selection and terminal flag.
func (s *Session) Reset() {
    s.game = domain.New()
    s.selected = -1
    log.Debug().Stringer("mode", s.mode).Stringer("difficulty", s.difficulty).Msg("match reset")
}

// SetDifficulty applies from the next machine turn.
func (s *Session) SetDifficulty(d search.Difficulty) { s.difficulty = d }

func (s *Session) Mode() Mode                    { return s.mode }
func (s *Session) Difficulty() search.Difficulty { return s.difficulty }

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
    st := State{
        Board:      s.game.Board,
        Phase:      s.game.Phase,
        Turn:       s.game.Turn,
        Selected:   s.selected,
        Winner:     s.game.Winner,
        Over:       s.game.Over,
        Mode:       s.mode,
        Difficulty: s.difficulty,
    }
    st.Line, _ = domain.WinningLine(&s.game.Board, s.game.Winner)
    return st
}

func (s *Session) outcome(applied bool) MoveOutcome {
    return MoveOutcome{
        Applied:  applied,
        Winner:   s.game.Winner,
        Terminal: s.game.Over,
        Phase:    s.game.Phase,
    }
}

func (s *Session) machineToMove() bool {
    return s.mode == VersusMachine && !s.game.Over && s.game.Turn == Machine
}

// checkHuman rejects input when the game is over, the index is out of range
// or the machine is on turn.
func (s *Session) checkHuman(i int) error {
    if !domain.ValidIndex(i) {
        return fmt.Errorf("%w: %d", domain.ErrOutOfRange, i)
    }
    if s.game.Over {
        return fmt.Errorf("%w: %w", ErrIllegalMove, domain.ErrGameOver)
    }
    if s.machineToMove() {
        return fmt.Errorf("%w: machine is on turn", ErrIllegalMove)
    }
    return nil
}

// SubmitPlacement places a piece for the side on turn.
func (s *Session) SubmitPlacement(i int) (MoveOutcome, error) {
    if err := s.checkHuman(i); err != nil {
        return s.outcome(false), err
    }
    if !s.game.CanPlace(i) {
        return s.outcome(false), fmt.Errorf("%w: cannot place at %d", ErrIllegalMove, i)
    }
    if err := s.game.Place(i, s.game.Turn); err != nil {
        return s.outcome(false), fmt.Errorf("%w: %w", ErrIllegalMove, err)
    }
    return s.afterHuman()
}

// SelectForSliding picks up a piece of the side on turn.
func (s *Session) SelectForSliding(i int) error {
    if err := s.checkHuman(i); err != nil {
        return err
    }
    if !s.game.CanSelect(i, s.game.Turn) {
        return fmt.Errorf("%w: cannot select %d", ErrIllegalMove, i)
    }
    s.selected = i
    return nil
}

// SubmitSlideDestination moves the selected piece to i. An occupied i
// cancels the selection without error.
func (s *Session) SubmitSlideDestination(i int) (MoveOutcome, error) {
    if err := s.checkHuman(i); err != nil {
        return s.outcome(false), err
    }
    if s.selected < 0 {
        return s.outcome(false), fmt.Errorf("%w: no piece selected", ErrIllegalMove)
    }
    if !s.game.Board.IsEmpty(i) {
        s.selected = -1
        return s.outcome(false), nil
    }
    from := s.selected
    if err := s.game.Slide(from, i, s.game.Turn); err != nil {
        return s.outcome(false), fmt.Errorf("%w: %w", ErrIllegalMove, err)
    }
    s.selected = -1
    return s.afterHuman()
}

// Tap handles a tap on cell i the way the board reacts to clicks: place while
// placing, otherwise select a piece or move the selected one.
func (s *Session) Tap(i int) (MoveOutcome, error) {
    switch {
    case s.game.Phase == domain.Placing:
        return s.SubmitPlacement(i)
    case s.selected < 0:
        return s.outcome(false), s.SelectForSliding(i)
    default:
        return s.SubmitSlideDestination(i)
    }
}

func (s *Session) afterHuman() (MoveOutcome, error) {
    if s.game.Over {
        log.Debug().Stringer("winner", s.game.Winner).Msg("match won")
    }
    if !s.machineToMove() {
        return s.outcome(true), nil
    }
    human := s.outcome(true)
    out, err := s.RunMachineTurn()
    if err != nil {
        return human, fmt.Errorf("machine turn: %w", err)
    }
    return out, nil
}

// RunMachineTurn plays the machine's move synchronously.
func (s *Session) RunMachineTurn() (MoveOutcome, error) {
    if !s.machineToMove() {
        return s.outcome(false), fmt.Errorf("%w: not the machine's turn", ErrIllegalMove)
    }
    mv := MachineMove{From: -1}
    if s.game.Phase == domain.Placing {
        i, err := s.newPlacer(s.difficulty, s.rng).Place(&s.game.Board, Machine)
        if err != nil {
            return s.outcome(false), err
        }
        if err := s.game.Place(i, Machine); err != nil {
            return s.outcome(false), err
        }
        mv.To = i
    } else {
        from, to, err := search.Slide(&s.game.Board, Machine, s.rng)
        if err != nil {
            return s.outcome(false), err
        }
        if err := s.game.Slide(from, to, Machine); err != nil {
            return s.outcome(false), err
        }
        mv.From, mv.To = from, to
    }
    log.Debug().Int("from", mv.From).Int("to", mv.To).Stringer("difficulty", s.difficulty).Msg("machine moved")
    if s.game.Over {
        log.Debug().Stringer("winner", s.game.Winner).Msg("match won")
    }
    out := s.outcome(true)
    out.Machine = &mv
    return out, nil
}
