// Package score keeps the running win tally across matches in a small text
// file holding "<X wins>,<O wins>".
package score

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"

    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/rs/zerolog/log"
)

var ErrMalformed = errors.New("malformed score")

// Tally counts wins per side. O wins include the machine's.
type Tally struct {
    X int `json:"x"`
    O int `json:"o"`
}

// Record adds one win for winner. Empty is ignored.
func (t *Tally) Record(winner domain.Cell) {
    switch winner {
    case domain.X:
        t.X++
    case domain.O:
        t.O++
    }
}

func (t Tally) String() string { return fmt.Sprintf("%d,%d", t.X, t.O) }

// Parse reads the "x,o" form written by String.
func Parse(s string) (Tally, error) {
    parts := strings.Split(strings.TrimSpace(s), ",")
    if len(parts) != 2 {
        return Tally{}, fmt.Errorf("%w: %q", ErrMalformed, s)
    }
    x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
    if err != nil {
        return Tally{}, fmt.Errorf("%w: %v", ErrMalformed, err)
    }
    o, err := strconv.Atoi(strings.TrimSpace(parts[1]))
    if err != nil {
        return Tally{}, fmt.Errorf("%w: %v", ErrMalformed, err)
    }
    if x < 0 || o < 0 {
        return Tally{}, fmt.Errorf("%w: negative count in %q", ErrMalformed, s)
    }
    return Tally{X: x, O: o}, nil
}

// Store persists a Tally at a file path.
type Store struct {
    path string
}

func NewStore(path string) *Store { return &Store{path: path} }

func (s *Store) Path() string { return s.path }

// Load returns the stored tally. A missing or unreadable file yields a zero
// tally and is rewritten.
func (s *Store) Load() Tally {
    b, err := os.ReadFile(s.path)
    if err == nil {
        t, perr := Parse(string(b))
        if perr == nil {
            return t
        }
        err = perr
    }
    if !errors.Is(err, os.ErrNotExist) {
        log.Warn().Err(err).Str("path", s.path).Msg("resetting score file")
    }
    if err := s.Save(Tally{}); err != nil {
        log.Warn().Err(err).Str("path", s.path).Msg("could not recreate score file")
    }
    return Tally{}
}

// Save overwrites the file with t.
func (s *Store) Save(t Tally) error {
    if err := os.WriteFile(s.path, []byte(t.String()), 0o644); err != nil {
        return fmt.Errorf("save score: %w", err)
    }
    return nil
}
