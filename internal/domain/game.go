package domain

import (
    "errors"
    "fmt"
)

// Phase is the stage of a match.
type Phase uint8

const (
    Placing Phase = iota
    Sliding
)

func (p Phase) String() string {
    if p == Sliding {
        return "sliding"
    }
    return "placing"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// PiecesPerSide is how many pieces each side places before sliding begins.
const PiecesPerSide = 3

// PlacementCounts counts the pieces each side has placed.
type PlacementCounts struct {
    X int
    O int
}

func (pc PlacementCounts) Of(c Cell) int {
    if c == O {
        return pc.O
    }
    return pc.X
}

func (pc *PlacementCounts) inc(c Cell) {
    if c == O {
        pc.O++
    } else {
        pc.X++
    }
}

// PhaseAfter returns Sliding once both sides placed all their pieces.
func PhaseAfter(pc PlacementCounts) Phase {
    if pc.X >= PiecesPerSide && pc.O >= PiecesPerSide {
        return Sliding
    }
    return Placing
}

// Game holds the current state of a Three Men's Morris match.
type Game struct {
    Board  Board
    Phase  Phase
    Turn   Cell
    Placed PlacementCounts
    Winner Cell
    Over   bool
    Moves  int
}

// Errors returned by domain operations.
var (
    ErrOutOfRange  = errors.New("index out of range")
    ErrInvalidMove = errors.New("invalid move")
    ErrGameOver    = errors.New("game over")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Turn: X}
}

// CanPlace reports whether a piece may be placed at i.
func (g *Game) CanPlace(i int) bool {
    return g.Phase == Placing && g.Board.IsEmpty(i)
}

// Place puts a piece of side at i.
func (g *Game) Place(i int, side Cell) error {
    if g.Over {
        return ErrGameOver
    }
    if side != g.Turn {
        return fmt.Errorf("%w: %v is not on turn", ErrInvalidMove, side)
    }
    if !g.CanPlace(i) {
        return fmt.Errorf("%w: cannot place at %d", ErrInvalidMove, i)
    }
    g.Board.Set(i, side)
    g.Placed.inc(side)
    g.Phase = PhaseAfter(g.Placed)
    g.finish(side)
    return nil
}

// CanSelect reports whether side may pick up the piece at i.
func (g *Game) CanSelect(i int, side Cell) bool {
    return g.Phase == Sliding && g.Board.Get(i) == side
}

// CanSlideTo reports whether a selected piece may move to `to`. Any empty
// cell is a legal destination, adjacent or not.
func (g *Game) CanSlideTo(from, to int) bool {
    return from != to && g.Board.IsEmpty(to)
}

// Slide moves a piece of side from one cell to another.
func (g *Game) Slide(from, to int, side Cell) error {
    if g.Over {
        return ErrGameOver
    }
    if side != g.Turn {
        return fmt.Errorf("%w: %v is not on turn", ErrInvalidMove, side)
    }
    if !g.CanSelect(from, side) {
        return fmt.Errorf("%w: no %v piece to move at %d", ErrInvalidMove, side, from)
    }
    if !g.CanSlideTo(from, to) {
        return fmt.Errorf("%w: cannot slide to %d", ErrInvalidMove, to)
    }
    g.Board.Move(from, to, side)
    g.finish(side)
    return nil
}

func (g *Game) finish(side Cell) {
    g.Moves++
    if CheckWin(&g.Board, side) {
        g.Winner = side
        g.Over = true
        return
    }
    g.Turn = side.Opponent()
}
