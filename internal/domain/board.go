package domain

import (
    "fmt"
    "iter"
    "slices"
)

// Cell represents a board cell state. X is the first player, O the second
// player or the machine.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Size is the number of positions on the board.
const Size = 9

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Lines are the rows, columns and diagonals that win when owned by one side.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Board is a fixed 3x3 board stored row-major. It does no rule checking.
type Board [Size]Cell

// ValidIndex reports whether i addresses a board position.
func ValidIndex(i int) bool { return i >= 0 && i < Size }

func mustIndex(i int) {
    if !ValidIndex(i) {
        panic(fmt.Errorf("%w: %d", ErrOutOfRange, i))
    }
}

func (b *Board) Get(i int) Cell {
    mustIndex(i)
    return b[i]
}

func (b *Board) Set(i int, c Cell) {
    mustIndex(i)
    b[i] = c
}

func (b *Board) IsEmpty(i int) bool { return b.Get(i) == Empty }

// Move clears from and puts c on to. Callers validate.
func (b *Board) Move(from, to int, c Cell) {
    b.Set(from, Empty)
    b.Set(to, c)
}

// Empty yields the empty positions in ascending order.
func (b *Board) Empty() iter.Seq[int] {
    return func(yield func(int) bool) {
        for i, c := range b {
            if c == Empty && !yield(i) {
                return
            }
        }
    }
}

// EmptyIndices collects Empty.
func (b *Board) EmptyIndices() []int { return slices.Collect(b.Empty()) }

// Pieces returns the positions held by c in ascending order.
func (b *Board) Pieces(c Cell) []int {
    var out []int
    for i, v := range b {
        if v == c {
            out = append(out, i)
        }
    }
    return out
}

// Full reports whether no position is empty.
func (b *Board) Full() bool {
    for range b.Empty() {
        return false
    }
    return true
}

// CheckWin reports whether side owns a complete line.
func CheckWin(b *Board, side Cell) bool {
    _, ok := WinningLine(b, side)
    return ok
}

// WinningLine returns the first line owned by side.
func WinningLine(b *Board, side Cell) ([3]int, bool) {
    if side == Empty {
        return [3]int{}, false
    }
    for _, ln := range Lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return ln, true
        }
    }
    return [3]int{}, false
}
