// Package eval scores finished positions for the minimax search.
package eval

import "github.com/jaminalder/codex-three-mens-morris/internal/domain"

const (
    Win  = 10
    Loss = -Win
    Draw = 0
)

// Score returns the value of b for max and whether b is terminal. A line for
// max scores Win, a line for min scores Loss, a full board without a line is
// a Draw. Any other board is not terminal and scores 0.
func Score(b *domain.Board, max, min domain.Cell) (int, bool) {
    switch {
    case domain.CheckWin(b, max):
        return Win, true
    case domain.CheckWin(b, min):
        return Loss, true
    case b.Full():
        return Draw, true
    }
    return 0, false
}
