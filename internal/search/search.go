// Package search picks the machine player's moves. Every policy explores by
// mutating the board it is handed and puts each cell back before returning.
package search

import (
    "errors"

    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/jaminalder/codex-three-mens-morris/internal/eval"
    "golang.org/x/exp/rand"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Placer chooses where me places its next piece.
type Placer interface {
    Place(b *domain.Board, me domain.Cell) (int, error)
}

// NewPlacer returns the placement policy for d.
func NewPlacer(d Difficulty, rng *rand.Rand) Placer {
    switch d {
    case Medium:
        return greedy{fallback: random{rng: rng}}
    case Hard:
        return minimax{}
    default:
        return random{rng: rng}
    }
}

type random struct {
    rng *rand.Rand
}

func (r random) Place(b *domain.Board, me domain.Cell) (int, error) {
    empty := b.EmptyIndices()
    if len(empty) == 0 {
        return -1, ErrNoLegalMoves
    }
    return empty[r.rng.Intn(len(empty))], nil
}

// greedy completes its own line, else blocks the opponent's, else plays at
// random.
type greedy struct {
    fallback random
}

func (g greedy) Place(b *domain.Board, me domain.Cell) (int, error) {
    if b.Full() {
        return -1, ErrNoLegalMoves
    }
    if i, ok := completing(b, me); ok {
        return i, nil
    }
    if i, ok := completing(b, me.Opponent()); ok {
        return i, nil
    }
    return g.fallback.Place(b, me)
}

// completing returns the first empty cell that gives side a line.
func completing(b *domain.Board, side domain.Cell) (int, bool) {
    for i := range b.Empty() {
        b[i] = side
        won := domain.CheckWin(b, side)
        b[i] = domain.Empty
        if won {
            return i, true
        }
    }
    return -1, false
}

// minimax searches every continuation of plain placements to a line or a
// full board.
type minimax struct{}

func (minimax) Place(b *domain.Board, me domain.Cell) (int, error) {
    opp := me.Opponent()
    best, bestScore := -1, -999
    for i := range b.Empty() {
        b[i] = me
        score := value(b, me, opp, false)
        b[i] = domain.Empty
        if score > bestScore {
            best, bestScore = i, score
        }
    }
    if best < 0 {
        return -1, ErrNoLegalMoves
    }
    return best, nil
}

func value(b *domain.Board, me, opp domain.Cell, maximizing bool) int {
    if score, terminal := eval.Score(b, me, opp); terminal {
        return score
    }
    if maximizing {
        best := -999
        for i := range b.Empty() {
            b[i] = me
            best = max(best, value(b, me, opp, false))
            b[i] = domain.Empty
        }
        return best
    }
    best := 999
    for i := range b.Empty() {
        b[i] = opp
        best = min(best, value(b, me, opp, true))
        b[i] = domain.Empty
    }
    return best
}

// Slide picks a sliding move for me. It takes the first move that completes
// a line, scanning own pieces then destinations in ascending order, and
// otherwise a random piece and a random empty cell. It never looks further
// ahead, whatever the difficulty.
func Slide(b *domain.Board, me domain.Cell, rng *rand.Rand) (from, to int, err error) {
    pieces := b.Pieces(me)
    empty := b.EmptyIndices()
    if len(pieces) == 0 || len(empty) == 0 {
        return -1, -1, ErrNoLegalMoves
    }
    for _, f := range pieces {
        for _, t := range empty {
            b[f], b[t] = domain.Empty, me
            won := domain.CheckWin(b, me)
            b[f], b[t] = me, domain.Empty
            if won {
                return f, t, nil
            }
        }
    }
    return pieces[rng.Intn(len(pieces))], empty[rng.Intn(len(empty))], nil
}
