package search

import (
    "testing"

    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/stretchr/testify/require"
    "golang.org/x/exp/rand"
)

const (
    E = domain.Empty
    X = domain.X
    O = domain.O
)

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func TestParseDifficulty(t *testing.T) {
    for _, d := range []Difficulty{Easy, Medium, Hard} {
        got, err := ParseDifficulty(d.String())
        require.NoError(t, err)
        require.Equal(t, d, got)
    }
    got, err := ParseDifficulty(" HARD ")
    require.NoError(t, err)
    require.Equal(t, Hard, got)

    _, err = ParseDifficulty("impossible")
    require.Error(t, err)
}

func TestPlacersLeaveBoardUnchanged(t *testing.T) {
    boards := []domain.Board{
        {},
        {X, E, E, E, O, E, E, E, E},
        {X, X, E, O, O, E, E, E, E},
        {X, O, X, E, O, E, E, E, X},
    }
    for _, d := range []Difficulty{Easy, Medium, Hard} {
        p := NewPlacer(d, seeded(1))
        for _, b := range boards {
            before := b
            i, err := p.Place(&b, O)
            require.NoError(t, err)
            require.True(t, domain.ValidIndex(i))
            require.Equal(t, E, before[i], "%v chose occupied cell %d", d, i)
            require.Equal(t, before, b, "%v mutated the board", d)
        }
    }
}

func TestPlacersRejectFullBoard(t *testing.T) {
    full := domain.Board{X, O, X, X, O, O, O, X, X}
    for _, d := range []Difficulty{Easy, Medium, Hard} {
        b := full
        _, err := NewPlacer(d, seeded(1)).Place(&b, O)
        require.ErrorIs(t, err, ErrNoLegalMoves, d.String())
        require.Equal(t, full, b)
    }
}

func TestEasyUsesInjectedSource(t *testing.T) {
    b := domain.Board{X, E, E, E, O, E, E, E, E}
    first, err := NewPlacer(Easy, seeded(7)).Place(&b, O)
    require.NoError(t, err)
    second, err := NewPlacer(Easy, seeded(7)).Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, first, second, "same seed must give the same choice")
}

func TestMediumCompletesOwnLine(t *testing.T) {
    // O holds 3 and 4, cell 5 wins. X threatens 2 on the top row.
    b := domain.Board{X, X, E, O, O, E, E, E, E}
    i, err := NewPlacer(Medium, seeded(1)).Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, 5, i, "offense comes before defense")
}

func TestMediumBlocksOpponent(t *testing.T) {
    b := domain.Board{X, E, E, E, X, E, E, O, E}
    i, err := NewPlacer(Medium, seeded(1)).Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, 8, i)
}

func TestMediumFirstWinInAscendingOrder(t *testing.T) {
    // both 2 and 6 complete a line for O
    b := domain.Board{O, O, E, O, X, X, E, X, E}
    i, err := NewPlacer(Medium, seeded(1)).Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, 2, i)
}

func TestHardDeterministicFromEmptyBoard(t *testing.T) {
    var b domain.Board
    p := NewPlacer(Hard, nil)
    first, err := p.Place(&b, O)
    require.NoError(t, err)
    second, err := p.Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, first, second)
    // every opening draws under perfect play, so the first cell wins the tie
    require.Equal(t, 0, first)
    require.Equal(t, domain.Board{}, b)
}

func TestHardTakesWinAndBlocks(t *testing.T) {
    win := domain.Board{X, X, E, O, O, E, X, E, E}
    i, err := NewPlacer(Hard, nil).Place(&win, O)
    require.NoError(t, err)
    require.Equal(t, 5, i)

    // X threatens 8 on the bottom row. Blocking there holds the draw.
    block := domain.Board{E, E, E, E, O, E, X, X, E}
    i, err = NewPlacer(Hard, nil).Place(&block, O)
    require.NoError(t, err)
    require.Equal(t, 8, i)
}

func TestHardPicksFirstEmptyWhenEveryMoveLoses(t *testing.T) {
    // X forks: 8 completes the diagonal, 6 threatens both 2 and 3.
    b := domain.Board{X, E, E, E, X, E, E, O, E}
    i, err := NewPlacer(Hard, nil).Place(&b, O)
    require.NoError(t, err)
    require.Equal(t, 1, i)
}

// Hard answers as O and must never let X complete a line while placing.
func TestHardNeverLosesDuringPlacement(t *testing.T) {
    hard := NewPlacer(Hard, nil)
    games := 0
    var explore func(g domain.Game)
    explore = func(g domain.Game) {
        if g.Over {
            require.NotEqual(t, X, g.Winner, "X won against Hard: %v", g.Board)
            games++
            return
        }
        if g.Phase == domain.Sliding {
            games++
            return
        }
        if g.Turn == X {
            for _, i := range g.Board.EmptyIndices() {
                child := g
                require.NoError(t, child.Place(i, X))
                explore(child)
            }
            return
        }
        before := g.Board
        i, err := hard.Place(&g.Board, O)
        require.NoError(t, err)
        require.Equal(t, before, g.Board)
        require.NoError(t, g.Place(i, O))
        explore(g)
    }
    explore(domain.New())
    require.Positive(t, games)
}

func TestSlideTakesWinningMove(t *testing.T) {
    // O on 3 4 8: sliding 8 -> 5 completes the middle row
    b := domain.Board{X, X, E, O, O, E, X, E, O}
    before := b
    from, to, err := Slide(&b, O, seeded(1))
    require.NoError(t, err)
    require.Equal(t, 8, from)
    require.Equal(t, 5, to)
    require.Equal(t, before, b)
}

func TestSlideFirstWinInScanOrder(t *testing.T) {
    // O on 0 4 7. 7 -> 8 wins the diagonal, 0 -> 1 wins the middle column.
    b := domain.Board{O, E, X, X, O, X, E, O, E}
    from, to, err := Slide(&b, O, seeded(1))
    require.NoError(t, err)
    require.Equal(t, 0, from)
    require.Equal(t, 1, to)
}

func TestSlideFallbackIsLegal(t *testing.T) {
    b := domain.Board{X, O, X, E, O, E, O, X, E}
    before := b
    for seed := uint64(0); seed < 20; seed++ {
        from, to, err := Slide(&b, X, seeded(seed))
        require.NoError(t, err)
        require.Equal(t, X, b[from])
        require.Equal(t, E, b[to])
        require.Equal(t, before, b)
    }
}

func TestSlideNoLegalMoves(t *testing.T) {
    full := domain.Board{X, O, X, X, O, O, O, X, X}
    _, _, err := Slide(&full, O, seeded(1))
    require.ErrorIs(t, err, ErrNoLegalMoves)

    var empty domain.Board
    _, _, err = Slide(&empty, O, seeded(1))
    require.ErrorIs(t, err, ErrNoLegalMoves)
}
