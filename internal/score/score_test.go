package score

import (
    "os"
    "path/filepath"
    "testing"

    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/stretchr/testify/require"
)

func TestLoadMissingCreatesZeroFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "score.txt")
    s := NewStore(path)

    require.Equal(t, Tally{}, s.Load())

    b, err := os.ReadFile(path)
    require.NoError(t, err)
    require.Equal(t, "0,0", string(b))
}

func TestLoadMalformedResets(t *testing.T) {
    for _, content := range []string{"", "abc", "1", "1,x", "1,2,3", "-1,2"} {
        path := filepath.Join(t.TempDir(), "score.txt")
        require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

        require.Equal(t, Tally{}, NewStore(path).Load(), "content %q", content)
        b, err := os.ReadFile(path)
        require.NoError(t, err)
        require.Equal(t, "0,0", string(b))
    }
}

func TestSaveThenLoad(t *testing.T) {
    path := filepath.Join(t.TempDir(), "score.txt")
    s := NewStore(path)
    tally := Tally{}
    tally.Record(domain.X)
    tally.Record(domain.X)
    tally.Record(domain.O)
    tally.Record(domain.Empty)
    require.NoError(t, s.Save(tally))

    b, err := os.ReadFile(path)
    require.NoError(t, err)
    require.Equal(t, "2,1", string(b))
    require.Equal(t, Tally{X: 2, O: 1}, s.Load())
}

func TestParseToleratesWhitespace(t *testing.T) {
    got, err := Parse(" 3, 4\n")
    require.NoError(t, err)
    require.Equal(t, Tally{X: 3, O: 4}, got)
}

func TestSaveFailsInMissingDirectory(t *testing.T) {
    s := NewStore(filepath.Join(t.TempDir(), "nope", "score.txt"))
    require.Error(t, s.Save(Tally{X: 1}))
    require.Equal(t, Tally{}, s.Load())
}
