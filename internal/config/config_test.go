package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.json")
    require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
    return path
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load("")
    require.NoError(t, err)
    require.Equal(t, Default(), cfg)

    cfg, err = Load(filepath.Join(t.TempDir(), "missing.json"))
    require.NoError(t, err)
    require.Equal(t, Default(), cfg)
    require.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
    path := writeConfig(t, `{"addr": ":9090", "default_difficulty": "hard", "log_level": "debug"}`)
    cfg, err := Load(path)
    require.NoError(t, err)
    require.Equal(t, ":9090", cfg.Addr)
    require.Equal(t, "score.txt", cfg.ScoreFile)
    require.Equal(t, search.Hard, cfg.Difficulty())
    require.Equal(t, app.VersusMachine, cfg.Mode())
    require.Equal(t, zerolog.DebugLevel, cfg.Level())
    require.Equal(t, 15*time.Second, cfg.Heartbeat())
}

func TestLoadRejectsBadValues(t *testing.T) {
    for _, content := range []string{
        `{"addr": ""}`,
        `{"log_level": "loud"}`,
        `{"default_mode": "network"}`,
        `{"default_difficulty": "impossible"}`,
        `{"heartbeat_seconds": 0}`,
        `{not json`,
    } {
        _, err := Load(writeConfig(t, content))
        require.Error(t, err, content)
    }
}
