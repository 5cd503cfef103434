package search

import (
    "fmt"
    "strings"
)

// Difficulty selects the placement policy of the machine player.
type Difficulty uint8

const (
    Easy Difficulty = iota
    Medium
    Hard
)

var difficultyNames = [...]string{Easy: "easy", Medium: "medium", Hard: "hard"}

func (d Difficulty) String() string {
    if int(d) < len(difficultyNames) {
        return difficultyNames[d]
    }
    return fmt.Sprintf("difficulty(%d)", uint8(d))
}

// ParseDifficulty accepts "easy", "medium" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
    s = strings.ToLower(strings.TrimSpace(s))
    for d, name := range difficultyNames {
        if s == name {
            return Difficulty(d), nil
        }
    }
    return Easy, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(b []byte) error {
    v, err := ParseDifficulty(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}
