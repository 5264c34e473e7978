package domain

import "strings"

// Level is the role of a user. Wire values follow the stored shape of the
// console: "admin", "gerente" and "user".
type Level string

const (
	LevelAdmin   Level = "admin"
	LevelManager Level = "gerente"
	LevelRegular Level = "user"
)

// Levels lists every known level in display order.
var Levels = []Level{LevelAdmin, LevelManager, LevelRegular}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelAdmin, LevelManager, LevelRegular:
		return true
	}
	return false
}

// ParseLevel converts user input to a Level.
//
//	"admin"              → LevelAdmin
//	"gerente", "manager" → LevelManager
//	"user", "regular"    → LevelRegular
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return LevelAdmin, true
	case "gerente", "manager":
		return LevelManager, true
	case "user", "regular":
		return LevelRegular, true
	default:
		return "", false
	}
}
