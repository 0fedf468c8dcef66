package room

import (
	"strconv"
	"strings"
	"time"
)

const maxNameLength = 20

// Player is one room member. Score is cumulative for the game; Draws counts
// rounds spent as drawer. The remaining counters only feed the end-of-game
// summary.
type Player struct {
	ID    string
	Name  string
	Score int
	Draws int

	TotalGuesses   int
	CorrectGuesses int
	FastestGuess   time.Duration // only meaningful when CorrectGuesses > 0
	Strokes        int
}

// trimName normalizes a requested display name: trimmed and truncated to 20
// characters.
func trimName(raw string) string {
	name := strings.TrimSpace(raw)
	runes := []rune(name)
	if len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name
}

// uniqueNameLocked resolves display-name collisions case-insensitively by
// suffixing " (2)", " (3)", ... The player rejoining under selfID keeps its
// own name out of the comparison.
func (r *Room) uniqueNameLocked(name, selfID string) string {
	taken := make(map[string]bool, len(r.players))
	for id, p := range r.players {
		if id == selfID {
			continue
		}
		taken[strings.ToLower(p.Name)] = true
	}

	final := name
	for n := 2; taken[strings.ToLower(final)]; n++ {
		final = name + " (" + strconv.Itoa(n) + ")"
	}
	return final
}

// pickNextDrawerLocked returns the member with the fewest draws, ties going
// to the earliest joiner. Nil when the room is empty.
func (r *Room) pickNextDrawerLocked() *Player {
	var best *Player
	for _, id := range r.joinOrder {
		p := r.players[id]
		if best == nil || p.Draws < best.Draws {
			best = p
		}
	}
	return best
}
