// Package state models the round lifecycle of a room as a tagged union, so
// an idle room cannot carry a secret word and an active round cannot exist
// without a drawer.
package state

import (
	"errors"
	"time"
)

// Phase identifies a round lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseEndedPendingNext
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseEndedPendingNext:
		return "ended_pending_next"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Round is one member of the lifecycle union.
type Round interface {
	Phase() Phase
}

// Idle means no round is running and nothing is scheduled.
type Idle struct{}

func (Idle) Phase() Phase { return PhaseIdle }

// Guess records one player's correct guess within the active round.
type Guess struct {
	Correct bool
	Score   int
	Latency time.Duration
}

// Active is a running round. TimerID is the handle of the armed round
// timer so the owning room can cancel it.
type Active struct {
	Word      string
	DrawerID  string
	StartedAt time.Time
	Duration  time.Duration
	TimerID   int64
	Guesses   map[string]Guess
}

func (*Active) Phase() Phase { return PhaseActive }

// EndedPendingNext is the window between a round tally and the automatic
// start of the next round. TimerID is the armed auto-advance timer.
type EndedPendingNext struct {
	NextDrawerID string
	TimerID      int64
}

func (EndedPendingNext) Phase() Phase { return PhaseEndedPendingNext }

// GameOver is terminal until an explicit reset.
type GameOver struct{}

func (GameOver) Phase() Phase { return PhaseGameOver }

// allowed lists the legal phase transitions. Idle is reachable from every
// phase because a host reset tears the game down from anywhere.
var allowed = map[Phase][]Phase{
	PhaseIdle:             {PhaseActive},
	PhaseActive:           {PhaseEndedPendingNext, PhaseIdle},
	PhaseEndedPendingNext: {PhaseActive, PhaseGameOver, PhaseIdle},
	PhaseGameOver:         {PhaseIdle},
}

// Machine holds the current round state and rejects illegal transitions.
// It is not safe for concurrent use; the owning room serializes access.
type Machine struct {
	current Round
}

func NewMachine() *Machine {
	return &Machine{current: Idle{}}
}

func (m *Machine) Current() Round {
	return m.current
}

func (m *Machine) Phase() Phase {
	return m.current.Phase()
}

func (m *Machine) Transition(next Round) error {
	from := m.current.Phase()
	to := next.Phase()

	for _, p := range allowed[from] {
		if p == to {
			m.current = next
			return nil
		}
	}
	return ErrTransitionNotAllowed
}
