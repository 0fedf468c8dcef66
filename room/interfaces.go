package room

import (
	"time"

	"github.com/wfunc/pictureduel/models"
)

// Broadcaster defines the interface for delivering notifications to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgID uint16, data []byte) error
	BroadcastToRoomExcept(roomCode, exceptSessionID string, msgID uint16, data []byte) error
	SendToSession(sessionID string, msgID uint16, data []byte) error
}

// Scheduler arms and cancels the room's one-shot timers. Implemented by
// timer.Scheduler; tests substitute a manual fake.
type Scheduler interface {
	Schedule(delay time.Duration, run func()) int64
	Cancel(taskID int64) bool
}

// Clock supplies the current time. Tests substitute a fixed clock to drive
// guess latencies.
type Clock func() time.Time

// Metrics receives game events worth counting. Implemented by
// monitor.Monitor.
type Metrics interface {
	RoundStarted()
	GuessSubmitted(correct bool, latency time.Duration)
}

// Deps bundles the collaborators a room needs. Nil Clock defaults to
// time.Now; nil Metrics and OnGameOver are ignored.
type Deps struct {
	Broadcaster Broadcaster
	Scheduler   Scheduler
	Clock       Clock
	Metrics     Metrics
	OnGameOver  func(models.GameRecord)
}

// Config carries the game profile tunables.
type Config struct {
	DefaultRoundDuration time.Duration
	MinRoundDuration     time.Duration
	MaxRoundDuration     time.Duration
	MaxDrawsPerPlayer    int
	AutoAdvanceDelay     time.Duration
}

// DefaultConfig matches the standard profile: 45 s rounds, 3 draws per
// player, 2 s tally plus 5 s countdown between rounds.
func DefaultConfig() Config {
	return Config{
		DefaultRoundDuration: 45 * time.Second,
		MinRoundDuration:     10 * time.Second,
		MaxRoundDuration:     120 * time.Second,
		MaxDrawsPerPlayer:    3,
		AutoAdvanceDelay:     7 * time.Second,
	}
}
