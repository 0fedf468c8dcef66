package room

import (
	"testing"
	"time"
)

func TestScoreForLatency(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 10},
		{5 * time.Second, 10},
		{10 * time.Second, 10},
		{14 * time.Second, 10},
		{15 * time.Second, 9},
		{19 * time.Second, 9},
		{20 * time.Second, 8},
		{55 * time.Second, 1},
		{10 * time.Minute, 1},
		{-3 * time.Second, 10},
	}
	for _, tc := range cases {
		if got := scoreForLatency(tc.elapsed); got != tc.want {
			t.Errorf("scoreForLatency(%v) = %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}

func TestPickNextDrawerRotates(t *testing.T) {
	env := newTestEnv(DefaultConfig())
	env.join(t, "p1", "Alice")
	env.join(t, "p2", "Bob")
	env.join(t, "p3", "Carol")

	env.room.mu.Lock()
	defer env.room.mu.Unlock()

	// Fresh room: ties on zero draws go to the earliest joiner.
	if got := env.room.pickNextDrawerLocked(); got.ID != "p1" {
		t.Errorf("first drawer = %s, want p1", got.ID)
	}

	env.room.players["p1"].Draws = 1
	if got := env.room.pickNextDrawerLocked(); got.ID != "p2" {
		t.Errorf("second drawer = %s, want p2", got.ID)
	}

	env.room.players["p2"].Draws = 1
	env.room.players["p3"].Draws = 1
	if got := env.room.pickNextDrawerLocked(); got.ID != "p1" {
		t.Errorf("rotation restart = %s, want p1", got.ID)
	}
}
