package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_FiresTask(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule(20*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Scheduled task did not fire")
	}
}

func TestScheduler_CancelPreventsFiring(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var fired int32
	id := s.Schedule(100*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	if !s.Cancel(id) {
		t.Fatal("Cancel of a pending task should report true")
	}

	time.Sleep(300 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Cancelled task must not fire")
	}
}

func TestScheduler_CancelAfterFire(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	fired := make(chan struct{})
	id := s.Schedule(10*time.Millisecond, func() { close(fired) })

	<-fired
	if s.Cancel(id) {
		t.Error("Cancel of an already-fired task should report false")
	}
}

func TestScheduler_OrdersByDeadline(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	order := make(chan string, 2)
	s.Schedule(150*time.Millisecond, func() { order <- "late" })
	s.Schedule(30*time.Millisecond, func() { order <- "early" })

	first := <-order
	second := <-order
	if first != "early" || second != "late" {
		t.Errorf("Tasks fired out of order: %s then %s", first, second)
	}
}
