// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Task is a scheduled one-shot callback. A fired or cancelled task is never
// run twice.
type Task struct {
	ID      int64
	Execute time.Time
	Run     func()
	index   int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Scheduler runs one-shot tasks after a delay. Callbacks run on their own
// goroutine; cancellation only guarantees a still-pending task will not
// fire, so callbacks must re-check the state they expect.
type Scheduler struct {
	queue    taskQueue
	mutex    sync.Mutex
	nextID   int64
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue:    make(taskQueue, 0),
		nextID:   1,
		stopChan: make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.process()
	return s
}

// Schedule arms a one-shot task and returns its handle.
func (s *Scheduler) Schedule(delay time.Duration, run func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task := &Task{
		ID:      s.nextID,
		Execute: time.Now().Add(delay),
		Run:     run,
	}
	s.nextID++

	heap.Push(&s.queue, task)
	return task.ID
}

// Cancel removes a pending task. It reports false when the task already
// fired (or never existed), which callers use to detect the race between
// cancellation and firing.
func (s *Scheduler) Cancel(taskID int64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, task := range s.queue {
		if task.ID == taskID {
			heap.Remove(&s.queue, i)
			return true
		}
	}
	return false
}

// Stop shuts down the scheduler loop. Pending tasks are dropped.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			for {
				s.mutex.Lock()
				if s.queue.Len() == 0 || s.queue[0].Execute.After(now) {
					s.mutex.Unlock()
					break
				}
				task := heap.Pop(&s.queue).(*Task)
				s.mutex.Unlock()

				go task.Run()
			}

		case <-s.stopChan:
			return
		}
	}
}
