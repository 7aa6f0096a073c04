// Package sched runs delayed callbacks on the game loop.
//
// Nothing here is goroutine-safe: AddEvent, StopEvent and Tick must all be
// called from the loop that owns the world.
package sched

import (
	"container/heap"
	"time"

	"github.com/l1jgo/playerd/internal/core/clock"
)

// MinTicks is the shortest delay a task can be scheduled with.
const MinTicks = 50 * time.Millisecond

type TaskID uint64

type task struct {
	id  TaskID
	due int64 // unix ms
	seq uint64
	fn  func()
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

type Scheduler struct {
	clock   clock.Clock
	queue   taskHeap
	live    map[TaskID]struct{}
	lastID  TaskID
	lastSeq uint64
}

func New(c clock.Clock) *Scheduler {
	return &Scheduler{
		clock: c,
		live:  make(map[TaskID]struct{}),
	}
}

// AddEvent schedules fn to run after delay and returns its id. Tasks due at
// the same millisecond run in the order they were added.
func (s *Scheduler) AddEvent(delay time.Duration, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	s.lastID++
	s.lastSeq++
	t := &task{
		id:  s.lastID,
		due: clock.Millis(s.clock) + delay.Milliseconds(),
		seq: s.lastSeq,
		fn:  fn,
	}
	heap.Push(&s.queue, t)
	s.live[t.id] = struct{}{}
	return t.id
}

// StopEvent cancels a pending task. Stopping id 0, an unknown id or a task
// that already ran is a no-op.
func (s *Scheduler) StopEvent(id TaskID) bool {
	if _, ok := s.live[id]; !ok {
		return false
	}
	delete(s.live, id)
	return true
}

func (s *Scheduler) Pending() int { return len(s.live) }

// Tick runs every task that is due and returns how many ran. Tasks added by
// a running task with zero delay run in the same Tick.
func (s *Scheduler) Tick() int {
	now := clock.Millis(s.clock)
	ran := 0
	for s.queue.Len() > 0 && s.queue[0].due <= now {
		t := heap.Pop(&s.queue).(*task)
		if _, ok := s.live[t.id]; !ok {
			continue
		}
		delete(s.live, t.id)
		t.fn()
		ran++
	}
	return ran
}
