package system

import (
	"time"

	"github.com/l1jgo/playerd/internal/core/sched"
	coresys "github.com/l1jgo/playerd/internal/core/system"
)

// SchedulerSystem runs the delayed tasks that are due. Phase 2 (Update).
type SchedulerSystem struct {
	sched *sched.Scheduler
}

func NewSchedulerSystem(s *sched.Scheduler) *SchedulerSystem {
	return &SchedulerSystem{sched: s}
}

func (s *SchedulerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SchedulerSystem) Update(_ time.Duration) {
	s.sched.Tick()
}
