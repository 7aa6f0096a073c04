package system

import "time"

// Phase orders systems inside one tick.
type Phase int

const (
	PhaseInput      Phase = iota // drain session queues
	PhasePreUpdate               // dispatch last tick's events
	PhaseUpdate                  // scheduled tasks, player think
	PhasePostUpdate              // zone changes, walkthrough memo expiry
	PhaseOutput                  // flush session buffers
	PhasePersist                 // periodic saves
	PhaseCleanup                 // release dead sessions
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is one unit of per-tick work run by the Runner.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
