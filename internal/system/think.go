package system

import (
	"time"

	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/world"
)

// ThinkSystem runs every online player's think once per think interval and
// resolves pending attacks and follows every tick. Phase 2 (Update).
type ThinkSystem struct {
	world   *world.State
	every   time.Duration
	elapsed time.Duration
}

func NewThinkSystem(ws *world.State, every time.Duration) *ThinkSystem {
	return &ThinkSystem{world: ws, every: every}
}

func (s *ThinkSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ThinkSystem) Update(dt time.Duration) {
	s.elapsed += dt
	for s.every > 0 && s.elapsed >= s.every {
		s.elapsed -= s.every
		interval := s.every.Milliseconds()
		for _, p := range s.world.Players() {
			if !p.IsRemoved() {
				p.OnThink(interval)
			}
		}
	}
	s.world.ProcessAttacks()
	s.world.ProcessFollows()
}
