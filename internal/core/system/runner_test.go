package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/playerd/internal/core/system"
)

type recordSystem struct {
	name  string
	phase system.Phase
	log   *[]string
}

func (s *recordSystem) Phase() system.Phase  { return s.phase }
func (s *recordSystem) Update(time.Duration) { *s.log = append(*s.log, s.name) }

func TestRunner_Tick_RunsInPhaseOrder(t *testing.T) {
	var got []string
	r := system.NewRunner()
	r.Register(&recordSystem{"persist", system.PhasePersist, &got})
	r.Register(&recordSystem{"input", system.PhaseInput, &got})
	r.Register(&recordSystem{"think", system.PhaseUpdate, &got})
	r.Register(&recordSystem{"sched", system.PhaseUpdate, &got})

	r.Tick(50 * time.Millisecond)

	assert.Equal(t, []string{"input", "think", "sched", "persist"}, got)
	assert.Equal(t, 4, r.Len())
}

func TestRunner_TickPhase_OnlyMatchingPhase(t *testing.T) {
	var got []string
	r := system.NewRunner()
	r.Register(&recordSystem{"input", system.PhaseInput, &got})
	r.Register(&recordSystem{"output", system.PhaseOutput, &got})

	r.TickPhase(system.PhaseInput, 0)

	assert.Equal(t, []string{"input"}, got)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "update", system.PhaseUpdate.String())
	assert.Equal(t, "unknown", system.Phase(42).String())
}
