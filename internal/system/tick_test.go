package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/playerd/internal/core/event"
	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/system"
)

func TestThinkSystem_Update_ThinksOncePerInterval(t *testing.T) {
	f := newFixture(t)
	_, c := f.enter(t, 1, "Alice", pos(150, 150))
	sys := system.NewThinkSystem(f.State, time.Second)

	before := c.Pings

	f.Clock.Advance(5 * time.Second)
	sys.Update(500 * time.Millisecond)
	assert.Equal(t, before, c.Pings)

	sys.Update(500 * time.Millisecond)
	assert.Equal(t, before+1, c.Pings)
}

func TestThinkSystem_Update_CatchesUpMissedIntervals(t *testing.T) {
	f := newFixture(t)
	p, _ := f.enter(t, 1, "Alice", pos(150, 150))
	sys := system.NewThinkSystem(f.State, time.Second)

	sys.Update(3 * time.Second)

	assert.Equal(t, int64(3000), p.IdleTime())
}

func TestSchedulerSystem_Update_RunsDueTasks(t *testing.T) {
	f := newFixture(t)
	ran := 0
	f.Env.Sched.AddEvent(0, func() { ran++ })
	f.Env.Sched.AddEvent(time.Minute, func() { ran++ })
	sys := system.NewSchedulerSystem(f.Env.Sched)

	sys.Update(50 * time.Millisecond)

	assert.Equal(t, 1, ran)
	assert.Equal(t, coresys.PhaseUpdate, sys.Phase())
}

func TestEventSystem_Update_DeliversPreviousTick(t *testing.T) {
	bus := event.NewBus()
	var got []string
	event.Subscribe(bus, func(ev event.PlayerLoggedIn) { got = append(got, ev.Name) })
	sys := system.NewEventSystem(bus)

	event.Emit(bus, event.PlayerLoggedIn{PlayerID: 1, Name: "Alice"})
	sys.Update(0)
	assert.Equal(t, []string{"Alice"}, got)

	sys.Update(0)
	assert.Equal(t, []string{"Alice"}, got)
}
