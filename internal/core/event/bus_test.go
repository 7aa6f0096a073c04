package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/playerd/internal/core/event"
)

func TestBus_Emit_DeliveredAfterSwap(t *testing.T) {
	bus := event.NewBus()
	var got []event.PlayerAdvanced
	event.Subscribe(bus, func(ev event.PlayerAdvanced) { got = append(got, ev) })

	event.Emit(bus, event.PlayerAdvanced{PlayerID: 1, Skill: "level", OldLevel: 1, NewLevel: 2})
	assert.Equal(t, 1, bus.Pending())

	bus.DispatchAll()
	assert.Empty(t, got, "nothing is delivered before the swap")

	bus.SwapBuffers()
	assert.Equal(t, 0, bus.Pending())
	bus.DispatchAll()
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].NewLevel)
}

func TestBus_DispatchAll_RoutesByType(t *testing.T) {
	bus := event.NewBus()
	var logins, logouts int
	event.Subscribe(bus, func(event.PlayerLoggedIn) { logins++ })
	event.Subscribe(bus, func(event.PlayerLoggedOut) { logouts++ })

	event.Emit(bus, event.PlayerLoggedIn{PlayerID: 7})
	event.Emit(bus, event.PlayerLoggedIn{PlayerID: 8})
	event.Emit(bus, event.PlayerLoggedOut{PlayerID: 7})
	bus.SwapBuffers()
	bus.DispatchAll()

	assert.Equal(t, 2, logins)
	assert.Equal(t, 1, logouts)
}

func TestBus_SwapBuffers_DropsDeliveredEvents(t *testing.T) {
	bus := event.NewBus()
	n := 0
	event.Subscribe(bus, func(event.SaveRequested) { n++ })

	event.Emit(bus, event.SaveRequested{PlayerID: 1})
	bus.SwapBuffers()
	bus.DispatchAll()
	bus.SwapBuffers()
	bus.DispatchAll()

	assert.Equal(t, 1, n)
}
