package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/core/event"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/system"
)

func TestPersistenceSystem_Update_SavesDepartures(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	sv, pr := &saver{}, &offline{}
	sys := system.NewPersistenceSystem(f.State, sv, nil, pr, f.Env.Bus, 0, zap.NewNop())
	var out []event.PlayerLoggedOut
	event.Subscribe(f.Env.Bus, func(ev event.PlayerLoggedOut) { out = append(out, ev) })

	require.True(t, f.State.RemoveCreature(alice, true))
	sys.Update(50 * time.Millisecond)

	assert.Equal(t, []uint32{1}, sv.saved)
	assert.Equal(t, []uint32{1}, sv.offline)
	assert.Equal(t, []uint32{1}, pr.guids)
	assert.Empty(t, f.State.TakeDepartures())

	f.Env.Bus.SwapBuffers()
	f.Env.Bus.DispatchAll()
	require.Len(t, out, 1)
	assert.Equal(t, event.PlayerLoggedOut{PlayerID: 1, Name: "Alice", Saved: true}, out[0])
}

func TestPersistenceSystem_Update_ReportsFailedSave(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	sv := &saver{fail: true}
	sys := system.NewPersistenceSystem(f.State, sv, nil, nil, f.Env.Bus, 0, zap.NewNop())
	var out []event.PlayerLoggedOut
	event.Subscribe(f.Env.Bus, func(ev event.PlayerLoggedOut) { out = append(out, ev) })

	f.State.RemoveCreature(alice, true)
	sys.Update(0)
	f.Env.Bus.SwapBuffers()
	f.Env.Bus.DispatchAll()

	require.Len(t, out, 1)
	assert.False(t, out[0].Saved)
	assert.Equal(t, []uint32{1}, sv.offline)
}

func TestPersistenceSystem_Update_AutoSavesOnInterval(t *testing.T) {
	f := newFixture(t)
	f.enter(t, 1, "Alice", pos(150, 150))
	f.enter(t, 2, "Bob", pos(152, 150))
	sv := &saver{}
	sys := system.NewPersistenceSystem(f.State, sv, nil, nil, f.Env.Bus, time.Minute, zap.NewNop())

	sys.Update(30 * time.Second)
	assert.Empty(t, sv.saved)

	sys.Update(30 * time.Second)
	assert.Equal(t, []uint32{1, 2}, sv.saved)

	sys.Update(30 * time.Second)
	assert.Len(t, sv.saved, 2)
}

func TestPersistenceSystem_Update_RecordsDeaths(t *testing.T) {
	f := newFixture(t)
	deaths := &deathLog{}
	sys := system.NewPersistenceSystem(f.State, &saver{}, deaths, nil, f.Env.Bus, 0, zap.NewNop())

	event.Emit(f.Env.Bus, event.PlayerDied{PlayerID: 3, Level: 42, KilledBy: "a dragon", Time: 1700000000, LostExp: 900})
	f.Env.Bus.SwapBuffers()
	f.Env.Bus.DispatchAll()
	sys.Update(0)

	assert.Equal(t, []persist.DeathEntry{{
		PlayerGUID: 3,
		Time:       1700000000,
		Level:      42,
		KilledBy:   "a dragon",
		LostExp:    900,
	}}, deaths.entries)

	sys.Update(0)
	assert.Len(t, deaths.entries, 1)
}

func TestPersistenceSystem_SaveAllPlayers(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	f.enter(t, 2, "Bob", pos(152, 150))
	sv := &saver{}
	sys := system.NewPersistenceSystem(f.State, sv, nil, nil, f.Env.Bus, 0, zap.NewNop())
	f.State.RemoveCreature(alice, true)

	sys.SaveAllPlayers()

	assert.Equal(t, []uint32{1, 2}, sv.saved)
}

var (
	_ system.PlayerSaver   = (*persist.Saver)(nil)
	_ system.DeathRecorder = (*persist.Store)(nil)
)
