package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

func TestPlayer_OnKilledCreature_RedSkullAfterThreeKills(t *testing.T) {
	w, killer, c := newPlayer(t)
	victim, _ := w.NewPlayer(playertest.Snapshot(2, "Victim", home))
	victim.OnLogin()

	for i := range 3 {
		killer.OnAttackedCreature(victim)
		require.True(t, killer.OnKilledCreature(victim, true), "kill %d", i+1)
	}

	assert.Equal(t, player.SkullRed, killer.Skull())
	assert.Equal(t, int64(w.Cfg.Skulls.RedSkullDuration)*24*60*60*1000, killer.SkullTicks())
	assert.Len(t, killer.UnjustifiedKills(), 3)
	assert.Contains(t, c.Texts(player.MessageEvent), "Warning! The murder of Victim was not justified.")
	require.NotEmpty(t, c.Unjust)
	last := c.Unjust[len(c.Unjust)-1]
	assert.Equal(t, uint8(50), last.DayProgress, "red skull doubles the day limit")
}

func TestPlayer_OnKilledCreature_RevengeIsJustified(t *testing.T) {
	w, p, _ := newPlayer(t)
	attacker, _ := w.NewPlayer(playertest.Snapshot(2, "Attacker", home))
	attacker.OnLogin()

	attacker.OnAttackedCreature(p)
	p.OnAttackedCreature(attacker)

	assert.False(t, p.OnKilledCreature(attacker, true))
	assert.Empty(t, p.UnjustifiedKills())
}

func TestPlayer_SkullClient_OpenPvP(t *testing.T) {
	w, viewer, _ := newPlayer(t)
	attacker, _ := w.NewPlayer(playertest.Snapshot(2, "Attacker", home))
	attacker.OnLogin()
	attacker.SetSkull(player.SkullNone)

	assert.Equal(t, player.SkullNone, viewer.SkullClient(attacker))

	attacker.AddAttacked(viewer)
	assert.Equal(t, player.SkullYellow, viewer.SkullClient(attacker))
}

func TestPlayer_CheckSkullTicks_SecondsPerThink(t *testing.T) {
	_, p, _ := newPlayer(t)
	p.SetSkull(player.SkullRed)
	p.SetSkullTicks(10000)

	p.OnThink(1000)

	assert.Equal(t, int64(9999), p.SkullTicks())
	assert.Equal(t, player.SkullRed, p.Skull())
}

func TestPlayer_CheckSkullTicks_RedSkullExpires(t *testing.T) {
	_, p, _ := newPlayer(t)
	p.SetSkull(player.SkullRed)
	p.SetSkullTicks(2)

	p.OnThink(1000)
	assert.Equal(t, player.SkullRed, p.Skull())

	p.OnThink(1000)
	assert.Equal(t, player.SkullNone, p.Skull())
	assert.Zero(t, p.SkullTicks())
}

func TestPlayer_CheckSkullTicks_EnforcedWorldKeepsTimer(t *testing.T) {
	w := playertest.NewWorld(t, func(c *config.Config) { c.Game.WorldType = config.WorldPvPEnforced })
	p, _ := w.NewPlayer(playertest.Snapshot(1, "Tester", home))
	p.OnLogin()
	p.SetSkullTicks(2000)

	p.OnThink(1000)

	assert.Equal(t, int64(2000), p.SkullTicks())
}

func TestPlayer_AddUnjustifiedDead_AvengedKillsStillCount(t *testing.T) {
	w := playertest.NewWorld(t)
	now := playertest.Epoch.Unix()
	snap := playertest.Snapshot(1, "Killer", home)
	snap.UnjustifiedKills = []player.UnjustifiedKill{
		{Target: 7, Time: now - 3600},
		{Target: 8, Time: now - 4*60*60}, // exactly at the 4h bound
	}
	killer, _ := w.NewPlayer(snap)
	killer.OnLogin()
	victim, _ := w.NewPlayer(playertest.Snapshot(2, "Victim", home))
	victim.OnLogin()

	killer.OnAttackedCreature(victim)
	require.True(t, killer.OnKilledCreature(victim, true))

	assert.Equal(t, player.SkullRed, killer.Skull())
}

func TestPlayer_AddUnjustifiedDead_OldKillsOutsideDayWindow(t *testing.T) {
	w := playertest.NewWorld(t)
	now := playertest.Epoch.Unix()
	snap := playertest.Snapshot(1, "Killer", home)
	snap.UnjustifiedKills = []player.UnjustifiedKill{
		{Target: 7, Time: now - 4*60*60 - 1, Unavenged: true},
		{Target: 8, Time: now - 4*60*60 - 1, Unavenged: true},
	}
	killer, _ := w.NewPlayer(snap)
	killer.OnLogin()
	victim, _ := w.NewPlayer(playertest.Snapshot(2, "Victim", home))
	victim.OnLogin()

	killer.OnAttackedCreature(victim)
	require.True(t, killer.OnKilledCreature(victim, true))

	assert.Equal(t, player.SkullWhite, killer.Skull())
}

func TestPlayer_OnKilledCreature_BlackSkullAtDoubleThreshold(t *testing.T) {
	w, killer, _ := newPlayer(t)
	victim, _ := w.NewPlayer(playertest.Snapshot(2, "Victim", home))
	victim.OnLogin()

	for i := range 6 {
		killer.OnAttackedCreature(victim)
		require.True(t, killer.OnKilledCreature(victim, true), "kill %d", i+1)
		if i == 4 {
			require.Equal(t, player.SkullRed, killer.Skull())
		}
	}

	assert.Equal(t, player.SkullBlack, killer.Skull())
	assert.Equal(t, int64(w.Cfg.Skulls.BlackSkullDuration)*86400*1000, killer.SkullTicks())
}
