package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

func TestPlayer_LostPercent(t *testing.T) {
	tests := []struct {
		name      string
		percent   int
		blessings []int
		want      float64
	}{
		{name: "formula without blessings", percent: -1, want: 0.05},
		{name: "formula with three blessings", percent: -1, blessings: []int{2, 3, 4}, want: 0.05 * 0.76},
		{name: "twist of fate does not count", percent: -1, blessings: []int{1}, want: 0.05},
		{name: "configured percent", percent: 10, blessings: []int{2, 5}, want: 0.08},
		{name: "configured percent floors at zero", percent: 3, blessings: []int{2, 3, 4, 5}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := playertest.NewWorld(t, func(c *config.Config) { c.Death.LosePercent = tt.percent })
			p, _ := w.NewPlayer(playertest.Snapshot(1, "Tester", home))
			p.OnLogin()
			for _, n := range tt.blessings {
				p.AddBlessing(n, 1)
			}

			assert.InDelta(t, tt.want, p.LostPercent(), 1e-9)
		})
	}
}

func TestPlayer_LostPercent_Bounds(t *testing.T) {
	w := playertest.NewWorld(t)
	rapid.Check(t, func(t *rapid.T) {
		snap := playertest.Snapshot(1, "Tester", home)
		snap.Level = rapid.Uint32Range(1, 500).Draw(t, "level")
		snap.Experience = player.ExpForLevel(snap.Level)
		p := player.New(w.Env, 1, snap)
		for n := 1; n <= 8; n++ {
			if rapid.Bool().Draw(t, "blessed") {
				p.AddBlessing(n, 1)
			}
		}

		got := p.LostPercent()

		if got < 0 || got > 1 {
			t.Fatalf("LostPercent at level %d = %v", snap.Level, got)
		}
	})
}

func TestPlayer_Death_PvE(t *testing.T) {
	_, p, c := newPlayer(t)
	for n := 1; n <= 8; n++ {
		p.AddBlessing(n, 1)
	}
	loss := p.LostPercent()
	wantExp := player.ExpForLevel(8) - uint64(float64(player.ExpForLevel(8))*loss)
	p.ChangeHealth(-p.Health())

	p.Death(nil)

	assert.Equal(t, wantExp, p.Experience())
	assert.Equal(t, uint32(7), p.Level())
	assert.Equal(t, p.MaxHealth(), p.Health())
	assert.Equal(t, p.MaxMana(), p.Mana())
	assert.Equal(t, uint8(1), p.BlessingCount(1), "twist of fate only protects pvp deaths")
	for n := 2; n <= 8; n++ {
		assert.Zero(t, p.BlessingCount(n), "blessing %d", n)
	}
	assert.Equal(t, []uint8{100}, c.ReLogins)
	assert.Equal(t, p.TemplePosition(), p.LoginPosition())
}

func TestPlayer_Death_PvPKeepsBlessings(t *testing.T) {
	w, p, c := newPlayer(t)
	killer, _ := w.NewPlayer(playertest.Snapshot(2, "Killer", home))
	killer.OnLogin()
	for n := 1; n <= 8; n++ {
		p.AddBlessing(n, 1)
	}
	p.AddDamagePoints(killer, 200)

	p.Death(killer)

	assert.Zero(t, p.BlessingCount(1))
	for n := 2; n <= 8; n++ {
		assert.Equal(t, uint8(1), p.BlessingCount(n), "blessing %d", n)
	}
	require.Len(t, c.ReLogins, 1)
}

func TestPlayer_Death_UnfairFightReduction(t *testing.T) {
	w, p, c := newPlayer(t)
	for i, lvl := range []uint32{30, 30} {
		snap := playertest.Snapshot(uint32(10+i), "Hunter", home)
		snap.Level = lvl
		snap.Experience = player.ExpForLevel(lvl)
		killer, _ := w.NewPlayer(snap)
		p.AddDamagePoints(killer, 100)
	}

	p.Death(nil)

	// 8 of 60 attacker levels is below the 20% floor
	assert.Equal(t, []uint8{20}, c.ReLogins)
}

func TestPlayer_Death_WithoutSkillLoss(t *testing.T) {
	w, p, _ := newPlayer(t)
	p.AddBlessing(2, 1)
	p.SetSkillLoss(false)

	p.Death(nil)

	assert.Equal(t, player.ExpForLevel(8), p.Experience())
	assert.Equal(t, uint8(1), p.BlessingCount(2))
	require.NotEmpty(t, w.Game.Teleports)
	assert.Equal(t, p.TemplePosition(), w.Game.Teleports[len(w.Game.Teleports)-1])
	assert.Equal(t, p.TemplePosition(), p.Position())
}

func TestPlayer_OnLogout_KeepsTempleAfterDeath(t *testing.T) {
	_, p, _ := newPlayer(t)

	p.Death(nil)
	p.OnLogout()

	assert.Equal(t, p.TemplePosition(), p.Snapshot().Position)
}

func TestPlayer_OnLogout_SavesCurrentPosition(t *testing.T) {
	_, p, _ := newPlayer(t)
	moved := home
	moved.X += 3
	p.SetPosition(moved)

	p.OnLogout()

	assert.Equal(t, moved, p.Snapshot().Position)
}
