package player_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

func TestPlayer_OnThink_IdleWarningThenKick(t *testing.T) {
	_, p, c := newPlayer(t)

	for range 15 * 60 {
		p.OnThink(1000)
	}
	warnings := c.Texts(player.MessageWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no variation in your behaviour for 15 minutes")
	assert.Zero(t, c.Logouts)

	for range 61 {
		p.OnThink(1000)
	}
	assert.Equal(t, 1, c.Logouts)
}

func TestPlayer_OnThink_ActionResetsIdle(t *testing.T) {
	_, p, c := newPlayer(t)

	for range 15 * 60 {
		p.OnThink(1000)
		p.ResetIdleTime()
	}

	assert.Empty(t, c.Texts(player.MessageWarning))
	assert.Zero(t, p.IdleTime())
}

func TestPlayer_OnThink_NoLogoutTileNeverIdles(t *testing.T) {
	w, p, _ := newPlayer(t)
	w.Game.SetTile(home, player.TileNoLogout)

	p.OnThink(1000)

	assert.Zero(t, p.IdleTime())
}

func TestPlayer_OnThink_PingsAndTimesOut(t *testing.T) {
	w, p, c := newPlayer(t)

	w.Advance(5 * time.Second)
	p.OnThink(1000)
	assert.Equal(t, 1, c.Pings)

	w.Advance(30 * time.Second)
	p.ReceivePong()
	p.OnThink(1000)
	assert.Zero(t, c.Logouts)

	w.Advance(60 * time.Second)
	p.OnThink(1000)
	assert.Equal(t, 1, c.Logouts)
}

func TestPlayer_CanLogout(t *testing.T) {
	w, p, _ := newPlayer(t)
	assert.True(t, p.CanLogout())

	p.AddCondition(condition.New(condition.InFight, condition.IDDefault, 60000, 0))
	assert.False(t, p.CanLogout())

	w.Game.SetTile(home, player.TileProtectionZone)
	assert.True(t, p.CanLogout())

	w.Game.SetTile(home, player.TileNoLogout)
	assert.False(t, p.CanLogout())
}

func TestPlayer_CanLogout_WhileConnecting(t *testing.T) {
	w := playertest.NewWorld(t)
	p, _ := w.NewPlayer(playertest.Snapshot(1, "Tester", home))

	assert.False(t, p.CanLogout())
}

func TestPlayer_CanWalkthrough(t *testing.T) {
	w, p, _ := newPlayer(t)
	summon := &playertest.Creature{ID: 900, Type: player.KindMonster, Pos: home, Owner: p}
	wild := &playertest.Creature{ID: 901, Type: player.KindMonster, Pos: home}
	npc := &playertest.Creature{ID: 902, Type: player.KindNPC, Pos: home}

	assert.True(t, p.CanWalkthrough(summon))
	assert.False(t, p.CanWalkthrough(wild))
	assert.False(t, p.CanWalkthrough(npc))

	w.Game.SetTile(home, 0).House = 12
	assert.True(t, p.CanWalkthrough(npc))
}

func TestPlayer_CanWalkthrough_PlayerNeedsTwoAttempts(t *testing.T) {
	w, p, _ := newPlayer(t)
	spot := home
	spot.X++
	other, _ := w.NewPlayer(playertest.Snapshot(2, "Blocker", spot))
	other.OnLogin()
	w.Game.SetTile(spot, player.TileProtectionZone).WalkStack = true

	assert.False(t, p.CanWalkthrough(other), "first bump")
	assert.False(t, p.CanWalkthrough(other), "position recorded")
	assert.True(t, p.CanWalkthrough(other))

	w.Advance(3 * time.Second)
	assert.False(t, p.CanWalkthrough(other), "window expired")
}
