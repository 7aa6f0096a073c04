package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/player"
)

type noGainHooks struct{ player.NopHooks }

func (noGainHooks) OnGainExperience(*player.Player, player.Creature, uint64, uint64) uint64 {
	return 0
}

func TestExpForLevel(t *testing.T) {
	assert.Equal(t, uint64(0), player.ExpForLevel(1))
	assert.Equal(t, uint64(100), player.ExpForLevel(2))
	assert.Equal(t, uint64(4200), player.ExpForLevel(8))
	assert.Equal(t, uint64(6400), player.ExpForLevel(9))
	assert.Equal(t, uint64(9300), player.ExpForLevel(10))
}

func TestPlayer_AddExperience_LevelUpRefillsVitals(t *testing.T) {
	_, p, c := newPlayer(t)
	p.ChangeHealth(-100)
	p.ChangeMana(-50)

	p.AddExperience(nil, 5300, true)

	assert.Equal(t, uint32(10), p.Level())
	assert.Equal(t, uint64(9500), p.Experience())
	assert.Equal(t, int32(215), p.MaxHealth())
	assert.Equal(t, p.MaxHealth(), p.Health())
	assert.Equal(t, int32(100), p.MaxMana())
	assert.Equal(t, p.MaxMana(), p.Mana())
	assert.Equal(t, uint32(52000), p.Capacity())
	assert.InDelta(t, 5.4, p.LevelPercent(), 0.001)
	assert.Contains(t, c.Texts(player.MessageEvent), "You advanced from Level 8 to Level 10.")
	assert.Contains(t, c.Texts(player.MessageExperience), "You gained 5300 experience points.")
	require.NotEmpty(t, c.Tracker)
	assert.Equal(t, [2]int64{5300, 5300}, c.Tracker[len(c.Tracker)-1])
}

func TestPlayer_AddExperience_HookCancels(t *testing.T) {
	w, p, c := newPlayer(t)
	w.Env.Hooks = noGainHooks{}

	p.AddExperience(nil, 5300, true)

	assert.Equal(t, uint32(8), p.Level())
	assert.Equal(t, player.ExpForLevel(8), p.Experience())
	assert.Empty(t, c.Texts(player.MessageExperience))
}

func TestPlayer_RemoveExperience_LevelsDown(t *testing.T) {
	_, p, c := newPlayer(t)

	p.RemoveExperience(1, false)

	assert.Equal(t, uint32(7), p.Level())
	assert.Equal(t, uint64(4199), p.Experience())
	assert.Equal(t, int32(180), p.MaxHealth())
	assert.Equal(t, int32(85), p.MaxMana())
	assert.LessOrEqual(t, p.Health(), p.MaxHealth())
	assert.Contains(t, c.Texts(player.MessageEvent), "You were downgraded from Level 8 to Level 7.")
}

func TestPlayer_AddSkillAdvance(t *testing.T) {
	_, p, _ := newPlayer(t)
	require.Equal(t, uint16(10), p.SkillLevel(data.SkillSword))
	need := p.Vocation().ReqSkillTries(data.SkillSword, 11)

	p.AddSkillAdvance(data.SkillSword, need-1)
	assert.Equal(t, uint16(10), p.SkillLevel(data.SkillSword))

	p.AddSkillAdvance(data.SkillSword, 1)
	assert.Equal(t, uint16(11), p.SkillLevel(data.SkillSword))
}

func TestPlayer_AddSkillAdvance_SeveralLevels(t *testing.T) {
	_, p, _ := newPlayer(t)
	v := p.Vocation()
	tries := v.ReqSkillTries(data.SkillAxe, 11) + v.ReqSkillTries(data.SkillAxe, 12) + 1

	p.AddSkillAdvance(data.SkillAxe, tries)

	assert.Equal(t, uint16(12), p.SkillLevel(data.SkillAxe))
}

func TestPercentLevel_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		next := rapid.Uint64Range(1, 1<<40).Draw(t, "next")
		count := rapid.Uint64Range(0, 1<<41).Draw(t, "count")

		got := player.PercentLevel(count, next)

		if got < 0 || got > 100 {
			t.Fatalf("PercentLevel(%d, %d) = %v", count, next, got)
		}
	})
}
