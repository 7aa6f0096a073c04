package player_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

const (
	leatherBoots     uint16 = 2643
	protectionAmulet uint16 = 2200
)

// swings records every weapon use and answers with hit.
type swings struct {
	hit   bool
	tools []*item.Item
}

func (s *swings) Use(_ *player.Player, tool *item.Item, _ player.Creature) bool {
	s.tools = append(s.tools, tool)
	return s.hit
}

func (s *swings) InterruptsSwing(*item.Item) bool { return false }

func newFighter(t *testing.T, skills map[data.Skill]uint16, opts ...func(*config.Config)) (*playertest.World, *player.Player, *playertest.Client) {
	t.Helper()
	w := playertest.NewWorld(t, opts...)
	snap := playertest.Snapshot(1, "Tester", home)
	for s, lv := range skills {
		snap.Skills[s] = player.SkillState{Level: lv}
	}
	p, c := w.NewPlayer(snap)
	p.OnLogin()
	return w, p, c
}

func TestPlayer_Defense(t *testing.T) {
	trained := map[data.Skill]uint16{data.SkillShield: 40, data.SkillSword: 30}
	tests := []struct {
		name   string
		skills map[data.Skill]uint16
		worn   map[player.Slot]uint16
		mode   player.FightMode
		want   int32
	}{
		{name: "untrained fist attacking", mode: player.FightAttack, want: 1},
		{name: "untrained fist defending", mode: player.FightDefense, want: 2},
		{name: "sword", skills: trained, worn: map[player.Slot]uint16{player.SlotLeft: sword}, mode: player.FightDefense, want: 17},
		{name: "two-handed sword", skills: trained, worn: map[player.Slot]uint16{player.SlotLeft: twoHandSword}, mode: player.FightDefense, want: 39},
		{
			name:   "shield and sword",
			skills: trained,
			worn:   map[player.Slot]uint16{player.SlotLeft: sword, player.SlotRight: steelShield},
			mode:   player.FightDefense,
			want:   38,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, _ := newFighter(t, tt.skills)
			for slot, typeID := range tt.worn {
				equip(t, w, p, slot, typeID, 1)
			}
			p.SetFightMode(tt.mode)

			assert.Equal(t, tt.want, p.Defense())
		})
	}
}

func TestPlayer_Defense_CombatMasteryAddsToShield(t *testing.T) {
	w, p, _ := newFighter(t, map[data.Skill]uint16{data.SkillShield: 40})
	equip(t, w, p, player.SlotLeft, sword, 1)
	equip(t, w, p, player.SlotRight, steelShield, 1)
	p.Wheel().SetInstant(player.InstantCombatMastery, true)
	p.Wheel().SetStage(player.StageCombatMastery, 1)
	fighting(t, p)
	p.OnThink(1000)
	require.Equal(t, int32(10), p.Wheel().Major(player.MajorDefense))

	assert.Equal(t, int32(56), p.Defense())
}

func TestPlayer_DefenseFactor_WhileRecovering(t *testing.T) {
	w, p, _ := newFighter(t, map[data.Skill]uint16{data.SkillShield: 40})
	equip(t, w, p, player.SlotLeft, sword, 1)
	equip(t, w, p, player.SlotRight, steelShield, 1)
	require.Equal(t, 1.0, p.DefenseFactor())

	p.DoAttacking()

	assert.Equal(t, 0.5, p.DefenseFactor())
	assert.Equal(t, int32(19), p.Defense())
	p.SetFightMode(player.FightBalanced)
	assert.Equal(t, 0.75, p.DefenseFactor())
	assert.Equal(t, int32(28), p.Defense())
	p.SetFightMode(player.FightDefense)
	assert.Equal(t, 1.0, p.DefenseFactor())

	w.Advance(2 * time.Second)
	p.SetFightMode(player.FightAttack)
	assert.Equal(t, 1.0, p.DefenseFactor())
}

func TestPlayer_Mitigation(t *testing.T) {
	tests := []struct {
		name       string
		worn       map[player.Slot]uint16
		mode       player.FightMode
		multiplier float64
		want       float64
	}{
		{
			name: "shield attacking",
			worn: map[player.Slot]uint16{player.SlotLeft: sword, player.SlotRight: steelShield},
			mode: player.FightAttack,
			want: 0.98,
		},
		{
			name: "shield defending",
			worn: map[player.Slot]uint16{player.SlotLeft: sword, player.SlotRight: steelShield},
			mode: player.FightDefense,
			want: 1.46,
		},
		{
			name: "bow and quiver",
			worn: map[player.Slot]uint16{player.SlotLeft: bow, player.SlotRight: quiver},
			mode: player.FightAttack,
			want: 0.65,
		},
		{
			name: "two-handed balanced",
			worn: map[player.Slot]uint16{player.SlotLeft: twoHandSword},
			mode: player.FightBalanced,
			want: 1.19,
		},
		{
			name:       "multiplier",
			worn:       map[player.Slot]uint16{player.SlotLeft: sword, player.SlotRight: steelShield},
			mode:       player.FightAttack,
			multiplier: 50,
			want:       1.47,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, _ := newFighter(t, map[data.Skill]uint16{data.SkillShield: 40})
			for slot, typeID := range tt.worn {
				equip(t, w, p, slot, typeID, 1)
			}
			p.SetFightMode(tt.mode)
			p.SetMitigationMultiplier(tt.multiplier)

			assert.InDelta(t, tt.want, p.Mitigation(), 0.0101)
		})
	}
}

func TestPlayer_Mitigation_Untrained(t *testing.T) {
	_, p, _ := newPlayer(t)
	p.SetFightMode(player.FightDefense)

	assert.Zero(t, p.Mitigation())
}

func TestPlayer_BlockHit_ShieldBlocksBeforeArmor(t *testing.T) {
	w, p, _ := newFighter(t, map[data.Skill]uint16{data.SkillShield: 40})
	equip(t, w, p, player.SlotRight, steelShield, 1)
	equip(t, w, p, player.SlotArmor, plateArmor, 1)
	p.SetFightMode(player.FightDefense)

	bt, damage := p.BlockHit(nil, data.CombatPhysical, 10, true, true, false)

	assert.Equal(t, player.BlockDefense, bt)
	assert.Zero(t, damage)
	assert.True(t, p.HasCondition(condition.InFight))
}

func TestPlayer_BlockHit_ArmorBlocks(t *testing.T) {
	w, p, _ := newPlayer(t)
	equip(t, w, p, player.SlotArmor, plateArmor, 1)

	bt, damage := p.BlockHit(nil, data.CombatPhysical, 4, false, true, false)

	assert.Equal(t, player.BlockArmor, bt)
	assert.Zero(t, damage)
}

func TestPlayer_BlockHit_ArmorThenAbsorbThenConditions(t *testing.T) {
	w, p, _ := newPlayer(t)
	equip(t, w, p, player.SlotNecklace, protectionAmulet, 1)
	require.True(t, p.AddCondition(condition.New(condition.SpecialPotionEffect, condition.IDDefault, 60000, uint32(data.CombatPhysical))))
	p.Wheel().SetResistance(data.CombatPhysical, 1000)

	bt, damage := p.BlockHit(nil, data.CombatPhysical, 25, false, true, false)

	// 25 -1 armor, -1 absorb (6% of 24), -2 potion, -3 resistance
	assert.Equal(t, player.BlockNone, bt)
	assert.Equal(t, int64(18), damage)
}

func TestPlayer_BlockHit_AbsorbOnlyMatchingType(t *testing.T) {
	w, p, _ := newPlayer(t)
	equip(t, w, p, player.SlotFeet, leatherBoots, 1)
	equip(t, w, p, player.SlotNecklace, protectionAmulet, 1)

	bt, damage := p.BlockHit(nil, data.CombatFire, 50, false, false, false)

	assert.Equal(t, player.BlockNone, bt)
	assert.Equal(t, int64(50), damage)
}

func TestPlayer_DoAttacking_Cadence(t *testing.T) {
	w, p, _ := newPlayer(t)
	weapons := &swings{hit: true}
	w.Env.Weapons = weapons

	p.DoAttacking()
	require.Len(t, weapons.tools, 1)

	w.Advance(time.Second)
	p.DoAttacking()
	assert.Len(t, weapons.tools, 1, "still recovering")
	assert.Empty(t, w.Game.Attacks)

	w.Advance(time.Second)
	assert.Equal(t, []uint32{p.CreatureID()}, w.Game.Attacks)

	p.DoAttacking()
	assert.Len(t, weapons.tools, 2)
}

func TestPlayer_DoAttacking_ReplacesPendingCheck(t *testing.T) {
	w, p, _ := newPlayer(t)
	w.Env.Weapons = &swings{}

	p.DoAttacking()
	w.Advance(time.Second)
	p.DoAttacking()

	w.Advance(time.Second)
	assert.Empty(t, w.Game.Attacks, "first check was replaced")

	w.Advance(time.Second)
	assert.Equal(t, []uint32{p.CreatureID()}, w.Game.Attacks)
}

func TestPlayer_DoAttacking_ClassicSpeedKeepsEveryCheck(t *testing.T) {
	w, p, _ := newFighter(t, nil, func(cfg *config.Config) { cfg.Game.ClassicAttackSpeed = true })
	w.Env.Weapons = &swings{}

	p.DoAttacking()
	w.Advance(time.Second)
	p.DoAttacking()
	w.Advance(2 * time.Second)

	assert.Len(t, w.Game.Attacks, 2)
}

func TestPlayer_DoAttacking_Pacified(t *testing.T) {
	w, p, _ := newPlayer(t)
	weapons := &swings{hit: true}
	w.Env.Weapons = weapons
	require.True(t, p.AddCondition(condition.New(condition.Pacified, condition.IDDefault, 10000, 0)))

	p.DoAttacking()

	assert.Empty(t, weapons.tools)
}

func TestPlayer_Weapon_ArrowFromQuiver(t *testing.T) {
	w, p, _ := newPlayer(t)
	launcher := equip(t, w, p, player.SlotLeft, bow, 1)
	q := equip(t, w, p, player.SlotRight, quiver, 1)
	bolts := w.Env.Items.Create(bolt, 10)
	require.True(t, w.Env.Items.Insert(q.ID(), bolts.ID(), item.IndexWherever))
	arrows := w.Env.Items.Create(arrow, 20)
	require.True(t, w.Env.Items.Insert(q.ID(), arrows.ID(), item.IndexWherever))

	assert.Equal(t, arrows.ID(), p.Weapon(false).ID())
	assert.Equal(t, launcher.ID(), p.Weapon(true).ID())
	assert.Equal(t, data.WeaponAmmo, p.WeaponType())
}

func TestPlayer_Weapon_EmptyQuiver(t *testing.T) {
	w, p, _ := newPlayer(t)
	equip(t, w, p, player.SlotLeft, bow, 1)
	equip(t, w, p, player.SlotRight, quiver, 1)

	assert.Nil(t, p.Weapon(false))
	assert.NotNil(t, p.Weapon(true))
}

func TestPlayer_DoAttacking_SwingsWithQuiverAmmo(t *testing.T) {
	w, p, _ := newPlayer(t)
	weapons := &swings{hit: true}
	w.Env.Weapons = weapons
	arrows := fillQuiver(t, w, p, bow, arrow, 20)

	p.DoAttacking()

	require.Len(t, weapons.tools, 1)
	assert.Equal(t, arrows.ID(), weapons.tools[0].ID())
}
