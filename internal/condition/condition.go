// Package condition models timed effects attached to a player.
package condition

// Type is a bitmask so a Set can report all active types at once.
type Type uint64

const (
	None                Type = 0
	Poison              Type = 1 << 0
	Fire                Type = 1 << 1
	Energy              Type = 1 << 2
	Bleeding            Type = 1 << 3
	Haste               Type = 1 << 4
	Paralyze            Type = 1 << 5
	Outfit              Type = 1 << 6
	Invisible           Type = 1 << 7
	Light               Type = 1 << 8
	ManaShield          Type = 1 << 9
	InFight             Type = 1 << 10
	Drunk               Type = 1 << 11
	ExhaustWeapon       Type = 1 << 12
	Regeneration        Type = 1 << 13
	Soul                Type = 1 << 14
	Drown               Type = 1 << 15
	Muted               Type = 1 << 16
	ChannelMutedTicks   Type = 1 << 17
	YellTicks           Type = 1 << 18
	Attributes          Type = 1 << 19
	Freezing            Type = 1 << 20
	Dazzled             Type = 1 << 21
	Cursed              Type = 1 << 22
	ExhaustCombat       Type = 1 << 23
	ExhaustHeal         Type = 1 << 24
	Pacified            Type = 1 << 25
	SpellCooldown       Type = 1 << 26
	SpellGroupCooldown  Type = 1 << 27
	Rooted              Type = 1 << 28
	SpecialPotionEffect Type = 1 << 29
)

// ID says where a condition came from: a spell or effect (Default), combat
// (Combat), or the equipment slot whose item granted it (1..10).
type ID int8

const (
	IDDefault ID = -1
	IDCombat  ID = 0
)

// Client status icons.
const (
	IconPoison     uint32 = 1 << 0
	IconBurn       uint32 = 1 << 1
	IconEnergy     uint32 = 1 << 2
	IconDrunk      uint32 = 1 << 3
	IconManaShield uint32 = 1 << 4
	IconParalyze   uint32 = 1 << 5
	IconHaste      uint32 = 1 << 6
	IconSwords     uint32 = 1 << 7
	IconDrowning   uint32 = 1 << 8
	IconFreezing   uint32 = 1 << 9
	IconDazzled    uint32 = 1 << 10
	IconCursed     uint32 = 1 << 11
	IconPartyBuff  uint32 = 1 << 12
	IconRedSwords  uint32 = 1 << 13
	IconPigeon     uint32 = 1 << 14
	IconBleeding   uint32 = 1 << 15
	IconRooted     uint32 = 1 << 16
)

var typeIcons = map[Type]uint32{
	Poison:     IconPoison,
	Fire:       IconBurn,
	Energy:     IconEnergy,
	Bleeding:   IconBleeding,
	Haste:      IconHaste,
	Paralyze:   IconParalyze,
	ManaShield: IconManaShield,
	InFight:    IconSwords,
	Drunk:      IconDrunk,
	Drown:      IconDrowning,
	Freezing:   IconFreezing,
	Dazzled:    IconDazzled,
	Cursed:     IconCursed,
	Rooted:     IconRooted,
}

// Param keys carried by some conditions.
type Param uint8

const (
	ParamHealthGain Param = iota + 1
	ParamHealthTicks
	ParamManaGain
	ParamManaTicks
	ParamSpeed
	ParamLookType
	ParamPercent
)

// Infinite marks a condition that never ticks down.
const Infinite int32 = -1

type Condition struct {
	Type   Type
	ID     ID
	SubID  uint32
	Ticks  int32 // ms left, or Infinite
	Params map[Param]int32
}

func New(t Type, id ID, ticks int32, subID uint32) *Condition {
	return &Condition{Type: t, ID: id, Ticks: ticks, SubID: subID}
}

func (c *Condition) Icons() uint32 { return typeIcons[c.Type] }

// IsPersistent reports whether the condition is saved with the player and
// ended on death. Item-granted and infinite conditions are not.
func (c *Condition) IsPersistent() bool {
	if c.Ticks == Infinite {
		return false
	}
	return c.ID == IDDefault || c.ID == IDCombat || c.Type == Muted
}

func (c *Condition) Param(p Param) int32 { return c.Params[p] }

func (c *Condition) SetParam(p Param, v int32) {
	if c.Params == nil {
		c.Params = make(map[Param]int32, 2)
	}
	c.Params[p] = v
}

func (c *Condition) matches(t Type, id ID, subID uint32) bool {
	return c.Type == t && c.ID == id && c.SubID == subID
}

// IsMute reports whether the condition blocks some form of talking.
func (c *Condition) IsMute() bool {
	return c.Type == Muted || c.Type == ChannelMutedTicks || c.Type == YellTicks
}
