package data

import "fmt"

// Skill indexes the per-skill progression arrays.
type Skill uint8

const (
	SkillFist Skill = iota
	SkillClub
	SkillSword
	SkillAxe
	SkillDistance
	SkillShield
	SkillFishing
	SkillCount
)

var skillNames = [SkillCount]string{
	"fist fighting", "club fighting", "sword fighting", "axe fighting",
	"distance fighting", "shielding", "fishing",
}

func (s Skill) String() string {
	if s < SkillCount {
		return skillNames[s]
	}
	return fmt.Sprintf("skill(%d)", uint8(s))
}

var skillKeys = map[string]Skill{
	"fist": SkillFist, "club": SkillClub, "sword": SkillSword, "axe": SkillAxe,
	"distance": SkillDistance, "shield": SkillShield, "fishing": SkillFishing,
}

// CombatType is the damage element. Absorb tables are indexed by it.
type CombatType uint8

const (
	CombatNone CombatType = iota
	CombatPhysical
	CombatEnergy
	CombatEarth
	CombatFire
	CombatLifeDrain
	CombatManaDrain
	CombatHealing
	CombatDrown
	CombatIce
	CombatHoly
	CombatDeath
	CombatAgony
	CombatCount
)

var combatKeys = map[string]CombatType{
	"physical": CombatPhysical, "energy": CombatEnergy, "earth": CombatEarth,
	"fire": CombatFire, "lifedrain": CombatLifeDrain, "manadrain": CombatManaDrain,
	"healing": CombatHealing, "drown": CombatDrown, "ice": CombatIce,
	"holy": CombatHoly, "death": CombatDeath, "agony": CombatAgony,
}

// CombatTypeFromString parses a YAML combat key. Unknown keys map to CombatNone.
func CombatTypeFromString(s string) CombatType {
	return combatKeys[s]
}

// SlotPosition is a bitmask of the equipment slots an item fits.
type SlotPosition uint32

const (
	SlotPosHead SlotPosition = 1 << iota
	SlotPosNecklace
	SlotPosBackpack
	SlotPosArmor
	SlotPosRight
	SlotPosLeft
	SlotPosLegs
	SlotPosFeet
	SlotPosRing
	SlotPosAmmo
	SlotPosDepot
	SlotPosTwoHand

	SlotPosHand = SlotPosLeft | SlotPosRight
)

var slotPosKeys = map[string]SlotPosition{
	"head": SlotPosHead, "necklace": SlotPosNecklace, "backpack": SlotPosBackpack,
	"armor": SlotPosArmor, "right": SlotPosRight, "left": SlotPosLeft,
	"hand": SlotPosHand, "legs": SlotPosLegs, "feet": SlotPosFeet,
	"ring": SlotPosRing, "ammo": SlotPosAmmo, "depot": SlotPosDepot,
	"two-hand": SlotPosTwoHand | SlotPosHand,
}

type WeaponType uint8

const (
	WeaponNone WeaponType = iota
	WeaponSword
	WeaponClub
	WeaponAxe
	WeaponShield
	WeaponDistance
	WeaponWand
	WeaponAmmo
	WeaponMissile
)

var weaponKeys = map[string]WeaponType{
	"sword": WeaponSword, "club": WeaponClub, "axe": WeaponAxe, "shield": WeaponShield,
	"distance": WeaponDistance, "wand": WeaponWand, "ammo": WeaponAmmo, "missile": WeaponMissile,
}

type AmmoType uint8

const (
	AmmoNone AmmoType = iota
	AmmoBolt
	AmmoArrow
	AmmoSpear
	AmmoThrowingStar
	AmmoThrowingKnife
	AmmoStone
	AmmoSnowball
)

var ammoKeys = map[string]AmmoType{
	"bolt": AmmoBolt, "arrow": AmmoArrow, "spear": AmmoSpear,
	"throwingstar": AmmoThrowingStar, "throwingknife": AmmoThrowingKnife,
	"stone": AmmoStone, "snowball": AmmoSnowball,
}

// ItemKind marks item types that need special container behavior.
type ItemKind uint8

const (
	KindNormal ItemKind = iota
	KindContainer
	KindQuiver
	KindSpellbook
	KindDepotLocker
	KindDepotChest
	KindInbox
	KindMarket
	KindStash
	KindRewardChest
	KindRewardBag
)

var kindKeys = map[string]ItemKind{
	"": KindNormal, "normal": KindNormal, "container": KindContainer, "quiver": KindQuiver,
	"spellbook": KindSpellbook, "depot_locker": KindDepotLocker, "depot_chest": KindDepotChest,
	"inbox": KindInbox, "market": KindMarket, "stash": KindStash,
	"reward_chest": KindRewardChest, "reward_bag": KindRewardBag,
}

func lookup[K comparable, V any](m map[K]V, key K, what string) (V, error) {
	v, ok := m[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("unknown %s %v", what, key)
	}
	return v, nil
}
