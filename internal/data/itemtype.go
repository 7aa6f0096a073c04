package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemType is the static template every item instance points at.
type ItemType struct {
	ID       uint16
	ClientID uint16
	Name     string
	Kind     ItemKind

	Weight       uint32 // oz*100, per unit
	SlotPosition SlotPosition
	WeaponType   WeaponType
	AmmoType     AmmoType

	Attack       int32
	Defense      int32
	ExtraDefense int32
	Armor        int32

	Stackable  bool
	Pickupable bool
	Moveable   bool

	Capacity       uint32 // container slots
	Charges        uint32
	ImbuementSlots uint8
	Speed          int32
	Light          uint8
	LightColor     uint8

	Absorb      [CombatCount]int16
	FieldAbsorb [CombatCount]int16
	SkillBonus  [SkillCount]int32
}

func (t *ItemType) IsContainer() bool {
	switch t.Kind {
	case KindContainer, KindQuiver, KindDepotLocker, KindDepotChest, KindInbox,
		KindRewardChest, KindRewardBag:
		return true
	}
	return false
}

func (t *ItemType) IsTwoHanded() bool { return t.SlotPosition&SlotPosTwoHand != 0 }
func (t *ItemType) IsQuiver() bool    { return t.Kind == KindQuiver }
func (t *ItemType) IsSpellBook() bool { return t.Kind == KindSpellbook }

// HasAbilities reports whether equipping the item changes combat stats
// beyond attack, defense and armor.
func (t *ItemType) HasAbilities() bool {
	for i := range t.Absorb {
		if t.Absorb[i] != 0 || t.FieldAbsorb[i] != 0 {
			return true
		}
	}
	for _, b := range t.SkillBonus {
		if b != 0 {
			return true
		}
	}
	return t.Speed != 0
}

type ItemTypeTable struct {
	items map[uint16]*ItemType
}

// Get returns an item type by id, or nil if not found.
func (t *ItemTypeTable) Get(id uint16) *ItemType {
	return t.items[id]
}

func (t *ItemTypeTable) Count() int {
	return len(t.items)
}

type itemTypeEntry struct {
	ID             uint16           `yaml:"id"`
	ClientID       uint16           `yaml:"client_id"`
	Name           string           `yaml:"name"`
	Kind           string           `yaml:"kind"`
	Weight         uint32           `yaml:"weight"`
	Slots          []string         `yaml:"slots"`
	Weapon         string           `yaml:"weapon"`
	Ammo           string           `yaml:"ammo"`
	Attack         int32            `yaml:"attack"`
	Defense        int32            `yaml:"defense"`
	ExtraDefense   int32            `yaml:"extra_defense"`
	Armor          int32            `yaml:"armor"`
	Stackable      bool             `yaml:"stackable"`
	Pickupable     *bool            `yaml:"pickupable"`
	Moveable       *bool            `yaml:"moveable"`
	Capacity       uint32           `yaml:"capacity"`
	Charges        uint32           `yaml:"charges"`
	ImbuementSlots uint8            `yaml:"imbuement_slots"`
	Speed          int32            `yaml:"speed"`
	Light          uint8            `yaml:"light"`
	LightColor     uint8            `yaml:"light_color"`
	Absorb         map[string]int16 `yaml:"absorb"`
	FieldAbsorb    map[string]int16 `yaml:"field_absorb"`
	Skills         map[string]int32 `yaml:"skills"`
}

type itemTypeListFile struct {
	Items []itemTypeEntry `yaml:"items"`
}

func LoadItemTypeTable(path string) (*ItemTypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item types: %w", err)
	}
	var f itemTypeListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse item types: %w", err)
	}
	t := &ItemTypeTable{items: make(map[uint16]*ItemType, len(f.Items))}
	for i := range f.Items {
		it, err := f.Items[i].build()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", f.Items[i].ID, err)
		}
		t.items[it.ID] = it
	}
	return t, nil
}

func (e *itemTypeEntry) build() (*ItemType, error) {
	it := &ItemType{
		ID:             e.ID,
		ClientID:       e.ClientID,
		Name:           e.Name,
		Weight:         e.Weight,
		Attack:         e.Attack,
		Defense:        e.Defense,
		ExtraDefense:   e.ExtraDefense,
		Armor:          e.Armor,
		Stackable:      e.Stackable,
		Pickupable:     e.Pickupable == nil || *e.Pickupable,
		Moveable:       e.Moveable == nil || *e.Moveable,
		Capacity:       e.Capacity,
		Charges:        e.Charges,
		ImbuementSlots: e.ImbuementSlots,
		Speed:          e.Speed,
		Light:          e.Light,
		LightColor:     e.LightColor,
	}
	if it.ClientID == 0 {
		it.ClientID = it.ID
	}
	var err error
	if it.Kind, err = lookup(kindKeys, e.Kind, "kind"); err != nil {
		return nil, err
	}
	// every item can be held in a hand; slots add positions on top
	it.SlotPosition = SlotPosHand
	for _, s := range e.Slots {
		pos, err := lookup(slotPosKeys, s, "slot")
		if err != nil {
			return nil, err
		}
		it.SlotPosition |= pos
	}
	if e.Weapon != "" {
		if it.WeaponType, err = lookup(weaponKeys, e.Weapon, "weapon type"); err != nil {
			return nil, err
		}
	}
	if e.Ammo != "" {
		if it.AmmoType, err = lookup(ammoKeys, e.Ammo, "ammo type"); err != nil {
			return nil, err
		}
	}
	for k, v := range e.Absorb {
		ct, err := lookup(combatKeys, k, "combat type")
		if err != nil {
			return nil, err
		}
		it.Absorb[ct] = v
	}
	for k, v := range e.FieldAbsorb {
		ct, err := lookup(combatKeys, k, "combat type")
		if err != nil {
			return nil, err
		}
		it.FieldAbsorb[ct] = v
	}
	for k, v := range e.Skills {
		sk, err := lookup(skillKeys, k, "skill")
		if err != nil {
			return nil, err
		}
		it.SkillBonus[sk] = v
	}
	if it.IsContainer() && it.Capacity == 0 {
		return nil, fmt.Errorf("container %q without capacity", it.Name)
	}
	return it, nil
}
