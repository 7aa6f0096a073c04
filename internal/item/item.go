// Package item owns every item instance in an arena keyed by stable ids.
//
// Containers hold child ids and each item stores one parent reference, so
// ownership questions (who holds this, what does this contain) are parent
// and child walks instead of shared pointers. Views such as open container
// windows keep ids; a released id simply stops resolving.
package item

import (
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
)

type ID uint32

// Cylinder flags accepted by the query functions.
const (
	FlagNoLimit             uint32 = 1 << 0
	FlagIgnoreBlockItem     uint32 = 1 << 1
	FlagIgnoreBlockCreature uint32 = 1 << 2
	FlagChildIsOwner        uint32 = 1 << 3
	FlagPathfinding         uint32 = 1 << 4
	FlagIgnoreFieldDamage   uint32 = 1 << 5
	FlagIgnoreNotMoveable   uint32 = 1 << 6
	FlagIgnoreAutoStack     uint32 = 1 << 7
)

// IndexWherever asks a cylinder to pick the destination itself.
const IndexWherever = -1

// MaxStack is the largest count a stackable item can hold.
const MaxStack = 100

type ParentKind uint8

const (
	ParentNone ParentKind = iota
	ParentContainer
	ParentPlayer // equipped in a player slot
	ParentTile
	ParentStore // depot, inbox or reward chest owned by a player but not carried
)

type Parent struct {
	Kind   ParentKind
	Item   ID     // ParentContainer
	Player uint32 // ParentPlayer, ParentStore: player guid
	Slot   uint8  // ParentPlayer
	Pos    geo.Position
}

type ImbuementSlot struct {
	ID       uint16
	Duration int32 // seconds left
}

type Item struct {
	id       ID
	typ      *data.ItemType
	parent   Parent
	children []ID

	Count   uint16
	Charges uint32

	// Date is the reward id of reward bags.
	Date int64
	// OpenContainer is the client container id + 1 the item was open under
	// at logout; 0 when it was closed.
	OpenContainer uint8
	// QuickLootFlags is the set of loot categories bound to this container.
	QuickLootFlags uint32
	// Owner is the player guid a depot chest or reward bag belongs to.
	Owner      uint32
	Imbuements []ImbuementSlot
}

func (i *Item) ID() ID                      { return i.id }
func (i *Item) Type() *data.ItemType        { return i.typ }
func (i *Item) TypeID() uint16              { return i.typ.ID }
func (i *Item) Parent() Parent              { return i.parent }
func (i *Item) IsContainer() bool           { return i.typ.IsContainer() }
func (i *Item) IsStackable() bool           { return i.typ.Stackable }
func (i *Item) IsPickupable() bool          { return i.typ.Pickupable }
func (i *Item) IsMoveable() bool            { return i.typ.Moveable }
func (i *Item) IsTwoHanded() bool           { return i.typ.IsTwoHanded() }
func (i *Item) IsQuiver() bool              { return i.typ.IsQuiver() }
func (i *Item) IsSpellBook() bool           { return i.typ.IsSpellBook() }
func (i *Item) WeaponType() data.WeaponType { return i.typ.WeaponType }
func (i *Item) AmmoType() data.AmmoType     { return i.typ.AmmoType }
func (i *Item) SlotPosition() data.SlotPosition {
	return i.typ.SlotPosition
}

// Len is the number of direct children of a container.
func (i *Item) Len() int { return len(i.children) }

// Capacity is the number of direct children a container accepts.
func (i *Item) Capacity() int { return int(i.typ.Capacity) }

// Children returns the direct children ids. The slice must not be modified.
func (i *Item) Children() []ID { return i.children }

// ChildAt returns the child at index, or 0.
func (i *Item) ChildAt(index int) ID {
	if index < 0 || index >= len(i.children) {
		return 0
	}
	return i.children[index]
}

// IndexOf returns the position of child, or -1.
func (i *Item) IndexOf(child ID) int {
	for n, c := range i.children {
		if c == child {
			return n
		}
	}
	return -1
}

// StackCount is the count used for weight and transfer math: Count for
// stackables, 1 for everything else.
func (i *Item) StackCount() uint16 {
	if i.typ.Stackable {
		return i.Count
	}
	return 1
}

// HasCharges reports whether each use consumes a charge.
func (i *Item) HasCharges() bool { return i.typ.Charges != 0 }
