package player

import (
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

// Slot is an equipment position. Slot indexes double as cylinder indexes:
// 0 asks the player to choose a destination.
type Slot uint8

const (
	SlotWherever Slot = iota
	SlotHead
	SlotNecklace
	SlotBackpack
	SlotArmor
	SlotRight
	SlotLeft
	SlotLegs
	SlotFeet
	SlotRing
	SlotAmmo
	SlotStoreInbox

	SlotFirst = SlotHead
	SlotLast  = SlotAmmo
	slotCount = SlotStoreInbox + 1
)

var slotNames = [slotCount]string{
	"wherever", "head", "necklace", "backpack", "armor", "right hand",
	"left hand", "legs", "feet", "ring", "ammo", "store inbox",
}

func (s Slot) String() string {
	if s < slotCount {
		return slotNames[s]
	}
	return "invalid"
}

// accepts maps a slot to the slot-position bit an item needs to be worn
// there.
func (s Slot) accepts() data.SlotPosition {
	switch s {
	case SlotHead:
		return data.SlotPosHead
	case SlotNecklace:
		return data.SlotPosNecklace
	case SlotBackpack:
		return data.SlotPosBackpack
	case SlotArmor:
		return data.SlotPosArmor
	case SlotRight:
		return data.SlotPosRight
	case SlotLeft:
		return data.SlotPosLeft
	case SlotLegs:
		return data.SlotPosLegs
	case SlotFeet:
		return data.SlotPosFeet
	case SlotRing:
		return data.SlotPosRing
	case SlotAmmo:
		return data.SlotPosAmmo
	}
	return 0
}

// InventoryItem returns the item worn in slot, or nil.
func (p *Player) InventoryItem(slot Slot) *item.Item {
	if slot < SlotFirst || slot >= slotCount {
		return nil
	}
	return p.env.Items.Get(p.inventory[slot])
}

// InventoryWeight is the carried weight in oz*100.
func (p *Player) InventoryWeight() uint32 { return p.inventoryWeight }

func (p *Player) updateInventoryWeight() {
	if p.hasFlag(FlagHasInfiniteCapacity) {
		return
	}
	var w uint32
	for s := SlotFirst; s <= SlotLast; s++ {
		if id := p.inventory[s]; id != 0 {
			w += p.env.Items.Weight(id)
		}
	}
	p.inventoryWeight = w
}

// FreeCapacity is the weight the player can still pick up.
func (p *Player) FreeCapacity() uint32 {
	switch {
	case p.hasFlag(FlagCannotPickup):
		return 0
	case p.hasFlag(FlagHasInfiniteCapacity):
		return ^uint32(0)
	}
	total := p.capacity + p.bonusCapacity
	if total <= p.inventoryWeight {
		return 0
	}
	return total - p.inventoryWeight
}

// HasCapacity reports whether count units of it fit the free capacity.
// Items already carried by the player always fit.
func (p *Player) HasCapacity(it *item.Item, count uint32) bool {
	if p.hasFlag(FlagCannotPickup) {
		return false
	}
	if p.hasFlag(FlagHasInfiniteCapacity) || p.holds(it.ID()) {
		return true
	}
	var weight uint32
	if it.IsContainer() {
		weight = p.env.Items.Weight(it.ID())
	} else {
		weight = it.Type().Weight
		if it.IsStackable() {
			weight *= count
		}
	}
	return weight <= p.FreeCapacity()
}

// holds reports whether id is equipped or carried inside equipment.
func (p *Player) holds(id item.ID) bool {
	guid, ok := p.env.Items.HoldingPlayer(id)
	return ok && guid == p.guid
}

func (p *Player) sendInventoryItems() {
	for s := SlotFirst; s < slotCount; s++ {
		p.client.SendInventoryItem(s, p.inventory[s])
	}
}

// FreeBackpackSlots counts the empty positions of the backpack and every
// container nested in it.
func (p *Player) FreeBackpackSlots() uint32 {
	bp := p.InventoryItem(SlotBackpack)
	if bp == nil || !bp.IsContainer() {
		return 0
	}
	free := uint32(max(bp.Capacity()-bp.Len(), 0))
	p.env.Items.Walk(bp.ID(), func(it *item.Item) bool {
		if it.IsContainer() {
			free += uint32(max(it.Capacity()-it.Len(), 0))
		}
		return true
	})
	return free
}
