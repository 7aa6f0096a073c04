package world

import (
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// Equip moves an item the player carries in a container into slot.
func (s *State) Equip(p *player.Player, id item.ID, slot player.Slot) item.ReturnValue {
	it := s.items.Get(id)
	if it == nil || slot < player.SlotFirst || slot > player.SlotLast {
		return item.RetNotPossible
	}
	parent := it.Parent()
	if parent.Kind != item.ParentContainer {
		return item.RetNotPossible
	}
	if holder, held := s.items.HoldingPlayer(id); !held || holder != p.GUID() {
		return item.RetNotPossible
	}
	if rv := p.QueryAdd(int(slot), it, uint32(it.StackCount()), 0); !rv.OK() {
		return rv
	}

	index := -1
	if c := s.items.Get(parent.Item); c != nil {
		index = c.IndexOf(id)
	}
	s.items.Detach(id)
	p.SendRemoveContainerItem(parent.Item, uint16(max(index, 0)))
	p.AddThing(int(slot), it)
	p.PostAddNotification(it, parent, int(slot), player.LinkOwner)
	return item.RetNoError
}

// Unequip puts the item worn in slot at the front of the backpack.
func (s *State) Unequip(p *player.Player, slot player.Slot) item.ReturnValue {
	it := p.InventoryItem(slot)
	if it == nil {
		return item.RetNotPossible
	}
	bp := p.InventoryItem(player.SlotBackpack)
	if bp == nil || bp.ID() == it.ID() || !bp.IsContainer() {
		return item.RetNotEnoughRoom
	}
	if rv := s.items.QueryAdd(bp.ID(), item.IndexWherever, it, it.StackCount(), 0); !rv.OK() {
		return rv
	}

	p.RemoveThing(it, uint32(it.StackCount()))
	if !s.items.Insert(bp.ID(), it.ID(), 0) {
		p.AddThing(int(slot), it)
		return item.RetNotPossible
	}
	p.SendAddContainerItem(bp.ID(), it.ID())
	p.PostRemoveNotification(it, it.Parent(), int(slot), player.LinkOwner)
	return item.RetNoError
}
