package world

import (
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// InternalRemoveItem takes count units of id out of whatever holds it. A
// negative count removes the whole item. Fully removed items are released
// from the arena.
func (s *State) InternalRemoveItem(id item.ID, count int32) item.ReturnValue {
	it := s.items.Get(id)
	if it == nil {
		return item.RetNotPossible
	}
	have := uint32(it.StackCount())
	n := have
	if count >= 0 {
		if count == 0 || uint32(count) > have {
			return item.RetNotPossible
		}
		n = uint32(count)
	}
	partial := it.IsStackable() && n < have

	parent := it.Parent()
	switch parent.Kind {
	case item.ParentPlayer:
		if p := s.players[parent.Player]; p != nil {
			index := p.ThingIndex(id)
			p.RemoveThing(it, n)
			p.PostRemoveNotification(it, item.Parent{}, index, player.LinkOwner)
		} else if partial {
			it.Count -= uint16(n)
		}
	case item.ParentContainer:
		s.removeFromContainer(it, parent.Item, n, partial)
	case item.ParentTile:
		if partial {
			it.Count -= uint16(n)
		}
		for _, p := range s.spectatorPlayers(parent.Pos) {
			if partial {
				p.OnUpdateTileItem(id, id)
			} else {
				p.OnRemoveTileItem(id)
			}
		}
	default:
		if partial {
			it.Count -= uint16(n)
		}
	}

	if !partial {
		s.items.Release(id)
	}
	return item.RetNoError
}

func (s *State) removeFromContainer(it *item.Item, container item.ID, n uint32, partial bool) {
	c := s.items.Get(container)
	if c == nil {
		return
	}
	id := it.ID()
	index := c.IndexOf(id)
	holder, held := s.items.HoldingPlayer(id)

	if partial {
		it.Count -= uint16(n)
		for _, p := range s.players {
			p.SendUpdateContainerItem(container, uint16(index), id)
			p.OnUpdateContainerItem(container, id, id)
		}
	} else {
		s.items.Detach(id)
		for _, p := range s.players {
			p.SendRemoveContainerItem(container, uint16(max(index, 0)))
			p.OnRemoveContainerItem(container, id)
		}
	}
	if held {
		if p := s.players[holder]; p != nil {
			p.PostRemoveNotification(it, item.Parent{}, index, player.LinkTopParent)
		}
	}
}

// InternalRemoveItems removes amount units spread over ids, front first.
// Non-stackable items are removed whole.
func (s *State) InternalRemoveItems(ids []item.ID, amount uint32, stackable bool) {
	if !stackable {
		for _, id := range ids {
			s.InternalRemoveItem(id, -1)
		}
		return
	}
	for _, id := range ids {
		it := s.items.Get(id)
		if it == nil {
			continue
		}
		have := uint32(it.StackCount())
		if have > amount {
			s.InternalRemoveItem(id, int32(amount))
			return
		}
		amount -= have
		s.InternalRemoveItem(id, -1)
		if amount == 0 {
			return
		}
	}
}

// TransformItem changes id into typeID with charges left. Charged items
// that run out are removed and 0 is returned. A new type replaces the item
// in place and its id is returned.
func (s *State) TransformItem(id item.ID, typeID uint16, charges int32) item.ID {
	it := s.items.Get(id)
	if it == nil {
		return 0
	}
	if it.HasCharges() && charges <= 0 {
		s.InternalRemoveItem(id, -1)
		return 0
	}

	if typeID == it.TypeID() {
		if charges >= 0 {
			it.Charges = uint32(charges)
		}
		s.notifyItemUpdate(it, it)
		return id
	}

	repl := s.items.Create(typeID, it.Count)
	if repl == nil {
		return id
	}
	if charges > 0 {
		repl.Charges = uint32(charges)
	}
	repl.Imbuements = it.Imbuements

	parent := it.Parent()
	switch parent.Kind {
	case item.ParentPlayer:
		if p := s.players[parent.Player]; p != nil {
			index := p.ThingIndex(id)
			if index < 0 {
				s.items.Release(repl.ID())
				return id
			}
			p.ReplaceThing(index, repl)
		} else {
			s.items.SetParent(repl.ID(), parent)
		}
	case item.ParentContainer:
		c := s.items.Get(parent.Item)
		if c == nil {
			s.items.Release(repl.ID())
			return id
		}
		s.items.Replace(parent.Item, c.IndexOf(id), repl.ID())
		s.notifyItemUpdate(it, repl)
	default:
		s.items.SetParent(repl.ID(), parent)
	}
	s.items.Release(id)
	return repl.ID()
}

// notifyItemUpdate tells the windows showing the container of newItem that
// oldItem became newItem.
func (s *State) notifyItemUpdate(oldItem, newItem *item.Item) {
	parent := newItem.Parent()
	switch parent.Kind {
	case item.ParentPlayer:
		if p := s.players[parent.Player]; p != nil {
			p.Client().SendInventoryItem(player.Slot(parent.Slot), newItem.ID())
		}
	case item.ParentContainer:
		c := s.items.Get(parent.Item)
		if c == nil {
			return
		}
		index := uint16(max(c.IndexOf(newItem.ID()), 0))
		for _, p := range s.players {
			p.SendUpdateContainerItem(parent.Item, index, newItem.ID())
			p.OnUpdateContainerItem(parent.Item, oldItem.ID(), newItem.ID())
		}
	}
}
