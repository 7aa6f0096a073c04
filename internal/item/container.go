package item

// Container-local placement rules. Capacity of the carrying player is the
// caller's concern: the player cylinder combines these results with its
// own weight checks.

// QueryAdd checks whether it can be put into container at index.
func (s *Store) QueryAdd(container ID, index int, it *Item, count uint16, flags uint32) ReturnValue {
	c := s.Get(container)
	if c == nil || it == nil || !c.IsContainer() {
		return RetNotPossible
	}
	if flags&FlagChildIsOwner != 0 {
		return RetNoError
	}
	if it.id == container {
		return RetThereIsNoWay
	}
	if it.IsContainer() && s.IsHolding(it.id, container) {
		return RetThereIsNoWay
	}
	if !it.IsPickupable() {
		return RetCannotPickup
	}
	if flags&FlagNoLimit != 0 {
		return RetNoError
	}
	if index == IndexWherever && c.Len() >= c.Capacity() {
		return RetContainerNotEnoughRoom
	}
	if index != IndexWherever && c.Len() >= c.Capacity() {
		dest := s.Get(c.ChildAt(index))
		if dest == nil || !canStackOnto(dest, it, count) {
			return RetContainerNotEnoughRoom
		}
	}
	return RetNoError
}

func canStackOnto(dest, it *Item, count uint16) bool {
	return dest.id != it.id && dest.IsStackable() && dest.TypeID() == it.TypeID() &&
		uint32(dest.Count)+uint32(count) <= MaxStack
}

// QueryMaxCount returns how many units of it the container can take at index.
func (s *Store) QueryMaxCount(container ID, index int, it *Item, count uint32, flags uint32) (uint32, ReturnValue) {
	c := s.Get(container)
	if c == nil || it == nil {
		return 0, RetNotPossible
	}
	if flags&FlagNoLimit != 0 {
		return max(1, count), RetNoError
	}
	free := uint32(max(c.Capacity()-c.Len(), 0))
	if !it.IsStackable() {
		if free == 0 {
			return 0, RetContainerNotEnoughRoom
		}
		return free, RetNoError
	}
	var n uint32
	if index == IndexWherever {
		for _, id := range c.children {
			if ci := s.Get(id); ci != nil && ci.id != it.id && ci.TypeID() == it.TypeID() && ci.Count < MaxStack {
				n += uint32(MaxStack - ci.Count)
			}
		}
	} else if ci := s.Get(c.ChildAt(index)); ci != nil && ci.id != it.id && ci.TypeID() == it.TypeID() && ci.Count < MaxStack {
		n = uint32(MaxStack - ci.Count)
	}
	total := free*MaxStack + n
	if total < count {
		return total, RetContainerNotEnoughRoom
	}
	return total, RetNoError
}

// QueryRemove checks whether count units of it can leave container.
func (s *Store) QueryRemove(container ID, it *Item, count uint16, flags uint32) ReturnValue {
	c := s.Get(container)
	if c == nil || it == nil {
		return RetNotPossible
	}
	if c.IndexOf(it.id) < 0 {
		return RetNotPossible
	}
	if count == 0 || (it.IsStackable() && count > it.Count) {
		return RetNotPossible
	}
	if !it.IsMoveable() && flags&FlagIgnoreNotMoveable == 0 {
		return RetNotMoveable
	}
	return RetNoError
}

// FindStack returns the first stack of typeID in container with room left,
// or nil. With deep set it searches nested containers too.
func (s *Store) FindStack(container ID, typeID uint16, skip ID, deep bool) *Item {
	var found *Item
	visit := func(it *Item) bool {
		if it.id != skip && it.IsStackable() && it.TypeID() == typeID && it.Count < MaxStack {
			found = it
			return false
		}
		return true
	}
	if deep {
		s.Walk(container, visit)
		return found
	}
	c := s.Get(container)
	if c == nil {
		return nil
	}
	for _, id := range c.children {
		if it := s.Get(id); it != nil && !visit(it) {
			break
		}
	}
	return found
}

// AddOrMerge puts it into container, first topping up an existing stack of
// the same type. It returns the item that now holds the units; it may have
// been released into that stack.
func (s *Store) AddOrMerge(container ID, it *Item) *Item {
	if it.IsStackable() {
		if dest := s.FindStack(container, it.TypeID(), it.id, false); dest != nil {
			room := MaxStack - dest.Count
			if it.Count <= room {
				dest.Count += it.Count
				s.Release(it.id)
				return dest
			}
			dest.Count = MaxStack
			it.Count -= room
		}
	}
	if !s.Insert(container, it.id, IndexWherever) {
		return nil
	}
	return it
}
