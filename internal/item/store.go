package item

import (
	"github.com/l1jgo/playerd/internal/data"
)

// Store is the item arena. It is owned by the game loop and not safe for
// concurrent use.
type Store struct {
	types *data.ItemTypeTable
	items map[ID]*Item
	next  ID
}

func NewStore(types *data.ItemTypeTable) *Store {
	return &Store{
		types: types,
		items: make(map[ID]*Item, 1024),
	}
}

func (s *Store) Types() *data.ItemTypeTable { return s.types }

// Create makes a detached item of typeID. Count is clamped to 1..MaxStack
// for stackables; charged items start with their type's charges. Returns
// nil for unknown types.
func (s *Store) Create(typeID uint16, count uint16) *Item {
	t := s.types.Get(typeID)
	if t == nil {
		return nil
	}
	s.next++
	it := &Item{id: s.next, typ: t, Count: 1}
	if t.Stackable {
		it.Count = min(max(count, 1), MaxStack)
	}
	if t.Charges != 0 {
		it.Charges = t.Charges
	}
	s.items[it.id] = it
	return it
}

// Get returns the item with id, or nil when it was released or never existed.
func (s *Store) Get(id ID) *Item {
	if id == 0 {
		return nil
	}
	return s.items[id]
}

func (s *Store) Len() int { return len(s.items) }

// Release detaches id and frees it together with everything it contains.
func (s *Store) Release(id ID) {
	it := s.items[id]
	if it == nil {
		return
	}
	s.Detach(id)
	s.release(it)
}

func (s *Store) release(it *Item) {
	for _, c := range it.children {
		if child := s.items[c]; child != nil {
			s.release(child)
		}
	}
	it.children = nil
	delete(s.items, it.id)
}

// Detach removes id from its parent container, if any, and clears its
// parent reference.
func (s *Store) Detach(id ID) {
	it := s.items[id]
	if it == nil {
		return
	}
	if it.parent.Kind == ParentContainer {
		if p := s.items[it.parent.Item]; p != nil {
			if n := p.IndexOf(id); n >= 0 {
				p.children = append(p.children[:n], p.children[n+1:]...)
			}
		}
	}
	it.parent = Parent{}
}

// SetParent roots a detached item in a slot, tile or store. Use Insert for
// container parents.
func (s *Store) SetParent(id ID, p Parent) {
	it := s.items[id]
	if it == nil {
		return
	}
	if it.parent.Kind == ParentContainer {
		s.Detach(id)
	}
	it.parent = p
}

// Insert puts child into container at index. IndexWherever and
// out-of-range indexes insert at the front, the position new items take in
// an opened container.
func (s *Store) Insert(container, child ID, index int) bool {
	c := s.items[container]
	it := s.items[child]
	if c == nil || it == nil || !c.IsContainer() || container == child {
		return false
	}
	if it.IsContainer() && s.IsHolding(child, container) {
		return false
	}
	s.Detach(child)
	if index < 0 || index > len(c.children) {
		index = 0
	}
	c.children = append(c.children, 0)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child
	it.parent = Parent{Kind: ParentContainer, Item: container}
	return true
}

// Replace swaps the child at index for another item, detaching the old one.
func (s *Store) Replace(container ID, index int, with ID) ID {
	c := s.items[container]
	it := s.items[with]
	if c == nil || it == nil || index < 0 || index >= len(c.children) {
		return 0
	}
	old := c.children[index]
	s.Detach(with)
	c.children[index] = with
	it.parent = Parent{Kind: ParentContainer, Item: container}
	if o := s.items[old]; o != nil {
		o.parent = Parent{}
	}
	return old
}

// Split takes count units off a stack into a new detached item.
func (s *Store) Split(id ID, count uint16) *Item {
	it := s.items[id]
	if it == nil || !it.IsStackable() || count == 0 || count >= it.Count {
		return nil
	}
	n := s.Create(it.TypeID(), count)
	it.Count -= count
	return n
}

// Walk visits every descendant of root depth first, parents before their
// children. It stops when fn returns false.
func (s *Store) Walk(root ID, fn func(*Item) bool) {
	r := s.items[root]
	if r == nil {
		return
	}
	s.walk(r, fn)
}

func (s *Store) walk(c *Item, fn func(*Item) bool) bool {
	for _, id := range c.children {
		child := s.items[id]
		if child == nil {
			continue
		}
		if !fn(child) {
			return false
		}
		if child.IsContainer() && !s.walk(child, fn) {
			return false
		}
	}
	return true
}

// IsHolding reports whether target is somewhere below container.
func (s *Store) IsHolding(container, target ID) bool {
	it := s.items[target]
	for it != nil && it.parent.Kind == ParentContainer {
		if it.parent.Item == container {
			return true
		}
		it = s.items[it.parent.Item]
	}
	return false
}

// TopParent climbs container links from id and returns the outermost item.
// An item not inside a container is its own top parent.
func (s *Store) TopParent(id ID) *Item {
	it := s.items[id]
	for it != nil && it.parent.Kind == ParentContainer {
		p := s.items[it.parent.Item]
		if p == nil {
			break
		}
		it = p
	}
	return it
}

// HoldingPlayer returns the guid of the player carrying id in an equipment
// slot, directly or through containers.
func (s *Store) HoldingPlayer(id ID) (uint32, bool) {
	top := s.TopParent(id)
	if top == nil || top.parent.Kind != ParentPlayer {
		return 0, false
	}
	return top.parent.Player, true
}

// Weight is the carried weight of id: the base weight times the stack
// count, plus the weight of every contained item.
func (s *Store) Weight(id ID) uint32 {
	it := s.items[id]
	if it == nil {
		return 0
	}
	w := it.typ.Weight * uint32(it.StackCount())
	for _, c := range it.children {
		w += s.Weight(c)
	}
	return w
}

// ItemTypeCount counts units of typeID below root, stacks counted by size.
func (s *Store) ItemTypeCount(root ID, typeID uint16) uint32 {
	var n uint32
	s.Walk(root, func(it *Item) bool {
		if it.TypeID() == typeID {
			n += uint32(it.StackCount())
		}
		return true
	})
	return n
}

// Depth is the number of containers between id and its top parent.
func (s *Store) Depth(id ID) int {
	d := 0
	it := s.items[id]
	for it != nil && it.parent.Kind == ParentContainer {
		d++
		it = s.items[it.parent.Item]
	}
	return d
}
