package condition

// Set is the ordered list of conditions on one player plus a suppression
// mask. It is not safe for concurrent use.
type Set struct {
	list     []*Condition
	suppress Type
}

func NewSet() *Set {
	return &Set{}
}

// Add attaches c or refreshes a matching (type, id, sub-id) condition and
// reports whether c was newly added. A refresh keeps the longer duration.
func (s *Set) Add(c *Condition) bool {
	if prev := s.Get(c.Type, c.ID, c.SubID); prev != nil {
		switch {
		case prev.Ticks == Infinite && c.Ticks > 0:
		case c.Ticks >= 0 && prev.Ticks != Infinite && prev.Ticks > c.Ticks:
		default:
			prev.Ticks = c.Ticks
		}
		for k, v := range c.Params {
			prev.SetParam(k, v)
		}
		return false
	}
	s.list = append(s.list, c)
	return true
}

func (s *Set) Get(t Type, id ID, subID uint32) *Condition {
	for _, c := range s.list {
		if c.matches(t, id, subID) {
			return c
		}
	}
	return nil
}

// Has reports whether any unsuppressed condition of type t is active.
func (s *Set) Has(t Type) bool {
	if s.IsSuppressed(t) {
		return false
	}
	for _, c := range s.list {
		if c.Type == t {
			return true
		}
	}
	return false
}

// HasSub is Has restricted to one sub-id.
func (s *Set) HasSub(t Type, subID uint32) bool {
	if s.IsSuppressed(t) {
		return false
	}
	for _, c := range s.list {
		if c.Type == t && c.SubID == subID {
			return true
		}
	}
	return false
}

// Remove drops every condition of type t with the given id.
func (s *Set) Remove(t Type, id ID) []*Condition {
	return s.removeIf(func(c *Condition) bool { return c.Type == t && c.ID == id })
}

// RemoveCondition drops exactly c.
func (s *Set) RemoveCondition(c *Condition) bool {
	return len(s.removeIf(func(x *Condition) bool { return x == c })) > 0
}

func (s *Set) removeIf(pred func(*Condition) bool) []*Condition {
	var removed []*Condition
	kept := s.list[:0]
	for _, c := range s.list {
		if pred(c) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(s.list); i++ {
		s.list[i] = nil
	}
	s.list = kept
	return removed
}

// Tick advances every finite condition by interval ms and removes the ones
// that ran out. Expired conditions are returned in set order.
func (s *Set) Tick(interval int32) []*Condition {
	for _, c := range s.list {
		if c.Ticks != Infinite {
			c.Ticks -= interval
		}
	}
	return s.removeIf(func(c *Condition) bool { return c.Ticks != Infinite && c.Ticks <= 0 })
}

// Active is the union of condition types present, suppressed or not.
func (s *Set) Active() Type {
	var t Type
	for _, c := range s.list {
		t |= c.Type
	}
	return t
}

func (s *Set) Len() int { return len(s.list) }

// All returns a copy of the condition list.
func (s *Set) All() []*Condition {
	out := make([]*Condition, len(s.list))
	copy(out, s.list)
	return out
}

// Of returns the conditions of type t.
func (s *Set) Of(t Type) []*Condition {
	var out []*Condition
	for _, c := range s.list {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (s *Set) Suppress(mask Type)   { s.suppress |= mask }
func (s *Set) Unsuppress(mask Type) { s.suppress &^= mask }
func (s *Set) Suppressed() Type     { return s.suppress }

func (s *Set) IsSuppressed(t Type) bool { return s.suppress&t != 0 }

// Icons is the union of icons of every unsuppressed condition.
func (s *Set) Icons() uint32 {
	var icons uint32
	for _, c := range s.list {
		if !s.IsSuppressed(c.Type) {
			icons |= c.Icons()
		}
	}
	return icons
}

// MaxTicks is the longest remaining duration among conditions of type t.
func (s *Set) MaxTicks(t Type) int32 {
	var best int32
	for _, c := range s.list {
		if c.Type == t && c.Ticks > best {
			best = c.Ticks
		}
	}
	return best
}

// RemovePersistent drops every persistent condition and returns them so the
// caller can run end-of-condition effects.
func (s *Set) RemovePersistent() []*Condition {
	return s.removeIf((*Condition).IsPersistent)
}

// ReduceMuteTicks subtracts offline time from every running mute and drops
// the ones that reach zero.
func (s *Set) ReduceMuteTicks(offlineMs int64) []*Condition {
	for _, c := range s.list {
		if !c.IsMute() || c.Ticks <= 0 {
			continue
		}
		left := int64(c.Ticks) - offlineMs
		if left < 0 {
			left = 0
		}
		c.Ticks = int32(left)
	}
	return s.removeIf(func(c *Condition) bool { return c.IsMute() && c.Ticks == 0 })
}
