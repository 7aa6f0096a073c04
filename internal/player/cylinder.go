package player

import (
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

// Link says how a moved item relates to the cylinder being notified.
type Link uint8

const (
	LinkOwner Link = iota
	LinkParent
	LinkTopParent
	LinkNear
)

// Destination is where QueryDestination decided an item should go.
// Container 0 means the player itself, with Index a slot; Item is the
// stack the item will merge into, if any.
type Destination struct {
	Container item.ID
	Index     int
	Item      item.ID
}

const bodySlots = data.SlotPosHead | data.SlotPosNecklace | data.SlotPosBackpack |
	data.SlotPosArmor | data.SlotPosLegs | data.SlotPosFeet | data.SlotPosRing

// QueryAdd checks whether count units of it may be put into the slot at
// index.
func (p *Player) QueryAdd(index int, it *item.Item, count uint32, flags uint32) item.ReturnValue {
	if it == nil {
		return item.RetNotPossible
	}
	if flags&item.FlagChildIsOwner != 0 {
		// a container we carry asks for room; only weight matters
		if flags&item.FlagNoLimit != 0 || p.HasCapacity(it, count) {
			return item.RetNoError
		}
		return item.RetNotEnoughCapacity
	}
	if !it.IsPickupable() {
		return item.RetCannotPickup
	}

	classic := p.env.Cfg.Game.ClassicEquipmentSlots
	pos := it.SlotPosition()
	ret := item.RetNoError
	switch {
	case pos&bodySlots != 0:
		ret = item.RetCannotBeDressed
	case pos&data.SlotPosTwoHand != 0:
		ret = item.RetPutThisObjectInBothHands
	case pos&data.SlotPosHand != 0:
		if classic {
			ret = item.RetPutThisObjectInYourHand
		} else {
			ret = item.RetCannotBeDressed
		}
	}

	switch index {
	case int(SlotHead), int(SlotNecklace), int(SlotBackpack), int(SlotArmor),
		int(SlotLegs), int(SlotFeet), int(SlotRing):
		if pos&Slot(index).accepts() != 0 {
			ret = item.RetNoError
		}
	case int(SlotRight):
		if pos&data.SlotPosRight != 0 {
			ret = p.queryHand(SlotRight, SlotLeft, it, count, classic)
		}
	case int(SlotLeft):
		if pos&data.SlotPosLeft != 0 {
			ret = p.queryHand(SlotLeft, SlotRight, it, count, classic)
		}
	case int(SlotAmmo):
		if pos&data.SlotPosAmmo != 0 || classic {
			ret = item.RetNoError
		}
	case int(SlotWherever), item.IndexWherever:
		ret = item.RetNotEnoughRoom
	default:
		ret = item.RetNotPossible
	}

	if ret != item.RetNoError && ret != item.RetNotEnoughRoom {
		return ret
	}
	if index > 0 {
		if inv := p.InventoryItem(Slot(index)); inv != nil && (!inv.IsStackable() || inv.TypeID() != it.TypeID()) {
			return item.RetNeedExchange
		}
	}
	if !p.HasCapacity(it, count) {
		return item.RetNotEnoughCapacity
	}
	if index > 0 && !p.env.Hooks.OnEquip(p, it, Slot(index), true) {
		return item.RetCannotBeDressed
	}
	return ret
}

// queryHand applies the hand rules for slot, with other the opposite hand.
// Without classic slots the left hand holds weapons and the right hand
// shields and quivers; a distance weapon may share the hands with a quiver.
func (p *Player) queryHand(slot, other Slot, it *item.Item, count uint32, classic bool) item.ReturnValue {
	pos := it.SlotPosition()
	wt := it.WeaponType()
	otherItem := p.InventoryItem(other)

	if !classic {
		if slot == SlotRight {
			if wt != data.WeaponShield && !it.IsQuiver() {
				return item.RetCannotBeDressed
			}
			if otherItem != nil && (otherItem.SlotPosition()|pos)&data.SlotPosTwoHand != 0 {
				if it.IsQuiver() && otherItem.WeaponType() == data.WeaponDistance {
					return item.RetNoError
				}
				return item.RetBothHandsNeedToBeFree
			}
			return item.RetNoError
		}
		if wt == data.WeaponNone || wt == data.WeaponShield || wt == data.WeaponAmmo {
			return item.RetCannotBeDressed
		}
		if otherItem != nil && pos&data.SlotPosTwoHand != 0 {
			if wt == data.WeaponDistance && otherItem.IsQuiver() {
				return item.RetNoError
			}
			return item.RetBothHandsNeedToBeFree
		}
		return item.RetNoError
	}

	if pos&data.SlotPosTwoHand != 0 {
		if otherItem != nil && otherItem.ID() != it.ID() {
			return item.RetBothHandsNeedToBeFree
		}
		return item.RetNoError
	}
	if otherItem == nil {
		return item.RetNoError
	}
	otherType := otherItem.WeaponType()
	switch {
	case otherItem.SlotPosition()&data.SlotPosTwoHand != 0:
		return item.RetDropTwoHandedItem
	case otherItem.ID() == it.ID() && count == uint32(it.StackCount()):
		return item.RetNoError
	case otherType == data.WeaponShield && wt == data.WeaponShield:
		return item.RetCanOnlyUseOneShield
	case otherType == data.WeaponNone || wt == data.WeaponNone ||
		otherType == data.WeaponShield || otherType == data.WeaponAmmo ||
		wt == data.WeaponShield || wt == data.WeaponAmmo:
		return item.RetNoError
	}
	return item.RetCanOnlyUseOneWeapon
}

// QueryMaxCount returns how many units of it the player can take at index.
// IndexWherever searches every slot and, deeply, every carried container.
func (p *Player) QueryMaxCount(index int, it *item.Item, count uint32, flags uint32) (uint32, item.ReturnValue) {
	if it == nil {
		return 0, item.RetNotPossible
	}
	items := p.env.Items
	var n uint32
	if index == item.IndexWherever {
		for s := SlotFirst; s <= SlotLast; s++ {
			inv := p.InventoryItem(s)
			switch {
			case inv == nil:
				if p.QueryAdd(int(s), it, uint32(it.StackCount()), flags) == item.RetNoError {
					if it.IsStackable() {
						n += item.MaxStack
					} else {
						n++
					}
				}
			case inv.IsContainer():
				q, _ := items.QueryMaxCount(inv.ID(), item.IndexWherever, it, uint32(it.StackCount()), flags)
				n += q
				items.Walk(inv.ID(), func(c *item.Item) bool {
					if c.IsContainer() {
						q, _ := items.QueryMaxCount(c.ID(), item.IndexWherever, it, uint32(it.StackCount()), flags)
						n += q
					}
					return true
				})
			case inv.IsStackable() && inv.TypeID() == it.TypeID() && inv.Count < item.MaxStack:
				remainder := uint32(item.MaxStack - inv.Count)
				if p.QueryAdd(int(s), it, remainder, flags) == item.RetNoError {
					n += remainder
				}
			}
		}
	} else {
		dest := p.InventoryItem(Slot(max(index, 0)))
		switch {
		case dest != nil:
			if dest.IsStackable() && dest.TypeID() == it.TypeID() && dest.Count < item.MaxStack {
				n = uint32(item.MaxStack - dest.Count)
			}
		case p.QueryAdd(index, it, count, flags) == item.RetNoError:
			if it.IsStackable() {
				return item.MaxStack, item.RetNoError
			}
			return 1, item.RetNoError
		}
	}
	if n < count {
		return n, item.RetNotEnoughRoom
	}
	return n, item.RetNoError
}

// QueryRemove checks whether count units of it may leave the inventory.
func (p *Player) QueryRemove(it *item.Item, count uint32, flags uint32) item.ReturnValue {
	if it == nil || p.ThingIndex(it.ID()) == -1 {
		return item.RetNotPossible
	}
	if count == 0 || (it.IsStackable() && count > uint32(it.Count)) {
		return item.RetNotPossible
	}
	if !it.IsMoveable() && flags&item.FlagIgnoreNotMoveable == 0 {
		return item.RetNotMoveable
	}
	return item.RetNoError
}

// QueryDestination picks where it lands when dropped onto the player. For
// index 0 or IndexWherever it tries, in order: a matching stack in a slot,
// an empty slot that accepts it, then carried containers breadth first.
// With nothing found the player itself is returned and the caller drops
// the item at the player's feet.
func (p *Player) QueryDestination(index int, it *item.Item, flags uint32) Destination {
	items := p.env.Items
	if index != int(SlotWherever) && index != item.IndexWherever {
		if dest := p.InventoryItem(Slot(max(index, 0))); dest != nil {
			if dest.IsContainer() {
				return Destination{Container: dest.ID(), Index: item.IndexWherever}
			}
			return Destination{Index: index, Item: dest.ID()}
		}
		return Destination{Index: index}
	}
	if it == nil {
		return Destination{Index: index}
	}

	autoStack := flags&item.FlagIgnoreAutoStack == 0
	stackable := it.IsStackable()
	var containers []item.ID

	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil {
			if p.QueryAdd(int(s), it, uint32(it.StackCount()), flags) == item.RetNoError {
				return Destination{Index: int(s)}
			}
			continue
		}
		if inv.ID() == p.tradeItem || inv.ID() == it.ID() {
			continue
		}
		if autoStack && stackable &&
			p.QueryAdd(int(s), it, uint32(it.StackCount()), 0) == item.RetNoError &&
			inv.TypeID() == it.TypeID() && inv.Count < item.MaxStack {
			return Destination{Index: int(s), Item: inv.ID()}
		}
		if inv.IsContainer() {
			containers = append(containers, inv.ID())
		}
	}

	for i := 0; i < len(containers); i++ {
		c := items.Get(containers[i])
		if c == nil {
			continue
		}
		if !autoStack || !stackable {
			for n := c.Capacity() - c.Len(); n > 0; n-- {
				idx := c.Capacity() - n
				if items.QueryAdd(c.ID(), idx, it, it.StackCount(), flags) == item.RetNoError {
					return Destination{Container: c.ID(), Index: idx}
				}
			}
			for _, child := range c.Children() {
				if ci := items.Get(child); ci != nil && ci.IsContainer() {
					containers = append(containers, child)
				}
			}
			continue
		}

		n := 0
		for _, child := range c.Children() {
			ci := items.Get(child)
			if ci == nil || ci.ID() == p.tradeItem || ci.ID() == it.ID() {
				continue
			}
			if ci.TypeID() == it.TypeID() && ci.IsStackable() && ci.Count < item.MaxStack {
				return Destination{Container: c.ID(), Index: n, Item: ci.ID()}
			}
			if ci.IsContainer() {
				containers = append(containers, child)
			}
			n++
		}
		if n < c.Capacity() && items.QueryAdd(c.ID(), n, it, it.StackCount(), flags) == item.RetNoError {
			return Destination{Container: c.ID(), Index: n}
		}
	}
	return Destination{Index: index}
}

// ThingIndex returns the slot holding id, or -1.
func (p *Player) ThingIndex(id item.ID) int {
	if id == 0 {
		return -1
	}
	for s := SlotFirst; s < slotCount; s++ {
		if p.inventory[s] == id {
			return int(s)
		}
	}
	return -1
}

// AddThing places it into the slot at index. Placement rules are the
// caller's business: run QueryAdd first.
func (p *Player) AddThing(index int, it *item.Item) {
	if index < int(SlotFirst) || index > int(SlotLast) || it == nil {
		return
	}
	p.env.Items.SetParent(it.ID(), item.Parent{Kind: item.ParentPlayer, Player: p.guid, Slot: uint8(index)})
	p.inventory[index] = it.ID()
	p.client.SendInventoryItem(Slot(index), it.ID())
}

// InternalAddThing equips it without notifications, used while loading.
// It does nothing when the slot is taken.
func (p *Player) InternalAddThing(index int, it *item.Item) bool {
	if index < int(SlotFirst) || index >= int(slotCount) || it == nil || p.inventory[index] != 0 {
		return false
	}
	p.env.Items.SetParent(it.ID(), item.Parent{Kind: item.ParentPlayer, Player: p.guid, Slot: uint8(index)})
	p.inventory[index] = it.ID()
	return true
}

// UpdateThing changes the type and count of an equipped item in place.
func (p *Player) UpdateThing(it *item.Item, typeID uint16, count uint16) {
	index := p.ThingIndex(it.ID())
	if index == -1 {
		return
	}
	if t := p.env.Items.Types().Get(typeID); t != nil && t != it.Type() {
		if repl := p.env.Items.Create(typeID, count); repl != nil {
			p.ReplaceThing(index, repl)
			return
		}
	}
	it.Count = count
	p.client.SendInventoryItem(Slot(index), it.ID())
	p.onUpdateInventoryItem(it.ID(), it.ID())
}

// ReplaceThing swaps the slot content for it. The previous item is
// detached and left to the caller.
func (p *Player) ReplaceThing(index int, it *item.Item) {
	if index < int(SlotFirst) || index > int(SlotLast) || it == nil {
		return
	}
	old := p.inventory[index]
	if old == 0 {
		return
	}
	p.client.SendInventoryItem(Slot(index), it.ID())
	p.onUpdateInventoryItem(old, it.ID())
	p.env.Items.SetParent(old, item.Parent{})
	p.env.Items.SetParent(it.ID(), item.Parent{Kind: item.ParentPlayer, Player: p.guid, Slot: uint8(index)})
	p.inventory[index] = it.ID()
}

// RemoveThing takes count units of an equipped item. A partial stack
// stays in the slot with the reduced count; otherwise the slot is emptied
// and the item detached.
func (p *Player) RemoveThing(it *item.Item, count uint32) {
	index := p.ThingIndex(it.ID())
	if index == -1 {
		return
	}
	if it.IsStackable() && count < uint32(it.Count) {
		it.Count -= uint16(count)
		p.client.SendInventoryItem(Slot(index), it.ID())
		p.onUpdateInventoryItem(it.ID(), it.ID())
		return
	}
	p.client.SendInventoryItem(Slot(index), 0)
	p.onRemoveInventoryItem(it.ID())
	p.env.Items.SetParent(it.ID(), item.Parent{})
	p.inventory[index] = 0
}

// ItemTypeCount counts units of typeID in slots and carried containers.
func (p *Player) ItemTypeCount(typeID uint16) uint32 {
	var n uint32
	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil {
			continue
		}
		if inv.TypeID() == typeID {
			n += uint32(inv.StackCount())
		}
		if inv.IsContainer() {
			n += p.env.Items.ItemTypeCount(inv.ID(), typeID)
		}
	}
	return n
}

// AllItemTypeCount tallies every carried item type.
func (p *Player) AllItemTypeCount() map[uint16]uint32 {
	counts := make(map[uint16]uint32)
	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil {
			continue
		}
		counts[inv.TypeID()] += uint32(inv.StackCount())
		p.env.Items.Walk(inv.ID(), func(c *item.Item) bool {
			counts[c.TypeID()] += uint32(c.StackCount())
			return true
		})
	}
	return counts
}

// RemoveItemOfType removes amount units of typeID, taking from equipped
// items unless ignoreEquipped and from carried containers. Nothing is
// removed when the player holds fewer than amount.
func (p *Player) RemoveItemOfType(typeID uint16, amount uint32, ignoreEquipped bool) bool {
	if amount == 0 {
		return true
	}
	var (
		list  []item.ID
		count uint32
	)
	collect := func(it *item.Item) bool {
		if it.TypeID() != typeID {
			return false
		}
		list = append(list, it.ID())
		count += uint32(it.StackCount())
		return count >= amount
	}
	stackable := false
	if t := p.env.Items.Types().Get(typeID); t != nil {
		stackable = t.Stackable
	}
	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil {
			continue
		}
		if !ignoreEquipped && inv.TypeID() == typeID {
			if collect(inv) {
				p.env.Game.InternalRemoveItems(list, amount, stackable)
				return true
			}
			continue
		}
		if !inv.IsContainer() {
			continue
		}
		done := false
		p.env.Items.Walk(inv.ID(), func(c *item.Item) bool {
			done = collect(c)
			return !done
		})
		if done {
			p.env.Game.InternalRemoveItems(list, amount, stackable)
			return true
		}
	}
	return false
}

// PostAddNotification runs after it was placed into the player's tree.
func (p *Player) PostAddNotification(it *item.Item, oldParent item.Parent, index int, link Link) {
	if link == LinkOwner {
		p.env.Hooks.OnEquip(p, it, Slot(max(index, 0)), false)
	}
	requireListUpdate := true
	if link == LinkOwner || link == LinkTopParent {
		requireListUpdate = !p.parentHeldByMe(oldParent)
		p.updateInventoryWeight()
		p.updateItemsLight(false)
		p.sendInventoryItems()
		p.sendStats()
	}
	if it.IsContainer() {
		p.onSendContainer(it.ID())
	}
	if p.shopOwner != 0 && requireListUpdate {
		p.client.SendSaleItemList()
	}
}

// PostRemoveNotification runs after it left the player's tree. Open
// windows on a moved container are refreshed when it is still reachable
// and closed otherwise.
func (p *Player) PostRemoveNotification(it *item.Item, newParent item.Parent, index int, link Link) {
	if link == LinkOwner {
		p.env.Hooks.OnDeEquip(p, it, Slot(max(index, 0)), false)
	}
	requireListUpdate := true
	if link == LinkOwner || link == LinkTopParent {
		requireListUpdate = !p.parentHeldByMe(newParent)
		p.updateInventoryWeight()
		p.updateItemsLight(false)
		p.sendInventoryItems()
		p.sendStats()
	}

	if it.IsContainer() {
		id := it.ID()
		p.checkLootContainers(id)
		pos, alive := p.itemPosition(id)
		switch {
		case !alive || !inRange1(p.pos, pos):
			p.AutoCloseContainers(id)
		case p.holds(id):
			p.onSendContainer(id)
		default:
			top := p.env.Items.TopParent(id)
			switch {
			case top == nil || top.Parent().Kind != item.ParentStore:
				// on the floor or carried by another player
				p.AutoCloseContainers(id)
			case top.Type().Kind == data.KindDepotChest || top.Type().Kind == data.KindDepotLocker:
				if p.ownsDepotChest(top.ID()) {
					p.onSendContainer(id)
				} else {
					p.AutoCloseContainers(id)
				}
			case top.IsContainer():
				p.onSendContainer(id)
			default:
				p.AutoCloseContainers(id)
			}
		}
	}
	if p.shopOwner != 0 && requireListUpdate {
		p.client.SendSaleItemList()
	}
}

func (p *Player) parentHeldByMe(parent item.Parent) bool {
	switch parent.Kind {
	case item.ParentPlayer:
		return parent.Player == p.guid
	case item.ParentContainer:
		return p.holds(parent.Item)
	}
	return false
}

func (p *Player) onUpdateInventoryItem(oldID, newID item.ID) {
	if oldID != newID {
		p.onRemoveInventoryItem(oldID)
	}
	if p.tradeState != TradeTransfer {
		p.checkTradeState(oldID)
	}
}

func (p *Player) onRemoveInventoryItem(id item.ID) {
	if p.tradeState != TradeTransfer {
		p.checkTradeState(id)
		if p.tradeItem != 0 && p.env.Items.IsHolding(id, p.tradeItem) {
			p.env.Game.InternalCloseTrade(p)
		}
	}
	p.checkLootContainers(id)
}
