package player

import (
	"sort"

	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
)

// MaxOpenContainers bounds the client container ids.
const MaxOpenContainers = 16

type TradeState uint8

const (
	TradeNone TradeState = iota
	TradeInitiated
	TradeAccept
	TradeAcknowledge
	TradeTransfer
)

// LootCategory indexes quick-loot destinations. LootDefault receives
// every category without its own container.
type LootCategory uint8

const (
	LootDefault LootCategory = iota
	LootArmors
	LootAmulets
	LootBoots
	LootContainers
	LootCreatureProducts
	LootFood
	LootHelmets
	LootLegs
	LootOthers
	LootPotions
	LootRings
	LootRunes
	LootShields
	LootTools
	LootValuables
	LootWeapons
	LootGold
	LootUnassigned
)

// AddContainer binds a client container id to container, resetting the
// visible page. Ids above 15 are ignored.
func (p *Player) AddContainer(cid uint8, container item.ID) {
	if cid >= MaxOpenContainers || p.env.Items.Get(container) == nil {
		return
	}
	if oc, ok := p.openContainers[cid]; ok {
		oc.container = container
		oc.index = 0
		return
	}
	p.openContainers[cid] = &openContainer{container: container}
}

func (p *Player) CloseContainer(cid uint8) {
	delete(p.openContainers, cid)
}

func (p *Player) SetContainerIndex(cid uint8, index uint16) {
	if oc, ok := p.openContainers[cid]; ok {
		oc.index = index
	}
}

// ContainerByID returns the container open under cid, or 0.
func (p *Player) ContainerByID(cid uint8) item.ID {
	if oc, ok := p.openContainers[cid]; ok {
		return oc.container
	}
	return 0
}

// ContainerID returns the client id container is open under, or -1.
func (p *Player) ContainerID(container item.ID) int {
	for cid, oc := range p.openContainers {
		if oc.container == container {
			return int(cid)
		}
	}
	return -1
}

// ContainerIndex returns the first visible index of cid.
func (p *Player) ContainerIndex(cid uint8) uint16 {
	if oc, ok := p.openContainers[cid]; ok {
		return oc.index
	}
	return 0
}

// OpenContainerCount is the number of bound client container ids.
func (p *Player) OpenContainerCount() int { return len(p.openContainers) }

// AutoCloseContainers closes every open window showing container or
// something inside it, and every window whose container left the world.
func (p *Player) AutoCloseContainers(container item.ID) {
	var closeList []uint8
	for cid, oc := range p.openContainers {
		if oc.container == container || p.isRemoved(oc.container) || p.env.Items.IsHolding(container, oc.container) {
			closeList = append(closeList, cid)
		}
	}
	sort.Slice(closeList, func(i, j int) bool { return closeList[i] < closeList[j] })
	for _, cid := range closeList {
		p.CloseContainer(cid)
		p.client.SendCloseContainer(cid)
	}
}

func (p *Player) onSendContainer(container item.ID) {
	c := p.env.Items.Get(container)
	if c == nil {
		return
	}
	hasParent := c.Parent().Kind == item.ParentContainer
	for cid, oc := range p.openContainers {
		if oc.container == container {
			p.client.SendContainer(cid, container, hasParent, oc.index)
		}
	}
}

// OnCloseContainer tells the client to close every window on container.
func (p *Player) OnCloseContainer(container item.ID) {
	for cid, oc := range p.openContainers {
		if oc.container == container {
			p.client.SendCloseContainer(cid)
		}
	}
}

// SendAddContainerItem notifies every window open on container.
func (p *Player) SendAddContainerItem(container item.ID, it item.ID) {
	c := p.env.Items.Get(container)
	if c == nil {
		return
	}
	for cid, oc := range p.openContainers {
		if oc.container != container {
			continue
		}
		shown := it
		if int(oc.index) >= c.Capacity() {
			shown = c.ChildAt(int(oc.index) - 1)
		}
		p.client.SendAddContainerItem(cid, oc.index, shown)
	}
}

func (p *Player) SendUpdateContainerItem(container item.ID, slot uint16, it item.ID) {
	c := p.env.Items.Get(container)
	if c == nil {
		return
	}
	for cid, oc := range p.openContainers {
		if oc.container != container || slot < oc.index {
			continue
		}
		if int(slot) >= int(oc.index)+c.Capacity() {
			continue
		}
		p.client.SendUpdateContainerItem(cid, slot, it)
	}
}

// SendRemoveContainerItem notifies every window open on container. A
// window paged past the remaining items is moved back one page first.
func (p *Player) SendRemoveContainerItem(container item.ID, slot uint16) {
	c := p.env.Items.Get(container)
	if c == nil {
		return
	}
	for cid, oc := range p.openContainers {
		if oc.container != container {
			continue
		}
		if oc.index > 0 && int(oc.index) >= c.Len()-1 {
			oc.index -= uint16(min(int(oc.index), c.Capacity()))
			p.client.SendContainer(cid, container, false, oc.index)
		}
		p.client.SendRemoveContainerItem(cid, max(slot, oc.index), c.ChildAt(c.Capacity()+int(oc.index)))
	}
}

func (p *Player) OnAddContainerItem(it item.ID) {
	p.checkTradeState(it)
}

func (p *Player) OnUpdateContainerItem(container, oldItem, newItem item.ID) {
	if oldItem != newItem {
		p.OnRemoveContainerItem(container, oldItem)
	}
	if p.tradeState != TradeTransfer {
		p.checkTradeState(oldItem)
	}
}

func (p *Player) OnRemoveContainerItem(container, it item.ID) {
	if p.tradeState != TradeTransfer {
		p.checkTradeState(it)
		if p.tradeItem != 0 {
			tradeParent := p.env.Items.Get(p.tradeItem)
			if tradeParent != nil && tradeParent.Parent().Item != container && p.env.Items.IsHolding(container, p.tradeItem) {
				p.env.Game.InternalCloseTrade(p)
			}
		}
	}
	p.checkLootContainers(it)
}

// OnUpdateTileItem and OnRemoveTileItem keep trade and quick-loot state
// valid when items on the map change.
func (p *Player) OnUpdateTileItem(oldItem, newItem item.ID) {
	if oldItem != newItem {
		p.OnRemoveTileItem(oldItem)
	}
	if p.tradeState != TradeTransfer && p.tradeItem != 0 && oldItem == p.tradeItem {
		p.env.Game.InternalCloseTrade(p)
	}
}

func (p *Player) OnRemoveTileItem(it item.ID) {
	if p.tradeState != TradeTransfer {
		p.checkTradeState(it)
		if p.tradeItem != 0 && p.env.Items.IsHolding(it, p.tradeItem) {
			p.env.Game.InternalCloseTrade(p)
		}
	}
	p.checkLootContainers(it)
}

// OpenPlayerContainers reopens the windows that were open at logout, in
// client id order.
func (p *Player) OpenPlayerContainers() {
	type reopen struct {
		cid       uint8
		container item.ID
	}
	var list []reopen
	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil || !inv.IsContainer() {
			continue
		}
		if inv.OpenContainer > 0 {
			list = append(list, reopen{inv.OpenContainer, inv.ID()})
		}
		p.env.Items.Walk(inv.ID(), func(c *item.Item) bool {
			if c.IsContainer() && c.OpenContainer > 0 {
				list = append(list, reopen{c.OpenContainer, c.ID()})
			}
			return true
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].cid < list[j].cid })
	for _, r := range list {
		p.AddContainer(r.cid-1, r.container)
		p.onSendContainer(r.container)
	}
}

// MarkOpenContainers stores the client id of every open carried container
// on the item so the windows can be restored on the next login.
func (p *Player) MarkOpenContainers() {
	for s := SlotFirst; s <= SlotLast; s++ {
		inv := p.InventoryItem(s)
		if inv == nil || !inv.IsContainer() {
			continue
		}
		inv.OpenContainer = 0
		p.env.Items.Walk(inv.ID(), func(c *item.Item) bool {
			c.OpenContainer = 0
			return true
		})
	}
	for cid, oc := range p.openContainers {
		if c := p.env.Items.Get(oc.container); c != nil && p.holds(c.ID()) {
			c.OpenContainer = cid + 1
		}
	}
}

func (p *Player) checkTradeState(id item.ID) {
	if p.tradeItem == 0 || p.tradeState == TradeTransfer {
		return
	}
	if id == p.tradeItem || p.env.Items.IsHolding(p.tradeItem, id) {
		p.env.Game.InternalCloseTrade(p)
	}
}

func (p *Player) TradeState() TradeState { return p.tradeState }
func (p *Player) TradeItem() item.ID     { return p.tradeItem }
func (p *Player) TradePartner() *Player  { return p.tradePartner }

// SetTrade records the trade offer of the player. A zero item ends it.
func (p *Player) SetTrade(state TradeState, it item.ID, partner *Player) {
	p.tradeState = state
	p.tradeItem = it
	p.tradePartner = partner
}

// SetLootContainer binds container to category, unbinding the container
// previously bound to it. While loading the stored category flags are
// trusted as they are.
func (p *Player) SetLootContainer(category LootCategory, container item.ID, loading bool) item.ReturnValue {
	items := p.env.Items
	if prev, ok := p.quickLoot[category]; ok && !loading {
		if c := items.Get(prev); c != nil {
			c.QuickLootFlags &^= 1 << category
		}
		delete(p.quickLoot, category)
	}
	if container == 0 {
		return item.RetNoError
	}
	c := items.Get(container)
	if c == nil || !c.IsContainer() {
		return item.RetNotPossible
	}
	p.quickLoot[category] = container
	if !loading {
		c.QuickLootFlags |= 1 << category
	}
	return item.RetNoError
}

// LootContainer returns the container loot of category goes to. Free
// accounts only have the default destination.
func (p *Player) LootContainer(category LootCategory) item.ID {
	if category != LootDefault && !p.IsPremium() {
		category = LootDefault
	}
	if id, ok := p.quickLoot[category]; ok {
		return id
	}
	if category != LootDefault {
		return p.quickLoot[LootDefault]
	}
	return 0
}

// checkLootContainers drops quick-loot bindings on id and everything in
// it once it no longer belongs to the player.
func (p *Player) checkLootContainers(id item.ID) {
	it := p.env.Items.Get(id)
	if it != nil && !it.IsContainer() {
		return
	}
	if it != nil && p.holds(id) {
		return
	}
	for category, lc := range p.quickLoot {
		if lc == id || p.env.Items.Get(lc) == nil || p.env.Items.IsHolding(id, lc) {
			if c := p.env.Items.Get(lc); c != nil {
				c.QuickLootFlags &^= 1 << category
			}
			delete(p.quickLoot, category)
		}
	}
}

// isRemoved reports whether id was released or is no longer rooted in a
// slot, tile or store.
func (p *Player) isRemoved(id item.ID) bool {
	top := p.env.Items.TopParent(id)
	return top == nil || top.Parent().Kind == item.ParentNone
}

// itemPosition resolves the map position of id through its top parent.
func (p *Player) itemPosition(id item.ID) (geo.Position, bool) {
	top := p.env.Items.TopParent(id)
	if top == nil {
		return geo.Position{}, false
	}
	par := top.Parent()
	switch par.Kind {
	case item.ParentPlayer:
		if par.Player == p.guid {
			return p.pos, true
		}
		if p.env.Game != nil {
			if other := p.env.Game.PlayerByGUID(par.Player); other != nil {
				return other.pos, true
			}
		}
		return geo.Position{}, false
	case item.ParentTile:
		return par.Pos, true
	case item.ParentStore:
		if par.Pos.IsZero() {
			return p.pos, true
		}
		return par.Pos, true
	}
	return geo.Position{}, false
}

func inRange1(a, b geo.Position) bool {
	return a.Z == b.Z && geo.DistX(a, b) <= 1 && geo.DistY(a, b) <= 1
}
