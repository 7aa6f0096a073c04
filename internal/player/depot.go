package player

import (
	"sort"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

func (p *Player) storeParent() item.Parent {
	return item.Parent{Kind: item.ParentStore, Player: p.guid}
}

// Inbox returns the mail inbox shared by every depot locker.
func (p *Player) Inbox() item.ID { return p.inbox }

// DepotChest returns depot box depotID, creating it when autoCreate is
// set. Boxes 1..17 have their own item type; every other id maps to box
// XVIII.
func (p *Player) DepotChest(depotID uint32, autoCreate bool) item.ID {
	if id, ok := p.depotChests[depotID]; ok {
		return id
	}
	if !autoCreate {
		return 0
	}
	typeID := data.ItemDepotBoxFirst + data.MaxDepotBoxes - 1
	if depotID > 0 && depotID < data.MaxDepotBoxes {
		typeID = data.ItemDepotBoxFirst + uint16(depotID) - 1
	}
	chest := p.env.Items.Create(typeID, 1)
	if chest == nil {
		return 0
	}
	chest.Owner = p.guid
	p.env.Items.SetParent(chest.ID(), p.storeParent())
	p.depotChests[depotID] = chest.ID()
	return chest.ID()
}

// DepotChests lists the created depot boxes by depot id.
func (p *Player) DepotChests() map[uint32]item.ID { return p.depotChests }

// DepotBox returns every depot box, creating missing ones, in box order.
func (p *Player) DepotBox() []item.ID {
	boxes := make([]item.ID, 0, data.MaxDepotBoxes)
	for n := uint32(1); n <= data.MaxDepotBoxes; n++ {
		if id := p.DepotChest(n, true); id != 0 {
			boxes = append(boxes, id)
		}
	}
	return boxes
}

func (p *Player) ownsDepotChest(id item.ID) bool {
	if it := p.env.Items.Get(id); it != nil && it.Owner == p.guid {
		return true
	}
	for _, chest := range p.depotChests {
		if chest == id {
			return true
		}
	}
	return false
}

// DepotLocker returns the locker of depotID. A new locker holds, from the
// top: the depot chest with the configured number of boxes, the supply
// stash, the inbox and the market. The inbox and the boxes are shared, so
// an existing locker takes them back from whichever locker had them.
func (p *Player) DepotLocker(depotID uint32) item.ID {
	items := p.env.Items
	boxes := p.env.Cfg.Depot.Boxes
	if id, ok := p.depotLockers[depotID]; ok {
		locker := items.Get(id)
		if locker == nil {
			delete(p.depotLockers, depotID)
			return p.DepotLocker(depotID)
		}
		if inbox := items.Get(p.inbox); inbox != nil && inbox.Parent().Item != id {
			items.Insert(id, p.inbox, 2)
		}
		if chest := items.Get(locker.ChildAt(0)); chest != nil && chest.IsContainer() {
			for n := boxes; n > 0; n-- {
				box := p.DepotChest(uint32(n), false)
				if b := items.Get(box); b != nil && b.Parent().Item != chest.ID() {
					items.Insert(chest.ID(), box, item.IndexWherever)
				}
			}
		}
		return id
	}

	locker := items.Create(data.ItemDepotLocker, 1)
	if locker == nil {
		return 0
	}
	locker.Owner = p.guid
	items.SetParent(locker.ID(), p.storeParent())
	if market := items.Create(data.ItemMarket, 1); market != nil {
		items.Insert(locker.ID(), market.ID(), item.IndexWherever)
	}
	if p.inbox != 0 {
		items.Insert(locker.ID(), p.inbox, item.IndexWherever)
	}
	if stash := items.Create(data.ItemSupplyStash, 1); stash != nil {
		items.Insert(locker.ID(), stash.ID(), item.IndexWherever)
	}
	if chest := items.Create(data.ItemDepotChest, 1); chest != nil {
		for n := boxes; n > 0; n-- {
			if box := p.DepotChest(uint32(n), true); box != 0 {
				items.Insert(chest.ID(), box, item.IndexWherever)
			}
		}
		items.Insert(locker.ID(), chest.ID(), item.IndexWherever)
	}
	p.depotLockers[depotID] = locker.ID()
	return locker.ID()
}

// RewardChest returns the reward chest, creating it on first use.
func (p *Player) RewardChest() item.ID {
	if p.rewardChest != 0 && p.env.Items.Get(p.rewardChest) != nil {
		return p.rewardChest
	}
	chest := p.env.Items.Create(data.ItemRewardChest, 1)
	if chest == nil {
		return 0
	}
	chest.Owner = p.guid
	p.env.Items.SetParent(chest.ID(), p.storeParent())
	p.rewardChest = chest.ID()
	return p.rewardChest
}

// Reward returns the reward bag of rewardID. A created bag carries the
// reward id as its date and lives in the reward chest.
func (p *Player) Reward(rewardID uint32, autoCreate bool) item.ID {
	if id, ok := p.rewards[rewardID]; ok {
		return id
	}
	if !autoCreate {
		return 0
	}
	bag := p.env.Items.Create(data.ItemRewardBag, 1)
	if bag == nil {
		return 0
	}
	bag.Date = int64(rewardID)
	bag.Owner = p.guid
	p.rewards[rewardID] = bag.ID()
	p.env.Items.Insert(p.RewardChest(), bag.ID(), item.IndexWherever)
	return bag.ID()
}

// RemoveReward forgets rewardID and releases its bag.
func (p *Player) RemoveReward(rewardID uint32) {
	if id, ok := p.rewards[rewardID]; ok {
		p.env.Items.Release(id)
		delete(p.rewards, rewardID)
	}
}

// RewardList returns the reward ids in ascending order.
func (p *Player) RewardList() []uint32 {
	ids := make([]uint32, 0, len(p.rewards))
	for id := range p.rewards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MaxDepotItems is the depot item limit of the group or account type.
func (p *Player) MaxDepotItems() uint32 {
	if p.group.MaxDepotItems != 0 {
		return p.group.MaxDepotItems
	}
	if p.IsPremium() {
		return uint32(p.env.Cfg.Depot.PremiumLimit)
	}
	return uint32(p.env.Cfg.Depot.FreeLimit)
}

// StashLimit is the number of items the supply stash accepts.
func (p *Player) StashLimit() uint32 { return uint32(p.env.Cfg.Depot.StashItems) }

func (p *Player) SetLastDepotID(id int32) { p.lastDepotID = id }
func (p *Player) LastDepotID() int32      { return p.lastDepotID }

// IsNearDepotBox reports whether a depot tile is within one step.
func (p *Player) IsNearDepotBox() bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			t := p.env.Game.Tile(p.pos.Offset(dx, dy))
			if t != nil && t.HasFlag(TileDepot) {
				return true
			}
		}
	}
	return false
}

// OnReceiveMail announces new mail when the player stands at a depot.
func (p *Player) OnReceiveMail() {
	if p.IsNearDepotBox() {
		p.client.SendTextMessage(MessageEvent, "New mail has arrived.")
	}
}
