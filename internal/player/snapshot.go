package player

import (
	"sort"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
)

// ItemRecord is a saved item with everything it contains.
type ItemRecord struct {
	TypeID         uint16
	Count          uint16
	Charges        uint32
	Date           int64
	OpenContainer  uint8
	QuickLootFlags uint32
	Imbuements     []item.ImbuementSlot
	Children       []ItemRecord
}

// Snapshot is the saved state of a player. Persistence loads one to create
// a player and writes the one Player.Snapshot returns.
type Snapshot struct {
	GUID      uint32
	AccountID uint32
	Name      string
	Sex       data.Sex
	Group     *Group
	Vocation  uint16

	Position geo.Position
	Temple   geo.Position

	Level      uint32
	Experience uint64
	Skills     [data.SkillCount]SkillState
	MagLevel   uint32
	ManaSpent  uint64

	Health    int32
	HealthMax int32
	Mana      int32
	ManaMax   int32
	Soul      uint8
	Capacity  uint32

	Outfit      Outfit
	PremiumDays uint16
	Stamina     uint16
	Blessings   [blessingCount]uint8

	Skull            Skull
	SkullTicks       int64 // ms
	UnjustifiedKills []UnjustifiedKill

	OfflineTrainingTime  int32 // ms
	OfflineTrainingSkill int8

	LastLogin  int64 // unix seconds
	LastLogout int64 // unix seconds

	Storage       map[uint32]int32
	LearnedSpells []string
	Conditions    []*condition.Condition
	VIP           []uint32

	Prey        []PreySlot
	TaskHunting []TaskHuntingSlot

	WheelStages     map[WheelStage]uint8
	WheelInstants   []WheelInstant
	WheelResists    map[data.CombatType]int32
	GiftOfLifeHeal  int32 // percent
	GiftOfLifeTotal int32 // seconds
	GiftOfLifeLeft  int32 // seconds

	Inventory   map[Slot]ItemRecord
	DepotChests map[uint32][]ItemRecord
	Inbox       []ItemRecord
	Rewards     map[uint32][]ItemRecord
}

func (p *Player) restore(s *Snapshot) {
	p.guid = s.GUID
	p.accountID = s.AccountID
	p.name = s.Name
	p.sex = s.Sex
	p.group = s.Group
	p.vocation = p.env.Tables.Vocations.Get(s.Vocation)
	if p.vocation == nil {
		p.vocation = p.env.Tables.Vocations.Get(data.VocationNone)
	}

	p.pos = s.Position
	p.loginPos = s.Position
	p.templePos = s.Temple

	p.level = max(s.Level, 1)
	p.experience = max(s.Experience, ExpForLevel(p.level))
	p.skills = s.Skills
	for sk := range p.skills {
		st := &p.skills[sk]
		st.Level = max(st.Level, 10)
		if next := p.vocation.ReqSkillTries(data.Skill(sk), st.Level+1); next > 0 {
			st.Percent = p.percentLevel(st.Tries, next)
		}
	}
	p.magLevel = s.MagLevel
	p.manaSpent = s.ManaSpent
	if next := p.vocation.ReqMana(p.magLevel + 1); next > 0 {
		p.magLevelPercent = p.percentLevel(p.manaSpent, next)
	}

	p.healthMax = max(s.HealthMax, 1)
	p.health = min(max(s.Health, 0), p.healthMax)
	p.manaMax = max(s.ManaMax, 0)
	p.mana = min(max(s.Mana, 0), p.manaMax)
	p.soul = s.Soul
	p.capacity = s.Capacity

	p.defaultOutfit = s.Outfit
	p.premiumDays = s.PremiumDays
	p.stamina = min(s.Stamina, MaxStamina)
	p.blessings = s.Blessings

	p.social.skull = s.Skull
	p.social.skullTicks = s.SkullTicks
	p.social.unjustifiedKills = append([]UnjustifiedKill(nil), s.UnjustifiedKills...)

	p.offlineTrainingTime = s.OfflineTrainingTime
	p.offlineTrainingSkill = s.OfflineTrainingSkill
	p.lastStatsTrainingTime = p.offlineTrainingTime / 60000
	p.lastLogin = s.LastLogin
	p.lastLogout = s.LastLogout

	keys := make([]uint32, 0, len(s.Storage))
	for k := range s.Storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		p.setStorageValue(k, s.Storage[k], true)
	}
	p.learnedSpells = append([]string(nil), s.LearnedSpells...)
	p.storedConditions = append(p.storedConditions, s.Conditions...)
	for _, guid := range s.VIP {
		p.addVIPInternal(guid)
	}

	for i := range s.Prey {
		if slot := s.Prey[i]; slot.ID < preySlots {
			p.prey[slot.ID] = &slot
		}
	}
	for i := range s.TaskHunting {
		if slot := s.TaskHunting[i]; slot.ID < preySlots {
			p.taskHunting[slot.ID] = &slot
		}
	}

	for st, v := range s.WheelStages {
		p.wheel.SetStage(st, v)
	}
	for _, in := range s.WheelInstants {
		p.wheel.SetInstant(in, true)
	}
	for ct, v := range s.WheelResists {
		p.wheel.SetResistance(ct, v)
	}
	p.wheel.SetGiftOfLife(s.GiftOfLifeHeal, s.GiftOfLifeTotal)
	p.wheel.SetGiftOfLifeCooldown(s.GiftOfLifeLeft)

	p.restoreItems(s)
}

func (p *Player) restoreItems(s *Snapshot) {
	for slot, rec := range s.Inventory {
		if slot < SlotFirst || slot > SlotLast {
			continue
		}
		if it := p.buildItem(rec); it != nil {
			p.InternalAddThing(int(slot), it)
		}
	}
	for depotID, recs := range s.DepotChests {
		if chest := p.DepotChest(depotID, true); chest != 0 {
			p.fill(chest, recs)
		}
	}
	if p.inbox != 0 {
		p.env.Items.SetParent(p.inbox, p.storeParent())
		p.fill(p.inbox, s.Inbox)
	}
	for rewardID, recs := range s.Rewards {
		if bag := p.Reward(rewardID, true); bag != 0 {
			p.fill(bag, recs)
		}
	}

	for slot := SlotFirst; slot <= SlotLast; slot++ {
		root := p.inventory[slot]
		if root == 0 {
			continue
		}
		p.bindLoot(p.env.Items.Get(root))
		p.env.Items.Walk(root, func(it *item.Item) bool {
			p.bindLoot(it)
			return true
		})
	}
	p.updateInventoryWeight()
	p.updateItemsLight(true)
}

func (p *Player) bindLoot(it *item.Item) {
	if it == nil || !it.IsContainer() || it.QuickLootFlags == 0 {
		return
	}
	for cat := LootDefault; cat <= LootUnassigned; cat++ {
		if it.QuickLootFlags&(1<<cat) != 0 {
			p.SetLootContainer(cat, it.ID(), true)
		}
	}
}

// fill appends recs to container in saved order.
func (p *Player) fill(container item.ID, recs []ItemRecord) {
	items := p.env.Items
	c := items.Get(container)
	if c == nil {
		return
	}
	for _, rec := range recs {
		it := p.buildItem(rec)
		if it == nil {
			continue
		}
		items.Insert(container, it.ID(), len(c.Children()))
	}
}

func (p *Player) buildItem(rec ItemRecord) *item.Item {
	it := p.env.Items.Create(rec.TypeID, rec.Count)
	if it == nil {
		p.env.Log.Warn("dropping saved item of unknown type",
			zap.Uint16("type", rec.TypeID),
			zap.String("name", p.name))
		return nil
	}
	if rec.Charges != 0 {
		it.Charges = rec.Charges
	}
	it.Date = rec.Date
	it.OpenContainer = rec.OpenContainer
	it.QuickLootFlags = rec.QuickLootFlags
	it.Imbuements = append([]item.ImbuementSlot(nil), rec.Imbuements...)
	if it.IsContainer() {
		p.fill(it.ID(), rec.Children)
	}
	return it
}

// Snapshot captures the state that outlives the session. Open carried
// containers are marked first so they reopen on the next login.
func (p *Player) Snapshot() *Snapshot {
	p.MarkOpenContainers()
	s := &Snapshot{
		GUID:      p.guid,
		AccountID: p.accountID,
		Name:      p.name,
		Sex:       p.sex,
		Group:     p.group,
		Position:  p.loginPos,
		Temple:    p.templePos,

		Level:      p.level,
		Experience: p.experience,
		Skills:     p.skills,
		MagLevel:   p.magLevel,
		ManaSpent:  p.manaSpent,

		Health:    p.health,
		HealthMax: p.healthMax,
		Mana:      p.mana,
		ManaMax:   p.manaMax,
		Soul:      p.soul,
		Capacity:  p.capacity,

		Outfit:      p.defaultOutfit,
		PremiumDays: p.premiumDays,
		Stamina:     p.stamina,
		Blessings:   p.blessings,

		Skull:            p.social.skull,
		SkullTicks:       p.social.skullTicks,
		UnjustifiedKills: append([]UnjustifiedKill(nil), p.social.unjustifiedKills...),

		OfflineTrainingTime:  p.offlineTrainingTime,
		OfflineTrainingSkill: p.offlineTrainingSkill,
		LastLogin:            p.lastLogin,
		LastLogout:           p.lastLogout,

		Storage:       make(map[uint32]int32, len(p.storage)),
		LearnedSpells: append([]string(nil), p.learnedSpells...),

		WheelStages:     make(map[WheelStage]uint8),
		WheelResists:    make(map[data.CombatType]int32),
		GiftOfLifeHeal:  p.wheel.giftHeal,
		GiftOfLifeTotal: p.wheel.giftTotalCooldown,
		GiftOfLifeLeft:  p.wheel.giftCooldown,

		Inventory:   make(map[Slot]ItemRecord),
		DepotChests: make(map[uint32][]ItemRecord, len(p.depotChests)),
		Rewards:     make(map[uint32][]ItemRecord, len(p.rewards)),
	}
	if p.vocation != nil {
		s.Vocation = p.vocation.ID
	}

	for k, v := range p.storage {
		s.Storage[k] = v
	}
	for k, v := range p.reservedStorage() {
		s.Storage[k] = v
	}
	for _, c := range p.conditions.All() {
		if c.IsPersistent() {
			s.Conditions = append(s.Conditions, c)
		}
	}
	for guid := range p.social.vip {
		s.VIP = append(s.VIP, guid)
	}
	sort.Slice(s.VIP, func(i, j int) bool { return s.VIP[i] < s.VIP[j] })

	for i := range p.prey {
		if p.prey[i] != nil {
			s.Prey = append(s.Prey, *p.prey[i])
		}
		if p.taskHunting[i] != nil {
			s.TaskHunting = append(s.TaskHunting, *p.taskHunting[i])
		}
	}

	for st := WheelStage(0); st < stageCount; st++ {
		if v := p.wheel.Stage(st); v != 0 {
			s.WheelStages[st] = v
		}
	}
	for in := WheelInstant(0); in < instantCount; in++ {
		if p.wheel.Instant(in) {
			s.WheelInstants = append(s.WheelInstants, in)
		}
	}
	for ct := range p.wheel.resistance {
		if v := p.wheel.resistance[ct]; v != 0 {
			s.WheelResists[data.CombatType(ct)] = v
		}
	}

	for slot := SlotFirst; slot <= SlotLast; slot++ {
		if it := p.env.Items.Get(p.inventory[slot]); it != nil {
			s.Inventory[slot] = p.record(it)
		}
	}
	for depotID, chest := range p.depotChests {
		s.DepotChests[depotID] = p.records(chest)
	}
	s.Inbox = p.records(p.inbox)
	for rewardID, bag := range p.rewards {
		if recs := p.records(bag); len(recs) > 0 {
			s.Rewards[rewardID] = recs
		}
	}
	return s
}

func (p *Player) record(it *item.Item) ItemRecord {
	rec := ItemRecord{
		TypeID:         it.TypeID(),
		Count:          it.Count,
		Charges:        it.Charges,
		Date:           it.Date,
		OpenContainer:  it.OpenContainer,
		QuickLootFlags: it.QuickLootFlags,
		Imbuements:     append([]item.ImbuementSlot(nil), it.Imbuements...),
	}
	if it.IsContainer() {
		rec.Children = p.records(it.ID())
	}
	return rec
}

// records lists the contents of container in slot order.
func (p *Player) records(container item.ID) []ItemRecord {
	c := p.env.Items.Get(container)
	if c == nil {
		return nil
	}
	var recs []ItemRecord
	for _, id := range c.Children() {
		if it := p.env.Items.Get(id); it != nil {
			recs = append(recs, p.record(it))
		}
	}
	return recs
}
