package player

import (
	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/core/sched"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
)

// Flag is a group permission bit.
type Flag uint64

const (
	FlagCannotUseCombat Flag = 1 << iota
	FlagCannotPickup
	FlagHasInfiniteCapacity
	FlagHasInfiniteMana
	FlagNotGainInFight
	FlagNotGainExperience
	FlagNotGainMana
	FlagNotGainSkill
	FlagCannotBeMuted
	FlagCannotUseSpells
	FlagIgnoreSpellCheck
	FlagIsAlwaysPremium
	FlagIgnoreProtectionZone
	FlagCannotBeAttacked
)

// Group is the account group a player belongs to.
type Group struct {
	ID            uint16
	Name          string
	Access        bool
	Flags         Flag
	MaxDepotItems uint32
	MaxVIPEntries uint32
}

func (g *Group) has(f Flag) bool { return g != nil && g.Flags&f != 0 }

type SkillState struct {
	Level   uint16
	Tries   uint64
	Percent float64
}

type Stat uint8

const (
	StatMaxHealth Stat = iota
	StatMaxMana
	statCount
)

type FightMode uint8

const (
	FightAttack FightMode = iota + 1
	FightBalanced
	FightDefense
)

type Light struct {
	Level uint8
	Color uint8
}

type openContainer struct {
	container item.ID
	index     uint16
}

// Player is the in-world state of one character. It is owned by the game
// loop; no method is safe for concurrent use.
type Player struct {
	env    *Env
	client Client

	id        uint32
	guid      uint32
	accountID uint32
	name      string
	sex       data.Sex
	group     *Group
	vocation  *data.Vocation

	pos       geo.Position
	loginPos  geo.Position
	templePos geo.Position
	zone      Zone

	level           uint32
	experience      uint64
	levelPercent    float64
	skills          [data.SkillCount]SkillState
	varSkills       [data.SkillCount]int32
	magLevel        uint32
	manaSpent       uint64
	magLevelPercent float64
	varMagic        int32

	health        int32
	healthMax     int32
	mana          int32
	manaMax       int32
	soul          uint8
	capacity      uint32
	bonusCapacity uint32
	varStats      [statCount]int32
	baseSpeed     uint32
	varSpeed      int32

	inventory       [slotCount]item.ID
	inventoryWeight uint32
	itemsLight      Light
	internalLight   Light

	openContainers map[uint8]*openContainer
	depotLockers   map[uint32]item.ID
	depotChests    map[uint32]item.ID
	inbox          item.ID
	rewardChest    item.ID
	rewards        map[uint32]item.ID
	quickLoot      map[LootCategory]item.ID
	lastDepotID    int32

	conditions       *condition.Set
	storedConditions []*condition.Condition

	social socialState

	storage       map[uint32]int32
	outfits       []OutfitEntry
	familiars     []uint16
	defaultOutfit Outfit

	lastToggleMount int64
	wasMounted      bool

	learnedSpells []string
	blessings     [blessingCount]uint8
	premiumDays   uint16
	stamina       uint16

	combat combatState
	wheel  Wheel

	offlineTrainingTime   int32 // ms
	offlineTrainingSkill  int8
	lastStatsTrainingTime int32

	lastPing   int64
	lastPong   int64
	lastLogin  int64
	lastLogout int64
	idleTime   int64

	messageBufferCount int32
	messageBufferTicks int64
	nextAction         int64

	lastWalkthroughAttempt  int64
	lastWalkthroughPosition geo.Position

	lanes sched.Lanes

	tradeState   TradeState
	tradeItem    item.ID
	tradePartner *Player
	shopOwner    uint32
	inMarket     bool

	modalWindows []uint32

	prey        [3]*PreySlot
	taskHunting [3]*TaskHuntingSlot

	skillLoss        bool
	connecting       bool
	exerciseTraining bool
	removed          bool
	died             bool
}

// New creates a player from its saved state. The inbox is created here,
// the remaining stores lazily on first use. Reserved storage keys in snap
// are decoded back into outfits, mounts and familiars.
func New(env *Env, id uint32, snap *Snapshot) *Player {
	now := env.now()
	p := &Player{
		env:            env,
		client:         NopClient{},
		id:             id,
		openContainers: make(map[uint8]*openContainer),
		depotLockers:   make(map[uint32]item.ID),
		depotChests:    make(map[uint32]item.ID),
		rewards:        make(map[uint32]item.ID),
		quickLoot:      make(map[LootCategory]item.ID),
		conditions:     condition.NewSet(),
		storage:        make(map[uint32]int32),
		lastDepotID:    -1,
		lastPing:       now,
		lastPong:       now,
		skillLoss:      true,
		connecting:     true,
		social:         newSocialState(),
		combat:         newCombatState(),
		stamina:        MaxStamina,
	}
	if inbox := env.Items.Create(data.ItemInbox, 1); inbox != nil {
		p.inbox = inbox.ID()
	}
	if snap != nil {
		p.restore(snap)
	}
	if p.group == nil {
		p.group = &Group{ID: 1, Name: "player"}
	}
	if p.vocation == nil {
		p.vocation = env.Tables.Vocations.Get(data.VocationNone)
	}
	p.setupRegeneration()
	p.updateBaseSpeed()
	p.levelPercent = p.percentLevel(p.experience-ExpForLevel(p.level), ExpForLevel(p.level+1)-ExpForLevel(p.level))
	return p
}

// Release frees every item the player owns. Call once after the player
// left the world and was saved.
func (p *Player) Release() {
	items := p.env.Items
	for s := SlotFirst; s <= SlotLast; s++ {
		if id := p.inventory[s]; id != 0 {
			items.Release(id)
			p.inventory[s] = 0
		}
	}
	for id, locker := range p.depotLockers {
		if l := items.Get(locker); l != nil {
			// the inbox is shared between lockers and released once below
			items.Detach(p.inbox)
		}
		items.Release(locker)
		delete(p.depotLockers, id)
	}
	for id, chest := range p.depotChests {
		items.Release(chest)
		delete(p.depotChests, id)
	}
	for id, bag := range p.rewards {
		items.Release(bag)
		delete(p.rewards, id)
	}
	if p.rewardChest != 0 {
		items.Release(p.rewardChest)
		p.rewardChest = 0
	}
	clear(p.quickLoot)
	for i := range p.prey {
		p.prey[i] = nil
		p.taskHunting[i] = nil
	}
	if p.inbox != 0 {
		items.Release(p.inbox)
		p.inbox = 0
	}
	p.lanes.StopAll(p.env.Sched)
}

func (p *Player) CreatureID() uint32           { return p.id }
func (p *Player) Kind() CreatureKind           { return KindPlayer }
func (p *Player) Name() string                 { return p.name }
func (p *Player) Position() geo.Position       { return p.pos }
func (p *Player) Health() int32                { return p.health }
func (p *Player) Master() Creature             { return nil }
func (p *Player) AsPlayer() *Player            { return p }
func (p *Player) IsHostile() bool              { return false }
func (p *Player) RaceID() uint16               { return 0 }
func (p *Player) GUID() uint32                 { return p.guid }
func (p *Player) AccountID() uint32            { return p.accountID }
func (p *Player) Sex() data.Sex                { return p.sex }
func (p *Player) Group() *Group                { return p.group }
func (p *Player) Vocation() *data.Vocation     { return p.vocation }
func (p *Player) Level() uint32                { return p.level }
func (p *Player) Experience() uint64           { return p.experience }
func (p *Player) LevelPercent() float64        { return p.levelPercent }
func (p *Player) MagicLevelBase() uint32       { return p.magLevel }
func (p *Player) ManaSpent() uint64            { return p.manaSpent }
func (p *Player) Mana() int32                  { return p.mana }
func (p *Player) Soul() uint8                  { return p.soul }
func (p *Player) Capacity() uint32             { return p.capacity }
func (p *Player) LoginPosition() geo.Position  { return p.loginPos }
func (p *Player) TemplePosition() geo.Position { return p.templePos }
func (p *Player) Client() Client               { return p.client }
func (p *Player) Conditions() *condition.Set   { return p.conditions }
func (p *Player) Stamina() uint16              { return p.stamina }
func (p *Player) PremiumDays() uint16          { return p.premiumDays }
func (p *Player) IsRemoved() bool              { return p.removed }
func (p *Player) Zone() Zone                   { return p.zone }

// Skill returns the stored progression of s without bonuses.
func (p *Player) Skill(s data.Skill) SkillState { return p.skills[s] }

func (p *Player) MaxHealth() int32 {
	return max(1, p.healthMax+p.varStats[StatMaxHealth])
}

func (p *Player) MaxMana() int32 {
	return max(0, p.manaMax+p.varStats[StatMaxMana])
}

func (p *Player) Speed() uint32 {
	return uint32(max(0, int64(p.baseSpeed)+int64(p.varSpeed)))
}

func (p *Player) BaseSpeed() uint32 { return p.baseSpeed }

// AddSpeed applies a speed delta. Game.ChangeSpeed calls it before it
// broadcasts the new speed.
func (p *Player) AddSpeed(delta int32) { p.varSpeed += delta }

// SetVarStat applies a max health or max mana bonus and clamps the
// current value into the new range.
func (p *Player) SetVarStat(s Stat, delta int32) {
	p.varStats[s] += delta
	switch s {
	case StatMaxHealth:
		p.health = min(p.health, p.MaxHealth())
	case StatMaxMana:
		p.mana = min(p.mana, p.MaxMana())
	}
}

func (p *Player) SetVarSkill(s data.Skill, delta int32) { p.varSkills[s] += delta }
func (p *Player) SetVarMagic(delta int32)               { p.varMagic += delta }

// SetClient binds the protocol handle. A nil client detaches it.
func (p *Player) SetClient(c Client) {
	if c == nil {
		c = NopClient{}
	}
	p.client = c
}

// IsOnline reports whether a protocol handle is bound.
func (p *Player) IsOnline() bool {
	_, nop := p.client.(NopClient)
	return !nop
}

func (p *Player) SetPosition(pos geo.Position) { p.pos = pos }

func (p *Player) tile() Tile {
	if p.env.Game == nil {
		return nil
	}
	return p.env.Game.Tile(p.pos)
}

func (p *Player) hasFlag(f Flag) bool { return p.group.has(f) }

// HasFlag reports whether the player's group grants f.
func (p *Player) HasFlag(f Flag) bool { return p.group.has(f) }

func (p *Player) worldType() string { return p.env.worldType() }

func (p *Player) IsAccessPlayer() bool { return p.group != nil && p.group.Access }

// SetVocation replaces the vocation and refreshes the values derived from it.
func (p *Player) SetVocation(id uint16) bool {
	v := p.env.Tables.Vocations.Get(id)
	if v == nil {
		return false
	}
	p.vocation = v
	p.setupRegeneration()
	p.updateBaseSpeed()
	return true
}

// setupRegeneration refreshes the regeneration condition with the
// vocation's gain values.
func (p *Player) setupRegeneration() {
	c := p.conditions.Get(condition.Regeneration, condition.IDDefault, 0)
	if c == nil {
		return
	}
	c.SetParam(condition.ParamHealthGain, int32(p.vocation.GainHP))
	c.SetParam(condition.ParamManaGain, int32(p.vocation.GainMana))
}

func (p *Player) updateBaseSpeed() {
	if p.vocation == nil {
		return
	}
	if p.level == 0 {
		p.baseSpeed = uint32(p.vocation.BaseSpeed)
		return
	}
	p.baseSpeed = uint32(p.vocation.BaseSpeed) + 2*(p.level-1)
}

func (p *Player) IsPromoted() bool {
	return p.env.Tables.Vocations.IsPromoted(p.vocation)
}

// IsPremium reports premium status, free premium servers included.
func (p *Player) IsPremium() bool {
	if p.env.Cfg.Game.FreePremium || p.hasFlag(FlagIsAlwaysPremium) {
		return true
	}
	return p.premiumDays > 0
}

func (p *Player) Light() Light {
	if p.internalLight.Level >= p.itemsLight.Level {
		return p.internalLight
	}
	return p.itemsLight
}

func (p *Player) updateItemsLight(internal bool) {
	var light Light
	for s := SlotFirst; s <= SlotLast; s++ {
		it := p.env.Items.Get(p.inventory[s])
		if it == nil {
			continue
		}
		if l := it.Type().Light; l > light.Level {
			light = Light{Level: l, Color: it.Type().LightColor}
		}
	}
	if p.itemsLight != light {
		p.itemsLight = light
		if !internal && p.env.Game != nil {
			p.env.Game.ChangeLight(p)
		}
	}
}

func (p *Player) CanDoAction() bool { return p.nextAction <= p.env.now() }

// NextActionTime is the delay until the next action is allowed, never
// shorter than a scheduler tick.
func (p *Player) NextActionTime() int64 {
	return max(sched.MinTicks.Milliseconds(), p.nextAction-p.env.now())
}

func (p *Player) SetNextAction(t int64) {
	if t > p.nextAction {
		p.nextAction = t
	}
}

func (p *Player) sendStats() {
	p.lastStatsTrainingTime = p.offlineTrainingTime / 60000
	p.client.SendStats()
}

func (p *Player) sendSkills() { p.client.SendSkills() }

func (p *Player) sendIcons() { p.client.SendIcons(p.ClientIcons()) }
