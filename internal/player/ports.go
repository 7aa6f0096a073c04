package player

import (
	"context"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
)

// CreatureKind tags the concrete kind behind a Creature.
type CreatureKind uint8

const (
	KindPlayer CreatureKind = iota
	KindMonster
	KindNPC
)

// Creature is the read-only view the player logic needs of anything that
// walks the map. Players implement it themselves.
type Creature interface {
	CreatureID() uint32
	Kind() CreatureKind
	Name() string
	Position() geo.Position
	Health() int32
	MaxHealth() int32
	// Master is the owner of a summon, or nil.
	Master() Creature
	// AsPlayer returns the player behind the creature, or nil.
	AsPlayer() *Player
	// IsHostile is true for monsters that attack players.
	IsHostile() bool
	// RaceID identifies a monster race for prey and hunting tasks.
	RaceID() uint16
}

// TileFlag describes zone and tile properties.
type TileFlag uint32

const (
	TileProtectionZone TileFlag = 1 << iota
	TileNoPvPZone
	TilePvPZone
	TileNoLogout
	TileDepot
	TileHouse
)

type Zone uint8

const (
	ZoneNormal Zone = iota
	ZoneProtection
	ZoneNoPvP
	ZonePvP
)

func (z Zone) String() string {
	switch z {
	case ZoneProtection:
		return "protection"
	case ZoneNoPvP:
		return "nopvp"
	case ZonePvP:
		return "pvp"
	}
	return "normal"
}

type Tile interface {
	Position() geo.Position
	HasFlag(f TileFlag) bool
	// ItemTypeCount counts items of typeID lying on the tile.
	ItemTypeCount(typeID uint16) uint32
	// TopVisibleCreature is the creature drawn on top for viewer, or nil.
	TopVisibleCreature(viewer Creature) Creature
	// HasWalkStack reports whether creatures may stack on the ground item.
	HasWalkStack() bool
	HouseID() uint32
}

// ZoneOf derives the zone from tile flags. A nil tile is a normal zone.
func ZoneOf(t Tile) Zone {
	switch {
	case t == nil:
		return ZoneNormal
	case t.HasFlag(TileProtectionZone):
		return ZoneProtection
	case t.HasFlag(TileNoPvPZone):
		return ZoneNoPvP
	case t.HasFlag(TilePvPZone):
		return ZonePvP
	}
	return ZoneNormal
}

// MessageClass selects the client channel a text message is shown in.
type MessageClass uint8

const (
	MessageStatus MessageClass = iota + 17
	MessageEvent
	MessageFailure
	MessageLogin
	MessageInfoDescr
	MessageExperience
	MessageExperienceOthers
	MessageDamageDealt
	MessageWarning
)

type SquareColor uint8

const SquareBlack SquareColor = 0

type MagicEffect uint16

const (
	EffectPoff        MagicEffect = 3
	EffectTeleport    MagicEffect = 11
	EffectHolyDamage  MagicEffect = 40
	EffectWaterDrop   MagicEffect = 53
	EffectMomentum    MagicEffect = 230
	EffectPurpleSpark MagicEffect = 243
)

type SoundEffect uint16

const SoundDeath SoundEffect = 1

type VIPStatus uint8

const (
	VIPOffline VIPStatus = iota
	VIPOnline
	VIPPending
)

// ModalWindow is the client-side dialog the player may answer.
type ModalWindow struct {
	ID      uint32
	Title   string
	Message string
	Buttons []string
}

// OfflineTrainingWindowID is the modal window id used by offline training
// dialogs; moving while it is open cancels training.
const OfflineTrainingWindowID uint32 = ^uint32(0)

// Client is the protocol handle of a connected player. Every method is
// fire-and-forget: implementations buffer the packet and return.
type Client interface {
	SendStats()
	SendSkills()
	SendIcons(icons uint32)
	SendTextMessage(class MessageClass, text string)
	SendCancelMessage(rv item.ReturnValue)
	SendCancelTarget()
	SendContainer(cid uint8, container item.ID, hasParent bool, firstIndex uint16)
	SendAddContainerItem(cid uint8, slot uint16, it item.ID)
	SendUpdateContainerItem(cid uint8, slot uint16, it item.ID)
	SendRemoveContainerItem(cid uint8, slot uint16, last item.ID)
	SendCloseContainer(cid uint8)
	SendInventoryItem(slot Slot, it item.ID)
	SendCreatureSkull(c Creature)
	SendCreatureSquare(c Creature, color SquareColor)
	SendPing()
	SendHouseWindow(windowTextID uint32, text string)
	SendImbuementWindow(it item.ID)
	SendMarketEnter(depotID uint32)
	SendShop(npcID uint32)
	SendSaleItemList()
	SendCloseShop()
	SendRestingStatus(resting bool)
	SendUnjustifiedPoints(p UnjustifiedPoints)
	SendModalWindow(w ModalWindow)
	SendVIP(guid uint32, name, description string, icon uint32, notify bool, status VIPStatus)
	SendUpdatedVIPStatus(guid uint32, status VIPStatus)
	SendClosePrivate(channelID uint16)
	SendOpenStash()
	SendReLoginWindow(unfairFightReduction uint8)
	SendBlessStatus()
	SendSpellCooldown(spellID uint16, ms uint32)
	SendSpellGroupCooldown(group uint8, ms uint32)
	SendOutfitWindow()
	SendExperienceTracker(raw, final int64)
	WriteToOutputBuffer(msg []byte)
	Logout(displayEffect, forced bool)
	IP() string
	CanSee(pos geo.Position) bool
}

// Game is the world façade the player drives. It owns the map, the online
// registry and every cross-creature side effect.
type Game interface {
	Tile(pos geo.Position) Tile
	Spectators(center geo.Position, rangeX, rangeY int, onlyPlayers bool) []Creature
	AddMagicEffect(pos geo.Position, effect MagicEffect)
	SendSingleSoundEffect(pos geo.Position, sound SoundEffect, actor Creature)
	ChangeSpeed(c Creature, delta int32)
	ChangeLight(c Creature)
	InternalTeleport(c Creature, pos geo.Position) item.ReturnValue
	InternalCloseTrade(p *Player)
	InternalCreatureChangeOutfit(c Creature, o Outfit)
	InternalRemoveItem(id item.ID, count int32) item.ReturnValue
	InternalRemoveItems(ids []item.ID, amount uint32, stackable bool)
	TransformItem(id item.ID, typeID uint16, charges int32) item.ID
	UpdateCreatureWalkthrough(c Creature)
	CheckCreatureAttack(creatureID uint32)
	AddToCheckFollow(c Creature)
	ReloadCreature(c Creature)
	AddCreatureHealth(c Creature)
	AddPlayerMana(p *Player)
	PlayerByGUID(guid uint32) *Player
	Players() []*Player
	AddPlayer(p *Player)
	RemovePlayer(p *Player)
	RemoveCreature(c Creature, isLogout bool) bool
}

type PartyShield uint8

const (
	ShieldNone PartyShield = iota
	ShieldWhiteYellow
	ShieldWhiteBlue
	ShieldBlue
	ShieldYellow
	ShieldBlueSharedExp
	ShieldYellowSharedExp
	ShieldBlueNoSharedExpBlink
	ShieldYellowNoSharedExpBlink
	ShieldBlueNoSharedExp
	ShieldYellowNoSharedExp
	ShieldGray
)

type Party interface {
	Leader() *Player
	Members() []*Player
	IsInvited(p *Player) bool
	RemoveInvite(p *Player, removeFromPlayer bool)
	SharedExperienceActive() bool
	SharedExperienceEnabled() bool
	CanUseSharedExperience(p *Player) bool
	UpdateSharedExperience()
	UpdatePlayerTicks(p *Player, points uint32)
	ClearPlayerPoints(p *Player)
	ShareExperience(exp uint64, source Creature)
	UpdatePlayerStatus(p *Player)
	LeaveParty(p *Player) bool
}

type Guild interface {
	ID() uint32
	Name() string
	AddMember(p *Player)
	RemoveMember(p *Player)
}

type GuildEmblem uint8

const (
	EmblemNone GuildEmblem = iota
	EmblemGreen
	EmblemRed
	EmblemBlue
	EmblemMember
	EmblemOther
)

// SkillKind extends data.Skill with magic level and character level so
// hooks and advance events share one key space.
type SkillKind uint8

const (
	SkillMagic SkillKind = SkillKind(data.SkillCount)
	SkillLevel SkillKind = SkillKind(data.SkillCount) + 1
)

func (k SkillKind) String() string {
	switch k {
	case SkillMagic:
		return "magic level"
	case SkillLevel:
		return "level"
	}
	return data.Skill(k).String()
}

// Hooks are the scripted event points. Implementations run on the game
// loop and must not block.
type Hooks interface {
	OnGainSkillTries(p *Player, skill SkillKind, tries uint64) uint64
	OnGainExperience(p *Player, source Creature, exp, raw uint64) uint64
	OnLoseExperience(p *Player, exp uint64) uint64
	OnChangeZone(p *Player, zone Zone)
	OnStorageUpdate(p *Player, key uint32, value, oldValue int32, hadOld bool)
	OnEquip(p *Player, it *item.Item, slot Slot, isCheck bool) bool
	OnDeEquip(p *Player, it *item.Item, slot Slot, isCheck bool) bool
	PlayerAdvance(p *Player, skill SkillKind, oldLevel, newLevel uint32)
	PlayerLogin(p *Player) bool
	PlayerLogout(p *Player) bool
}

// NopHooks passes every value through and approves every action.
type NopHooks struct{}

func (NopHooks) OnGainSkillTries(_ *Player, _ SkillKind, tries uint64) uint64 { return tries }
func (NopHooks) OnGainExperience(_ *Player, _ Creature, exp, _ uint64) uint64 { return exp }
func (NopHooks) OnLoseExperience(_ *Player, exp uint64) uint64                { return exp }
func (NopHooks) OnChangeZone(*Player, Zone)                                   {}
func (NopHooks) OnStorageUpdate(*Player, uint32, int32, int32, bool)          {}
func (NopHooks) OnEquip(*Player, *item.Item, Slot, bool) bool                 { return true }
func (NopHooks) OnDeEquip(*Player, *item.Item, Slot, bool) bool               { return true }
func (NopHooks) PlayerAdvance(*Player, SkillKind, uint32, uint32)             {}
func (NopHooks) PlayerLogin(*Player) bool                                     { return true }
func (NopHooks) PlayerLogout(*Player) bool                                    { return true }

// Weapons performs attacks with an equipped tool. A nil tool is a fist
// attack.
type Weapons interface {
	Use(p *Player, tool *item.Item, target Creature) bool
	// InterruptsSwing reports whether the swing of tool waits for the
	// player's action exhaust.
	InterruptsSwing(tool *item.Item) bool
}

type fistOnly struct{}

func (fistOnly) Use(*Player, *item.Item, Creature) bool { return true }
func (fistOnly) InterruptsSwing(*item.Item) bool        { return false }

// VIPEntry is one row of an account's VIP list.
type VIPEntry struct {
	GUID        uint32
	Name        string
	Description string
	Icon        uint32
	Notify      bool
}

// Store persists players and account VIP lists.
//
//go:generate mockgen -destination=playermock/store.go -package=playermock github.com/l1jgo/playerd/internal/player Store
type Store interface {
	SavePlayer(ctx context.Context, p *Player) error
	UpdateOnlineStatus(ctx context.Context, guid uint32, online bool) error
	AddVIPEntry(ctx context.Context, accountID uint32, e VIPEntry) error
	EditVIPEntry(ctx context.Context, accountID uint32, e VIPEntry) error
	RemoveVIPEntry(ctx context.Context, accountID, guid uint32) error
}
