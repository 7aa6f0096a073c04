package player

import (
	"fmt"
	"math/bits"

	"github.com/l1jgo/playerd/internal/condition"
)

// maxClientIcons is the number of status icons the client can draw.
const maxClientIcons = 9

// AddCondition attaches c. While the player is still connecting the
// condition is held back and attached when the player appears.
func (p *Player) AddCondition(c *condition.Condition) bool {
	if c == nil {
		return false
	}
	if p.connecting {
		p.storedConditions = append(p.storedConditions, c)
		return true
	}
	if p.IsImmune(c.Type) {
		return false
	}
	if p.conditions.Add(c) {
		p.onAddCondition(c.Type)
	} else {
		p.sendIcons()
	}
	return true
}

// AddCombatCondition attaches a condition caused by an attack and tells
// the player about it.
func (p *Player) AddCombatCondition(c *condition.Condition) bool {
	if !p.AddCondition(c) {
		return false
	}
	p.onAddCombatCondition(c.Type)
	return true
}

// RemoveCondition ends every condition of type t with the given id.
func (p *Player) RemoveCondition(t condition.Type, id condition.ID) {
	if len(p.conditions.Remove(t, id)) > 0 {
		p.onEndCondition(t)
	}
}

func (p *Player) removeConditionExact(c *condition.Condition) {
	if p.conditions.RemoveCondition(c) {
		p.onEndCondition(c.Type)
	}
}

// HasCondition reports an active, unsuppressed condition of type t.
func (p *Player) HasCondition(t condition.Type) bool { return p.conditions.Has(t) }

func (p *Player) AddConditionSuppressions(mask condition.Type) {
	p.conditions.Suppress(mask)
	p.sendIcons()
}

func (p *Player) RemoveConditionSuppressions(mask condition.Type) {
	p.conditions.Unsuppress(mask)
	p.sendIcons()
}

// IsImmune reports immunity to condition type t. Players flagged as
// unattackable ignore every harmful condition.
func (p *Player) IsImmune(t condition.Type) bool {
	if !p.hasFlag(FlagCannotBeAttacked) {
		return false
	}
	switch t {
	case condition.Poison, condition.Fire, condition.Energy, condition.Bleeding,
		condition.Paralyze, condition.Drunk, condition.Drown, condition.Freezing,
		condition.Dazzled, condition.Cursed, condition.Rooted:
		return true
	}
	return false
}

// tickConditions runs the timers of every condition and ends the expired
// ones before anything else of the tick sees them.
func (p *Player) tickConditions(interval int32) {
	for _, c := range p.conditions.Tick(interval) {
		p.onEndCondition(c.Type)
	}
}

// attachStoredConditions moves conditions added while connecting into the
// live set.
func (p *Player) attachStoredConditions() {
	stored := p.storedConditions
	p.storedConditions = nil
	for _, c := range stored {
		p.AddCondition(c)
	}
}

func (p *Player) onAddCondition(t condition.Type) {
	if t == condition.Outfit && p.IsMounted() {
		p.Dismount()
	}
	p.sendIcons()
}

var combatConditionMessages = map[condition.Type]string{
	condition.Poison:   "You are poisoned.",
	condition.Drown:    "You are drowning.",
	condition.Paralyze: "You are paralyzed.",
	condition.Drunk:    "You are drunk.",
	condition.Rooted:   "You are rooted.",
	condition.Cursed:   "You are cursed.",
	condition.Freezing: "You are freezing.",
	condition.Dazzled:  "You are dazzled.",
	condition.Bleeding: "You are bleeding.",
}

func (p *Player) onAddCombatCondition(t condition.Type) {
	if msg, ok := combatConditionMessages[t]; ok {
		p.client.SendTextMessage(MessageFailure, msg)
	}
}

func (p *Player) onEndCondition(t condition.Type) {
	switch t {
	case condition.InFight:
		p.onIdleStatus()
		p.combat.pzLocked = false
		p.ClearAttacked()
		if s := p.social.skull; s != SkullRed && s != SkullBlack {
			p.SetSkull(SkullNone)
		}
	}
	p.sendIcons()
}

// OnCombatRemoveCondition handles a condition cured by combat. Item
// conditions may break their item on enforced PvP worlds; other
// conditions linger until the next action is allowed.
func (p *Player) OnCombatRemoveCondition(c *condition.Condition) {
	if c.ID > 0 {
		if p.worldType() == pvpEnforced {
			if inv := p.InventoryItem(Slot(c.ID)); inv != nil && p.env.Rand.Intn(100) < 25 {
				p.env.Game.InternalRemoveItem(inv.ID(), -1)
			}
		}
		return
	}
	if p.CanDoAction() {
		p.removeConditionExact(c)
		return
	}
	delay := p.NextActionTime()
	think := p.env.thinkInterval()
	ticks := delay - delay%max(think, 1)
	if ticks <= 0 {
		p.removeConditionExact(c)
		return
	}
	c.Ticks = int32(ticks)
}

// addInFightTicks refreshes the in-fight condition, optionally locking the
// player out of protection zones.
func (p *Player) addInFightTicks(pzLock bool) {
	if p.hasFlag(FlagNotGainInFight) {
		return
	}
	if pzLock {
		p.combat.pzLocked = true
	}
	p.AddCondition(condition.New(condition.InFight, condition.IDDefault, int32(p.env.Cfg.Game.PzLocked), 0))
	if p.wheel.onFight(p) {
		p.sendSkills()
	}
}

// pzLockFor stretches a running in-fight condition to ticks ms.
func (p *Player) pzLockFor(ticks int32) {
	if c := p.conditions.Get(condition.InFight, condition.IDDefault, 0); c != nil {
		c.Ticks = ticks
		p.sendIcons()
	}
}

func (p *Player) IsPzLocked() bool { return p.combat.pzLocked }

// ClientIcons is the status icon mask shown by the client: unsuppressed
// condition icons, the red swords while pz-locked and the pigeon inside a
// protection zone, which also hides the swords. Icons above the client's
// limit are dropped starting from the lowest bit.
func (p *Player) ClientIcons() uint32 {
	icons := p.conditions.Icons()
	if p.combat.pzLocked {
		icons |= condition.IconRedSwords
	}
	if t := p.tile(); t != nil && t.HasFlag(TileProtectionZone) {
		icons |= condition.IconPigeon
		icons &^= condition.IconSwords
		p.client.SendRestingStatus(true)
	} else {
		p.client.SendRestingStatus(false)
	}
	for n := bits.OnesCount32(icons); n > maxClientIcons; n-- {
		icons &= icons - 1
	}
	return icons
}

// IsMuted returns the remaining mute in seconds.
func (p *Player) IsMuted() uint32 {
	if p.hasFlag(FlagCannotBeMuted) {
		return 0
	}
	ticks := max(p.conditions.MaxTicks(condition.Muted), 0)
	return uint32(ticks) / 1000
}

// MuteConditions returns the running mute conditions, used to carry mutes
// across a logout.
func (p *Player) MuteConditions() []*condition.Condition {
	var out []*condition.Condition
	for _, c := range p.conditions.All() {
		if c.IsMute() && c.Ticks > 0 {
			out = append(out, c)
		}
	}
	return out
}

// addMessageBuffer gives back one message of the flood allowance.
func (p *Player) addMessageBuffer() {
	if p.messageBufferCount > 0 && p.env.Cfg.Game.MaxMessageBuffer != 0 && !p.hasFlag(FlagCannotBeMuted) {
		p.messageBufferCount--
	}
}

// RemoveMessageBuffer spends one message of the flood allowance. Going
// over it mutes the player for 5*n*n seconds, n growing with every mute.
func (p *Player) RemoveMessageBuffer() {
	if p.hasFlag(FlagCannotBeMuted) {
		return
	}
	maxBuffer := int32(p.env.Cfg.Game.MaxMessageBuffer)
	if maxBuffer == 0 || p.messageBufferCount > maxBuffer+1 {
		return
	}
	p.messageBufferCount++
	if p.messageBufferCount <= maxBuffer {
		return
	}
	muteCount, ok := p.env.MuteCounts[p.guid]
	if !ok {
		muteCount = 1
	}
	muteTime := 5 * muteCount * muteCount
	p.env.MuteCounts[p.guid] = muteCount + 1
	p.AddCondition(condition.New(condition.Muted, condition.IDDefault, int32(muteTime*1000), 0))
	p.client.SendTextMessage(MessageFailure, fmt.Sprintf("You are muted for %d seconds.", muteTime))
}

// MessageBufferCount is the number of messages counted against the
// flood allowance.
func (p *Player) MessageBufferCount() int32 { return p.messageBufferCount }
