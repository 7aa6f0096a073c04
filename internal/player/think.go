package player

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/core/event"
)

const (
	pingEvery          = 5000  // ms
	targetLostAfter    = 7000  // ms without pong
	logoutAfterNoPong  = 60000 // ms without pong
	messageBufferEvery = 1500  // ms
	momentumEvery      = 2000  // ms
	walkthroughWindow  = 2000  // ms
	maxOfflineSeconds  = 21 * secondsPerDay
)

// OnThink advances the player by one think interval of ms milliseconds.
func (p *Player) OnThink(interval int64) {
	p.tickConditions(int32(interval))
	p.sendPing()

	p.messageBufferTicks += interval
	if p.messageBufferTicks >= messageBufferEvery {
		p.messageBufferTicks = 0
		p.addMessageBuffer()
	}

	p.checkIdle(interval)

	if p.worldType() != pvpEnforced {
		p.checkSkullTicks(interval / 1000)
	}

	p.AddOfflineTrainingTime(int32(interval))
	if p.lastStatsTrainingTime != p.offlineTrainingTime/60000 {
		p.sendStats()
	}

	if p.HasCondition(condition.InFight) && p.combat.momentum != 0 {
		p.combat.lastMomentumTime += interval
		if p.combat.lastMomentumTime >= momentumEvery {
			if p.env.Rand.Float64() <= p.combat.momentum {
				p.ReduceSpellCooldown(2000)
			}
			p.combat.lastMomentumTime = 0
		}
	}

	p.onThinkWheel(false)
}

func (p *Player) checkIdle(interval int64) {
	if t := p.tile(); (t != nil && t.HasFlag(TileNoLogout)) || p.IsAccessPlayer() || p.exerciseTraining {
		return
	}
	p.idleTime += interval
	kick := int64(p.env.Cfg.Game.KickAfterMinutes) * 60000
	switch {
	case p.idleTime > kick+60000:
		p.KickPlayer(true)
	case p.idleTime == kick && p.IsOnline():
		p.client.SendTextMessage(MessageWarning, fmt.Sprintf(
			"There was no variation in your behaviour for %d minutes. You will be disconnected in one minute if there is no change in your actions until then.",
			p.env.Cfg.Game.KickAfterMinutes))
	}
}

// ResetIdleTime is called on every client action.
func (p *Player) ResetIdleTime() { p.idleTime = 0 }

func (p *Player) IdleTime() int64 { return p.idleTime }

func (p *Player) SetExerciseTraining(v bool) { p.exerciseTraining = v }

// ReceivePong records a pong from the client.
func (p *Player) ReceivePong() { p.lastPong = p.env.now() }

// sendPing pings the client every five seconds. A silent client loses its
// player target after seven seconds and is logged out after a minute.
func (p *Player) sendPing() {
	now := p.env.now()
	lost := false
	if now-p.lastPing >= pingEvery {
		p.lastPing = now
		if p.IsOnline() {
			p.client.SendPing()
		} else {
			lost = true
		}
	}

	noPong := now - p.lastPong
	if target := p.combat.attackedCreature; (lost || noPong >= targetLostAfter) && target != nil && target.AsPlayer() != nil {
		p.SetAttackedCreature(nil)
	}

	if noPong >= logoutAfterNoPong && p.CanLogout() && p.env.Hooks.PlayerLogout(p) {
		p.env.Log.Info("player ping timeout",
			zap.String("name", p.name),
			zap.Int64("no_pong_ms", noPong))
		p.disconnect(true)
	}
}

func (p *Player) disconnect(displayEffect bool) {
	if p.IsOnline() {
		p.client.Logout(displayEffect, true)
		return
	}
	if p.env.Game != nil {
		p.env.Game.RemoveCreature(p, true)
	}
}

// KickPlayer forces the player out of the game.
func (p *Player) KickPlayer(displayEffect bool) {
	p.env.Hooks.PlayerLogout(p)
	p.disconnect(displayEffect)
}

// CanLogout reports whether the player may leave the game right now.
func (p *Player) CanLogout() bool {
	if p.connecting {
		return false
	}
	t := p.tile()
	if t != nil && t.HasFlag(TileNoLogout) {
		return false
	}
	if t != nil && t.HasFlag(TileProtectionZone) {
		return true
	}
	return !p.IsPzLocked() && !p.HasCondition(condition.InFight)
}

// OnLogin finishes a login once the player stands in the world: equipment
// hooks run, held back conditions attach, mutes lose the offline time and
// VIP lists learn the player is online.
func (p *Player) OnLogin() {
	p.connecting = false
	for s := SlotFirst; s <= SlotLast; s++ {
		if it := p.InventoryItem(s); it != nil {
			p.env.Hooks.OnEquip(p, it, s, false)
		}
	}
	p.attachStoredConditions()

	if g := p.social.guild; g != nil {
		g.AddMember(p)
	}

	var offline int64
	now := p.unixNow()
	if p.lastLogout != 0 {
		offline = min(now-p.lastLogout, maxOfflineSeconds)
	}
	for _, c := range p.conditions.ReduceMuteTicks(offline * 1000) {
		p.onEndCondition(c.Type)
	}
	p.lastLogin = now

	p.addList()
	p.sendUnjustifiedPoints()
	event.Emit(p.env.Bus, event.PlayerLoggedIn{PlayerID: p.guid, Name: p.name})

	if !p.env.Hooks.PlayerLogin(p) {
		p.KickPlayer(false)
	}
}

// OnLogout removes the player from the online list and tells VIP lists.
func (p *Player) OnLogout() {
	p.lastLogout = p.unixNow()
	if !p.died {
		p.loginPos = p.pos
	}
	if g := p.social.guild; g != nil {
		g.RemoveMember(p)
	}
	p.ClearPartyInvitations()
	if party := p.social.party; party != nil {
		party.LeaveParty(p)
	}
	p.removeList()
	p.removed = true
}

func (p *Player) LastLogin() int64  { return p.lastLogin }
func (p *Player) LastLogout() int64 { return p.lastLogout }

// OnChangeZone runs when the player steps into a tile of another zone.
// Entering a protection zone drops the target and dismounts; leaving it
// mounts again.
func (p *Player) OnChangeZone(zone Zone) {
	p.zone = zone
	if zone == ZoneProtection {
		if p.combat.attackedCreature != nil && !p.hasFlag(FlagIgnoreProtectionZone) {
			p.SetAttackedCreature(nil)
			p.client.SendCancelTarget()
			p.client.SendTextMessage(MessageFailure, "Target lost.")
		}
		if !p.IsAccessPlayer() && p.IsMounted() {
			p.Dismount()
			if p.env.Game != nil {
				p.env.Game.InternalCreatureChangeOutfit(p, p.defaultOutfit)
			}
			p.wasMounted = true
		}
	} else if p.wasMounted {
		p.ToggleMount(true)
		p.wasMounted = false
	}

	p.onThinkWheel(true)
	if p.env.Game != nil {
		p.env.Game.UpdateCreatureWalkthrough(p)
	}
	p.sendIcons()
	p.env.Hooks.OnChangeZone(p, zone)
}

// CanWalkthrough reports whether this player may walk onto the tile of
// c. Walking through another player needs two attempts at the same
// position within two seconds.
func (p *Player) CanWalkthrough(c Creature) bool {
	if !p.walkthroughAllowed(c) {
		return false
	}
	if c.Kind() != KindPlayer {
		return true
	}
	now := p.env.now()
	if now-p.lastWalkthroughAttempt > walkthroughWindow {
		p.lastWalkthroughAttempt = now
		return false
	}
	if c.Position() != p.lastWalkthroughPosition {
		p.lastWalkthroughPosition = c.Position()
		return false
	}
	return true
}

// walkthroughAllowed is the stateless part of CanWalkthrough.
func (p *Player) walkthroughAllowed(c Creature) bool {
	if p.IsAccessPlayer() {
		return true
	}
	switch c.Kind() {
	case KindMonster:
		m := c.Master()
		return m != nil && m.AsPlayer() != nil
	case KindNPC:
		t := p.tileOf(c)
		return t != nil && t.HouseID() != 0
	}
	other := c.AsPlayer()
	if other == nil {
		return false
	}
	t := p.tileOf(c)
	if t == nil {
		return false
	}
	noPvP := p.worldType() == noPvPWorld
	if noPvP && p.IsInWar(other) {
		return false
	}
	safe := t.HasFlag(TileNoPvPZone) || t.HasFlag(TileProtectionZone)
	if !safe && other.level > uint32(p.env.Cfg.Game.ProtectionLevel) && !noPvP {
		return false
	}
	return t.HasWalkStack()
}

func (p *Player) tileOf(c Creature) Tile {
	if p.env.Game == nil {
		return nil
	}
	return p.env.Game.Tile(c.Position())
}
