package player

import (
	"fmt"
	"math"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/config"
)

type Skull uint8

const (
	SkullNone Skull = iota
	SkullYellow
	SkullGreen
	SkullWhite
	SkullRed
	SkullBlack
	SkullOrange
)

const (
	pvpEnforced = config.WorldPvPEnforced
	noPvPWorld  = config.WorldNoPvP
)

const (
	secondsPerDay = 24 * 60 * 60
	msPerDay      = secondsPerDay * 1000
)

// UnjustifiedKill is one kill of another player. Every kill counts towards
// red and black skulls; only unavenged ones mark the killer for revenge.
type UnjustifiedKill struct {
	Target    uint32
	Time      int64 // unix seconds
	Unavenged bool
}

// UnjustifiedPoints is the kill progress report the client shows.
type UnjustifiedPoints struct {
	DayProgress    uint8
	DayRemaining   uint8
	WeekProgress   uint8
	WeekRemaining  uint8
	MonthProgress  uint8
	MonthRemaining uint8
	SkullDuration  uint8 // days
}

// Skull is the skull of the player as seen by everyone.
func (p *Player) Skull() Skull {
	if p.hasFlag(FlagNotGainInFight) {
		return SkullNone
	}
	return p.social.skull
}

// SkullClient is the skull of c as shown to this player. On open PvP
// worlds attackers and killers of this player get personal yellow and
// orange skulls, party members green ones.
func (p *Player) SkullClient(c Creature) Skull {
	other := c.AsPlayer()
	if other == nil {
		return SkullNone
	}
	if p.worldType() != config.WorldPvP || other.Skull() != SkullNone {
		return other.Skull()
	}
	if other == p {
		for _, k := range p.social.unjustifiedKills {
			if k.Unavenged && p.unixNow()-k.Time < int64(p.env.Cfg.Skulls.OrangeSkullDuration)*secondsPerDay {
				return SkullOrange
			}
		}
		return other.Skull()
	}
	switch {
	case other.HasKilled(p):
		return SkullOrange
	case other.HasAttacked(p):
		return SkullYellow
	case p.IsPartner(other):
		return SkullGreen
	}
	return other.Skull()
}

// SetSkull changes the skull and shows it to every spectator.
func (p *Player) SetSkull(s Skull) {
	if p.social.skull == s {
		return
	}
	p.social.skull = s
	if p.env.Game == nil {
		return
	}
	for _, c := range p.env.Game.Spectators(p.pos, 8, 6, true) {
		if other := c.AsPlayer(); other != nil {
			other.client.SendCreatureSkull(p)
		}
	}
}

func (p *Player) SkullTicks() int64 { return p.social.skullTicks }

func (p *Player) SetSkullTicks(ticks int64) { p.social.skullTicks = ticks }

// checkSkullTicks counts the skull timer down. An expired red or black
// skull drops once the player is out of fight.
func (p *Player) checkSkullTicks(ticks int64) {
	p.social.skullTicks = max(0, p.social.skullTicks-ticks)
	s := p.social.skull
	if (s == SkullRed || s == SkullBlack) && p.social.skullTicks < 1 && !p.HasCondition(condition.InFight) {
		p.SetSkull(SkullNone)
	}
}

func (p *Player) unixNow() int64 { return p.env.now() / 1000 }

// HasKilled reports an unavenged kill of other still inside the orange
// skull window.
func (p *Player) HasKilled(other *Player) bool {
	window := int64(p.env.Cfg.Skulls.OrangeSkullDuration) * secondsPerDay
	for _, k := range p.social.unjustifiedKills {
		if k.Target == other.guid && k.Unavenged && p.unixNow()-k.Time < window {
			return true
		}
	}
	return false
}

func (p *Player) UnjustifiedKills() []UnjustifiedKill { return p.social.unjustifiedKills }

// HasAttacked reports whether this player attacked other during the
// current fight.
func (p *Player) HasAttacked(other *Player) bool {
	if p.hasFlag(FlagNotGainInFight) || other == nil {
		return false
	}
	_, ok := p.combat.attacked[other.guid]
	return ok
}

func (p *Player) AddAttacked(other *Player) {
	if p.hasFlag(FlagNotGainInFight) || other == nil || other == p {
		return
	}
	p.combat.attacked[other.guid] = struct{}{}
}

func (p *Player) RemoveAttacked(other *Player) {
	if other != nil {
		delete(p.combat.attacked, other.guid)
	}
}

func (p *Player) ClearAttacked() { clear(p.combat.attacked) }

// AddUnjustifiedDead records the unjustified kill of attacked and hands
// out red or black skulls when a kill window crosses its threshold.
func (p *Player) AddUnjustifiedDead(attacked *Player) {
	if p.hasFlag(FlagNotGainInFight) || attacked == nil || attacked == p || p.worldType() == pvpEnforced {
		return
	}
	p.client.SendTextMessage(MessageEvent, fmt.Sprintf("Warning! The murder of %s was not justified.", attacked.name))
	p.social.unjustifiedKills = append(p.social.unjustifiedKills, UnjustifiedKill{
		Target:    attacked.guid,
		Time:      p.unixNow(),
		Unavenged: true,
	})

	cfg := p.env.Cfg.Skulls
	day, week, month := p.killCounts(4 * 60 * 60)
	over := func(factor int) bool {
		return (cfg.DayKillsToRedSkull > 0 && day >= factor*cfg.DayKillsToRedSkull) ||
			(cfg.WeekKillsToRedSkull > 0 && week >= factor*cfg.WeekKillsToRedSkull) ||
			(cfg.MonthKillsToRedSkull > 0 && month >= factor*cfg.MonthKillsToRedSkull)
	}
	if p.Skull() != SkullBlack {
		switch {
		case over(2):
			p.social.skullTicks = int64(cfg.BlackSkullDuration) * msPerDay
			p.SetSkull(SkullBlack)
		case over(1):
			p.social.skullTicks = int64(cfg.RedSkullDuration) * msPerDay
			p.SetSkull(SkullRed)
		}
	}
	p.sendUnjustifiedPoints()
}

// killCounts counts every recorded unjustified kill, avenged or not, inside
// the day window (dayWindow seconds), the last week and the last month.
// Window bounds are inclusive.
func (p *Player) killCounts(dayWindow int64) (day, week, month int) {
	now := p.unixNow()
	for _, k := range p.social.unjustifiedKills {
		age := now - k.Time
		if age <= dayWindow {
			day++
		}
		if age <= 7*secondsPerDay {
			week++
		}
		if age <= 30*secondsPerDay {
			month++
		}
	}
	return day, week, month
}

func (p *Player) sendUnjustifiedPoints() {
	if !p.IsOnline() {
		return
	}
	cfg := p.env.Cfg.Skulls
	day, week, month := p.killCounts(secondsPerDay)
	factor := 1
	if p.Skull() == SkullRed {
		factor = 2
	}
	report := func(kills, threshold int) (progress, remaining uint8) {
		limit := factor * threshold
		if limit <= 0 {
			return 0, 0
		}
		pct := min(math.Round(float64(kills)/float64(limit)*100), 100)
		return uint8(pct), uint8(max(limit-kills, 0))
	}
	var pts UnjustifiedPoints
	pts.DayProgress, pts.DayRemaining = report(day, cfg.DayKillsToRedSkull)
	pts.WeekProgress, pts.WeekRemaining = report(week, cfg.WeekKillsToRedSkull)
	pts.MonthProgress, pts.MonthRemaining = report(month, cfg.MonthKillsToRedSkull)
	pts.SkullDuration = uint8(min(p.social.skullTicks/msPerDay, 255))
	p.client.SendUnjustifiedPoints(pts)
}

// OnAttackedCreature runs when this player attacks target. Attacking an
// unskulled player on an open world earns a white skull and a pz lock.
func (p *Player) OnAttackedCreature(target Creature) {
	if target == nil || p.hasFlag(FlagNotGainInFight) {
		return
	}
	if target.AsPlayer() == p {
		p.addInFightTicks(false)
		return
	}
	if target.Kind() == KindMonster && target.Master() == nil {
		p.addInFightTicks(false)
		return
	}
	other := target.AsPlayer()
	if other == nil {
		if m := target.Master(); m != nil {
			other = m.AsPlayer()
		}
	}
	if other == nil {
		p.addInFightTicks(false)
		return
	}
	if !p.IsPartner(other) && !p.IsInWar(other) && !other.HasAttacked(p) && !p.IsGuildMate(other) {
		p.AddAttacked(other)
		if other.Skull() == SkullNone && p.Skull() == SkullNone && p.worldType() == config.WorldPvP && !p.inPvPZone(other) {
			p.SetSkull(SkullWhite)
		}
		if p.Skull() == SkullNone {
			other.client.SendCreatureSkull(p)
		}
	}
	p.addInFightTicks(true)
}

func (p *Player) inPvPZone(other *Player) bool {
	return p.zone == ZonePvP && other.zone == ZonePvP
}

// OnKilledCreature runs when this player dealt the last hit to target.
// It reports whether the kill was unjustified.
func (p *Player) OnKilledCreature(target Creature, lastHit bool) bool {
	if target == nil || p.hasFlag(FlagNotGainInFight) {
		return false
	}
	if target.Kind() == KindMonster && target.Master() == nil {
		p.addHuntingKill(target.RaceID())
		return false
	}
	other := target.AsPlayer()
	if other == nil || other == p {
		return false
	}
	unjustified := false
	for i := range other.social.unjustifiedKills {
		k := &other.social.unjustifiedKills[i]
		if k.Target == p.guid && k.Unavenged {
			k.Unavenged = false
			other.client.SendCreatureSkull(p)
			break
		}
	}
	if !p.IsPartner(other) && !p.IsInWar(other) && !other.HasAttacked(p) && !p.IsGuildMate(other) &&
		other.Skull() == SkullNone && !p.inPvPZone(other) && lastHit {
		p.AddUnjustifiedDead(other)
		unjustified = true
	}
	if lastHit && p.HasCondition(condition.InFight) {
		p.pzLockFor(int32(p.env.Cfg.Skulls.WhiteSkullTime))
	}
	return unjustified
}
