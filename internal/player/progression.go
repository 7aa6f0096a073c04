package player

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/l1jgo/playerd/internal/core/event"
	"github.com/l1jgo/playerd/internal/data"
)

// MaxStamina is a full stamina bar in minutes.
const MaxStamina uint16 = 2520

// protectedLevel is the level up to which gains come from the vocation
// of fresh characters.
const protectedLevel = 8

var skillTitle = cases.Title(language.English)

// ExpForLevel is the total experience needed to reach level.
func ExpForLevel(level uint32) uint64 {
	if level == 0 {
		return 0
	}
	lv := uint64(level - 1)
	return (50*lv*lv*lv - 150*lv*lv + 400*lv) / 3
}

// percentLevel is count as a percentage of next, floored to hundredths.
// Values past 100 report 0.
func (p *Player) percentLevel(count, next uint64) float64 {
	return PercentLevel(count, next)
}

func PercentLevel(count, next uint64) float64 {
	if next == 0 {
		return 0
	}
	r := math.Floor(float64(count)*100/float64(next)*100) / 100
	if r > 100 {
		return 0
	}
	return r
}

func (p *Player) advance(kind SkillKind, oldLevel, newLevel uint32) {
	p.env.Hooks.PlayerAdvance(p, kind, oldLevel, newLevel)
	event.Emit(p.env.Bus, event.PlayerAdvanced{
		PlayerID: p.guid,
		Skill:    kind.String(),
		OldLevel: int(oldLevel),
		NewLevel: int(newLevel),
	})
}

// AddSkillAdvance adds tries to skill, advancing as many levels as they
// pay for. Tries past a maxed skill are dropped.
func (p *Player) AddSkillAdvance(skill data.Skill, count uint64) {
	if skill >= data.SkillCount || p.hasFlag(FlagNotGainSkill) {
		return
	}
	s := &p.skills[skill]
	currReq := p.vocation.ReqSkillTries(skill, s.Level)
	nextReq := p.vocation.ReqSkillTries(skill, s.Level+1)
	if currReq >= nextReq {
		return
	}
	count = p.env.Hooks.OnGainSkillTries(p, SkillKind(skill), count)
	if count == 0 {
		return
	}

	update := false
	for s.Tries+count >= nextReq {
		count -= nextReq - s.Tries
		s.Level++
		s.Tries = 0
		s.Percent = 0
		p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You advanced to %s level %d.", skill, s.Level))
		p.advance(SkillKind(skill), uint32(s.Level)-1, uint32(s.Level))
		update = true
		currReq = nextReq
		nextReq = p.vocation.ReqSkillTries(skill, s.Level+1)
		if currReq >= nextReq {
			count = 0
			break
		}
	}
	s.Tries += count

	percent := 0.0
	if nextReq > currReq {
		percent = p.percentLevel(s.Tries, nextReq)
	}
	if s.Percent != percent {
		s.Percent = percent
		update = true
	}
	if update {
		p.sendSkills()
		p.sendStats()
	}
}

// AddManaSpent advances magic level the way AddSkillAdvance advances a
// skill. A maxed magic level ignores the mana.
func (p *Player) AddManaSpent(amount uint64) {
	if p.hasFlag(FlagNotGainMana) {
		return
	}
	currReq := p.vocation.ReqMana(p.magLevel)
	nextReq := p.vocation.ReqMana(p.magLevel + 1)
	if currReq >= nextReq {
		return
	}
	amount = p.env.Hooks.OnGainSkillTries(p, SkillMagic, amount)
	if amount == 0 {
		return
	}

	update := false
	for p.manaSpent+amount >= nextReq {
		amount -= nextReq - p.manaSpent
		p.magLevel++
		p.manaSpent = 0
		p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You advanced to magic level %d.", p.magLevel))
		p.advance(SkillMagic, p.magLevel-1, p.magLevel)
		update = true
		currReq = nextReq
		nextReq = p.vocation.ReqMana(p.magLevel + 1)
		if currReq >= nextReq {
			amount = 0
			break
		}
	}
	p.manaSpent += amount

	old := p.magLevelPercent
	p.magLevelPercent = 0
	if nextReq > currReq {
		p.magLevelPercent = p.percentLevel(p.manaSpent, nextReq)
	}
	if old != p.magLevelPercent {
		update = true
	}
	if update {
		p.sendStats()
		p.sendSkills()
	}
}

func (p *Player) MagicLevelPercent() float64 { return p.magLevelPercent }

// levelGains returns the per-level vitals of the vocation in effect at
// level: fresh-character gains up to level 8.
func (p *Player) levelGains(level uint32) (hp, mana, capacity uint32) {
	v := p.vocation
	if v.ID != data.VocationNone && level <= protectedLevel {
		if none := p.env.Tables.Vocations.Get(data.VocationNone); none != nil {
			v = none
		}
	}
	return v.GainHP, v.GainMana, v.GainCap
}

func expString(exp uint64) string {
	if exp == 1 {
		return "1 experience point."
	}
	return fmt.Sprintf("%d experience points.", exp)
}

func (p *Player) announceExperience(verb string, exp uint64) {
	p.client.SendTextMessage(MessageExperience, "You "+verb+" "+expString(exp))
	if p.env.Game == nil {
		return
	}
	for _, c := range p.env.Game.Spectators(p.pos, 8, 6, true) {
		if other := c.AsPlayer(); other != nil && other != p {
			other.client.SendTextMessage(MessageExperienceOthers, p.name+" "+verb+" "+expString(exp))
		}
	}
}

// onLevelChange refills vitals and refreshes everything derived from the
// level after a level transition.
func (p *Player) onLevelChange() {
	p.health = p.MaxHealth()
	p.mana = p.MaxMana()
	p.updateBaseSpeed()
	if g := p.env.Game; g != nil {
		g.ChangeSpeed(p, 0)
		g.AddCreatureHealth(p)
		g.AddPlayerMana(p)
	}
	if party := p.social.party; party != nil {
		party.UpdateSharedExperience()
	}
}

// AddExperience adds exp, levelling up as often as it pays for. Every
// level transition refills health and mana.
func (p *Player) AddExperience(source Creature, exp uint64, sendText bool) {
	currExp := ExpForLevel(p.level)
	nextExp := ExpForLevel(p.level + 1)
	raw := exp
	if currExp >= nextExp {
		p.levelPercent = 0
		p.sendStats()
		return
	}
	exp = p.env.Hooks.OnGainExperience(p, source, exp, raw)
	if exp == 0 {
		return
	}
	p.experience += exp
	if sendText {
		p.announceExperience("gained", exp)
	}

	prevLevel := p.level
	for p.experience >= nextExp {
		p.level++
		hp, mana, capacity := p.levelGains(p.level)
		p.healthMax += int32(hp)
		p.manaMax += int32(mana)
		p.capacity += capacity
		currExp = nextExp
		nextExp = ExpForLevel(p.level + 1)
		if currExp >= nextExp {
			break
		}
	}

	if prevLevel != p.level {
		p.onLevelChange()
		p.advance(SkillLevel, prevLevel, p.level)
		p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You advanced from Level %d to Level %d.", prevLevel, p.level))
	}

	p.levelPercent = 0
	if nextExp > currExp {
		p.levelPercent = p.percentLevel(p.experience-currExp, nextExp-currExp)
	}
	p.sendStats()
	p.client.SendExperienceTracker(int64(raw), int64(exp))
}

// RemoveExperience takes exp away, levelling down while the experience
// is below the current level. Vitals never drop below zero.
func (p *Player) RemoveExperience(exp uint64, sendText bool) {
	if p.experience == 0 || exp == 0 {
		return
	}
	exp = p.env.Hooks.OnLoseExperience(p, exp)
	if exp == 0 {
		return
	}
	before := p.experience
	if exp >= p.experience {
		p.experience = 0
	} else {
		p.experience -= exp
	}
	if sendText {
		p.announceExperience("lost", before-p.experience)
	}

	oldLevel := p.level
	currExp := ExpForLevel(p.level)
	for p.level > 1 && p.experience < currExp {
		hp, mana, capacity := p.levelGains(p.level)
		p.level--
		p.healthMax = max(0, p.healthMax-int32(hp))
		p.manaMax = max(0, p.manaMax-int32(mana))
		p.capacity -= min(p.capacity, capacity)
		currExp = ExpForLevel(p.level)
	}

	if oldLevel != p.level {
		p.onLevelChange()
		p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You were downgraded from Level %d to Level %d.", oldLevel, p.level))
	}

	nextExp := ExpForLevel(p.level + 1)
	p.levelPercent = 0
	if nextExp > currExp {
		p.levelPercent = p.percentLevel(p.experience-currExp, nextExp-currExp)
	}
	p.sendStats()
}

// GainExperience is experience earned from a kill or a party share.
// Exhausted stamina earns nothing.
func (p *Player) GainExperience(exp uint64, source Creature) {
	if p.hasFlag(FlagNotGainExperience) || exp == 0 || p.stamina == 0 {
		return
	}
	p.AddExperience(source, exp, true)
}

// OnGainExperience routes kill experience through the party when shared
// experience is active.
func (p *Player) OnGainExperience(exp uint64, target Creature) {
	if p.hasFlag(FlagNotGainExperience) {
		return
	}
	if target != nil && target.AsPlayer() == nil {
		if party := p.social.party; party != nil && party.SharedExperienceActive() && party.SharedExperienceEnabled() {
			party.ShareExperience(exp, target)
			return
		}
	}
	p.GainExperience(exp, target)
}

func (p *Player) OnGainSharedExperience(exp uint64, source Creature) {
	p.GainExperience(exp, source)
}

// LostExperience is the experience a death would cost.
func (p *Player) LostExperience() uint64 {
	if !p.skillLoss {
		return 0
	}
	return uint64(float64(p.experience) * p.LostPercent())
}

// GainedExperience is the experience attacker earns for killing this
// player when experience from players is enabled.
func (p *Player) GainedExperience(attacker Creature) uint64 {
	cfg := p.env.Cfg.Experience
	if !cfg.FromPlayers || attacker == nil {
		return 0
	}
	other := attacker.AsPlayer()
	if other == nil || other == p || !p.skillLoss {
		return 0
	}
	diff := int64(other.level) - int64(p.level)
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(cfg.FromPlayersLevelRange) {
		return 0
	}
	return uint64(math.Floor(float64(p.LostExperience()) * p.DamageRatio(attacker) * 0.75))
}

// AddOfflineTrainingTries applies offline training to a skill or, with
// SkillMagic, to magic level, and reports the progress in one message.
func (p *Player) AddOfflineTrainingTries(kind SkillKind, tries uint64) bool {
	if tries == 0 || kind == SkillLevel {
		return false
	}
	var (
		update             bool
		oldValue, newValue uint32
		oldPercent, newPct float64
	)
	if kind == SkillMagic {
		currReq := p.vocation.ReqMana(p.magLevel)
		nextReq := p.vocation.ReqMana(p.magLevel + 1)
		if currReq >= nextReq {
			return false
		}
		oldValue = p.magLevel
		oldPercent = float64(p.manaSpent) * 100 / float64(nextReq)
		tries = p.env.Hooks.OnGainSkillTries(p, SkillMagic, tries)
		start := p.magLevel
		for p.manaSpent+tries >= nextReq {
			tries -= nextReq - p.manaSpent
			p.magLevel++
			p.manaSpent = 0
			p.advance(SkillMagic, p.magLevel-1, p.magLevel)
			update = true
			currReq = nextReq
			nextReq = p.vocation.ReqMana(p.magLevel + 1)
			if currReq >= nextReq {
				tries = 0
				break
			}
		}
		p.manaSpent += tries
		if p.magLevel != start {
			p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You advanced to magic level %d.", p.magLevel))
		}
		percent := 0.0
		if nextReq > currReq {
			percent = p.percentLevel(p.manaSpent, nextReq)
			newPct = float64(p.manaSpent) * 100 / float64(nextReq)
		}
		if percent != p.magLevelPercent {
			p.magLevelPercent = percent
			update = true
		}
		newValue = p.magLevel
	} else {
		skill := data.Skill(kind)
		if skill >= data.SkillCount {
			return false
		}
		s := &p.skills[skill]
		currReq := p.vocation.ReqSkillTries(skill, s.Level)
		nextReq := p.vocation.ReqSkillTries(skill, s.Level+1)
		if currReq >= nextReq {
			return false
		}
		oldValue = uint32(s.Level)
		oldPercent = float64(s.Tries) * 100 / float64(nextReq)
		tries = p.env.Hooks.OnGainSkillTries(p, kind, tries)
		start := s.Level
		for s.Tries+tries >= nextReq {
			tries -= nextReq - s.Tries
			s.Level++
			s.Tries = 0
			s.Percent = 0
			p.advance(kind, uint32(s.Level)-1, uint32(s.Level))
			update = true
			currReq = nextReq
			nextReq = p.vocation.ReqSkillTries(skill, s.Level+1)
			if currReq >= nextReq {
				tries = 0
				break
			}
		}
		s.Tries += tries
		if s.Level != start {
			p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You advanced to %s level %d.", skill, s.Level))
		}
		percent := 0.0
		if nextReq > currReq {
			percent = p.percentLevel(s.Tries, nextReq)
			newPct = float64(s.Tries) * 100 / float64(nextReq)
		}
		if s.Percent != percent {
			s.Percent = percent
			update = true
		}
		newValue = uint32(s.Level)
	}

	if update {
		p.sendSkills()
		p.sendStats()
	}
	p.client.SendTextMessage(MessageEvent, fmt.Sprintf(
		"Your %s skill changed from level %d (with %.2f%% progress towards level %d) to level %d (with %.2f%% progress towards level %d)",
		skillTitle.String(kind.String()), oldValue, oldPercent, oldValue+1, newValue, newPct, newValue+1))
	return update
}

// AddOfflineTrainingTime accumulates offline training minutes, capped at
// twelve hours.
func (p *Player) AddOfflineTrainingTime(ms int32) {
	p.offlineTrainingTime = min(12*3600*1000, p.offlineTrainingTime+ms)
}

func (p *Player) RemoveOfflineTrainingTime(ms int32) {
	p.offlineTrainingTime = max(0, p.offlineTrainingTime-ms)
}

func (p *Player) OfflineTrainingTime() int32 { return p.offlineTrainingTime }

func (p *Player) OfflineTrainingSkill() int8 { return p.offlineTrainingSkill }

func (p *Player) SetOfflineTrainingSkill(skill int8) { p.offlineTrainingSkill = skill }

// SkillLevel is the effective level of a skill including bonuses.
func (p *Player) SkillLevel(skill data.Skill) uint16 {
	if skill >= data.SkillCount {
		return 0
	}
	lv := int32(p.skills[skill].Level) + p.varSkills[skill] + p.wheel.skillBonus(skill)
	return uint16(max(0, lv))
}

// MagicLevel is the effective magic level including bonuses.
func (p *Player) MagicLevel() uint32 {
	return uint32(max(0, int64(p.magLevel)+int64(p.varMagic)+int64(p.wheel.magicBonus())))
}

// SetSkillLoss toggles whether death costs experience and skills.
func (p *Player) SetSkillLoss(v bool) { p.skillLoss = v }
