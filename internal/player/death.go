package player

import (
	"fmt"
	"math"

	"github.com/l1jgo/playerd/internal/core/event"
	"github.com/l1jgo/playerd/internal/data"
)

const (
	blessingCount = 8
	// blessingTwistOfFate protects the other blessings on a PvP death.
	blessingTwistOfFate = 1

	// unfairFightWindow is how recent damage must be to count towards the
	// unfair fight reduction, in ms.
	unfairFightWindow = 5 * 60 * 1000
	skillLossFloor    = 10
)

// HasBlessing reports blessing n, counted from 1.
func (p *Player) HasBlessing(n int) bool {
	return n >= 1 && n <= blessingCount && p.blessings[n-1] > 0
}

func (p *Player) AddBlessing(n int, count uint8) {
	if n >= 1 && n <= blessingCount {
		p.blessings[n-1] = uint8(min(int(p.blessings[n-1])+int(count), math.MaxUint8))
	}
}

func (p *Player) RemoveBlessing(n int, count uint8) {
	if n >= 1 && n <= blessingCount {
		p.blessings[n-1] -= min(p.blessings[n-1], count)
	}
}

func (p *Player) BlessingCount(n int) uint8 {
	if n < 1 || n > blessingCount {
		return 0
	}
	return p.blessings[n-1]
}

// LostPercent is the share of experience, skill tries and mana spent a
// death costs, before the unfair fight reduction.
func (p *Player) LostPercent() float64 {
	blessings := 0
	for n := 2; n <= blessingCount; n++ {
		if p.HasBlessing(n) {
			blessings++
		}
	}

	if pct := p.env.Cfg.Death.LosePercent; pct != -1 {
		if p.IsPromoted() {
			pct -= 3
		}
		pct -= blessings
		return float64(max(0, pct)) / 100
	}

	loss := 5.0
	if p.level >= 24 && p.experience > 0 {
		lv := float64(p.level) + p.levelPercent/100
		loss = (lv + 50) * 50 * (lv*lv - 5*lv + 8) / float64(p.experience)
	}
	reduction := float64(blessings) * 8
	if p.IsPromoted() {
		reduction += 30
	}
	return loss * (1 - reduction/100) / 100
}

func lastHitIsPlayer(c Creature) bool {
	if c == nil {
		return false
	}
	if c.AsPlayer() != nil {
		return true
	}
	m := c.Master()
	return m != nil && m.AsPlayer() != nil
}

// unfairFight reports whether the recent damage makes this a PvP death
// and the percent of the normal loss the player suffers.
func (p *Player) unfairFight(lastHit Creature) (pvp bool, reduction uint8) {
	now := p.env.now()
	var playerDmg, othersDmg int64
	var sumLevels uint32
	for _, b := range p.combat.damageMap {
		if now-b.ticks > unfairFightWindow {
			continue
		}
		if b.player {
			playerDmg += b.total
			sumLevels += b.level
		} else {
			othersDmg += b.total
		}
	}
	reduction = 100
	if playerDmg > 0 || othersDmg > 0 {
		pvp = lastHitIsPlayer(lastHit) || float64(playerDmg)/float64(playerDmg+othersDmg) >= 0.05
	}
	if pvp && sumLevels > p.level {
		r := math.Floor(float64(p.level)/float64(sumLevels)*100 + 0.5)
		reduction = uint8(max(20, r))
	}
	return pvp, reduction
}

// Death applies the death penalty and resets vitals. A player whose
// skill loss was waived only returns to the temple.
func (p *Player) Death(lastHit Creature) {
	level := p.level
	killer := ""
	if lastHit != nil {
		killer = lastHit.Name()
	}
	p.loginPos = p.templePos
	p.died = true
	if g := p.env.Game; g != nil {
		g.SendSingleSoundEffect(p.pos, SoundDeath, p)
	}

	if !p.skillLoss {
		p.skillLoss = true
		p.endPersistentConditions()
		p.health = p.MaxHealth()
		if g := p.env.Game; g != nil {
			g.InternalTeleport(p, p.templePos)
			g.AddCreatureHealth(p)
			g.AddPlayerMana(p)
		}
		p.OnThink(p.env.thinkInterval())
		p.onIdleStatus()
		p.sendStats()
		event.Emit(p.env.Bus, event.PlayerDied{PlayerID: p.guid, Level: level, KilledBy: killer, Time: p.unixNow()})
		return
	}

	pvp, reduction := p.unfairFight(lastHit)
	loss := p.LostPercent() * float64(reduction) / 100

	p.loseMana(loss)
	for s := data.SkillFist; s < data.SkillCount; s++ {
		p.loseSkill(s, loss)
	}

	lostExp := p.env.Hooks.OnLoseExperience(p, uint64(float64(p.experience)*loss))
	if lostExp != 0 {
		p.loseExperience(lostExp)
	}

	if pvp && p.HasBlessing(blessingTwistOfFate) {
		p.RemoveBlessing(blessingTwistOfFate, 1)
	} else {
		for n := 2; n <= blessingCount; n++ {
			p.RemoveBlessing(n, 1)
		}
	}

	p.sendStats()
	p.sendSkills()
	p.client.SendReLoginWindow(reduction)
	p.client.SendBlessStatus()
	if p.Skull() == SkullBlack {
		p.health = 40
		p.mana = 0
	} else {
		p.health = p.MaxHealth()
		p.mana = p.MaxMana()
	}
	p.endPersistentConditions()

	event.Emit(p.env.Bus, event.PlayerDied{
		PlayerID:  p.guid,
		Level:     level,
		KilledBy:  killer,
		Time:      p.unixNow(),
		PvPDeath:  pvp,
		LostExp:   lostExp,
		SkillLoss: true,
	})
}

func (p *Player) endPersistentConditions() {
	for _, c := range p.conditions.RemovePersistent() {
		p.onEndCondition(c.Type)
	}
}

// loseMana peels the lost share of all mana ever spent off the magic
// level, level by level.
func (p *Player) loseMana(loss float64) {
	v := p.vocation
	var sum uint64
	for i := uint32(1); i <= p.magLevel; i++ {
		sum += v.ReqMana(i)
	}
	sum += p.manaSpent
	lost := uint64(float64(sum) * loss)
	for lost > p.manaSpent && p.magLevel > 0 {
		lost -= p.manaSpent
		p.manaSpent = v.ReqMana(p.magLevel)
		p.magLevel--
	}
	p.manaSpent -= min(lost, p.manaSpent)

	p.magLevelPercent = 0
	if next := v.ReqMana(p.magLevel + 1); next > v.ReqMana(p.magLevel) {
		p.magLevelPercent = p.percentLevel(p.manaSpent, next)
	}
}

// loseSkill peels the lost share of all tries off skill s. Skills never
// drop below level 10.
func (p *Player) loseSkill(s data.Skill, loss float64) {
	v := p.vocation
	sk := &p.skills[s]
	var sum uint64
	for lv := uint16(skillLossFloor + 1); lv <= sk.Level; lv++ {
		sum += v.ReqSkillTries(s, lv)
	}
	sum += sk.Tries
	lost := uint64(float64(sum) * loss)
	for lost > sk.Tries {
		lost -= sk.Tries
		if sk.Level <= skillLossFloor {
			sk.Level = skillLossFloor
			sk.Tries = 0
			lost = 0
			break
		}
		sk.Tries = v.ReqSkillTries(s, sk.Level)
		sk.Level--
	}
	sk.Tries -= min(lost, sk.Tries)
	sk.Percent = p.percentLevel(sk.Tries, v.ReqSkillTries(s, sk.Level+1))
}

// loseExperience takes exp away on death and levels down. Characters of
// a vocation up to level 7 keep their experience.
func (p *Player) loseExperience(exp uint64) {
	oldLevel := p.level
	if p.vocation.ID == data.VocationNone || p.level > 7 {
		p.experience -= min(exp, p.experience)
	}
	for p.level > 1 && p.experience < ExpForLevel(p.level) {
		hp, mana, capacity := p.levelGains(p.level)
		p.level--
		p.healthMax = max(0, p.healthMax-int32(hp))
		p.manaMax = max(0, p.manaMax-int32(mana))
		p.capacity -= min(p.capacity, capacity)
	}
	if oldLevel != p.level {
		p.updateBaseSpeed()
		p.client.SendTextMessage(MessageEvent, fmt.Sprintf("You were downgraded from Level %d to Level %d.", oldLevel, p.level))
	}
	curr, next := ExpForLevel(p.level), ExpForLevel(p.level+1)
	p.levelPercent = 0
	if next > curr {
		p.levelPercent = p.percentLevel(p.experience-curr, next-curr)
	}
}

// ChangeHealth adds delta to health, clamped into [0, max health].
func (p *Player) ChangeHealth(delta int32) {
	p.health = min(max(0, p.health+delta), p.MaxHealth())
	if g := p.env.Game; g != nil {
		g.AddCreatureHealth(p)
	}
	p.sendStats()
}

// ChangeMana adds delta to mana, clamped into [0, max mana]. Infinite
// mana players never spend any.
func (p *Player) ChangeMana(delta int32) {
	if !p.hasFlag(FlagHasInfiniteMana) {
		p.mana = min(max(0, p.mana+delta), p.MaxMana())
	}
	if g := p.env.Game; g != nil {
		g.AddPlayerMana(p)
	}
	p.sendStats()
}

// ChangeSoul adds delta to soul points, capped at the vocation maximum.
func (p *Player) ChangeSoul(delta int32) {
	soulMax := int32(p.vocation.SoulMax)
	p.soul = uint8(min(max(0, int32(p.soul)+delta), max(soulMax, int32(p.soul))))
	p.sendStats()
}
