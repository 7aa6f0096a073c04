package player

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/l1jgo/playerd/internal/condition"
)

var spellFold = cases.Fold()

// LearnInstantSpell adds name to the learned spells. Newest first.
func (p *Player) LearnInstantSpell(name string) {
	if !p.knowsSpell(name) {
		p.learnedSpells = append([]string{name}, p.learnedSpells...)
	}
}

func (p *Player) ForgetInstantSpell(name string) {
	p.learnedSpells = slices.DeleteFunc(p.learnedSpells, func(s string) bool { return s == name })
}

// HasLearnedInstantSpell matches name without regard to case. Group flags
// may forbid every spell or skip the check.
func (p *Player) HasLearnedInstantSpell(name string) bool {
	if p.hasFlag(FlagCannotUseSpells) {
		return false
	}
	if p.hasFlag(FlagIgnoreSpellCheck) {
		return true
	}
	return p.knowsSpell(name)
}

func (p *Player) knowsSpell(name string) bool {
	key := spellFold.String(name)
	return slices.ContainsFunc(p.learnedSpells, func(s string) bool { return spellFold.String(s) == key })
}

func (p *Player) LearnedSpells() []string { return p.learnedSpells }

// ReduceSpellCooldown shortens every spell cooldown that has at least ms
// left, as the momentum bonus does.
func (p *Player) ReduceSpellCooldown(ms int32) {
	reduced := false
	for _, c := range p.conditions.Of(condition.SpellCooldown) {
		if c.ID != condition.IDDefault || c.Ticks < ms {
			continue
		}
		c.Ticks -= ms
		p.client.SendSpellCooldown(uint16(c.SubID), uint32(c.Ticks))
		reduced = true
	}
	if !reduced {
		return
	}
	if p.env.Game != nil {
		p.env.Game.AddMagicEffect(p.pos, EffectMomentum)
	}
	p.client.SendTextMessage(MessageDamageDealt, fmt.Sprintf("Your cooldown's  are reduced by %d seconds. (Momentum)", ms/1000))
}

// ReduceAllSpellsCooldownTimer shortens every spell cooldown by ms,
// ending the ones that run out.
func (p *Player) ReduceAllSpellsCooldownTimer(ms int32) {
	for _, c := range p.conditions.Of(condition.SpellCooldown) {
		if c.Ticks <= ms {
			p.client.SendSpellCooldown(uint16(c.SubID), 0)
			p.removeConditionExact(c)
			continue
		}
		c.Ticks -= ms
		p.client.SendSpellCooldown(uint16(c.SubID), uint32(c.Ticks))
	}
}

// ResetSpellsCooldown takes two seconds off every spell and spell group
// cooldown.
func (p *Player) ResetSpellsCooldown() {
	for _, c := range p.conditions.All() {
		if c.Type != condition.SpellCooldown && c.Type != condition.SpellGroupCooldown {
			continue
		}
		c.Ticks = max(0, c.Ticks-2000)
		if c.Type == condition.SpellGroupCooldown {
			p.client.SendSpellGroupCooldown(uint8(c.SubID), uint32(c.Ticks))
		} else {
			p.client.SendSpellCooldown(uint16(c.SubID), uint32(c.Ticks))
		}
	}
}
