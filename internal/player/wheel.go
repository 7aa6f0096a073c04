package player

import (
	"math"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/data"
)

// WheelInstant is a Wheel of Destiny ability unlocked by the player's
// wheel build.
type WheelInstant uint8

const (
	InstantBattleInstinct WheelInstant = iota
	InstantPositionalTactics
	InstantBallisticMastery
	InstantGiftOfLife
	InstantCombatMastery
	InstantDivineEmpowerment
	InstantAvatarOfLight
	InstantAvatarOfSteel
	InstantAvatarOfNature
	InstantAvatarOfStorm
	InstantDrainBody
	instantCount
)

var instantNames = [instantCount]string{
	"Battle Instinct", "Positional Tactics", "Ballistic Mastery", "Gift of Life",
	"Combat Mastery", "Divine Empowerment", "Avatar of Light", "Avatar of Steel",
	"Avatar of Nature", "Avatar of Storm", "Drain Body",
}

func (i WheelInstant) String() string {
	if i < instantCount {
		return instantNames[i]
	}
	return "unknown"
}

// InstantByName resolves a display name, as used by scripts and saved
// builds.
func InstantByName(name string) (WheelInstant, bool) {
	for i, n := range instantNames {
		if n == name {
			return WheelInstant(i), true
		}
	}
	return 0, false
}

type WheelStage uint8

const (
	StageCombatMastery WheelStage = iota
	StageDivineEmpowerment
	StageAvatarOfLight
	StageAvatarOfSteel
	StageAvatarOfNature
	StageAvatarOfStorm
	StageBlessingOfTheGrove
	StageTwinBurst
	StageExecutionersThrow
	StageBeamMastery
	StageDrainBody
	stageCount
)

// WheelMajor is a stat delta recomputed while the player fights.
type WheelMajor uint8

const (
	MajorMelee WheelMajor = iota
	MajorDistance
	MajorShield
	MajorMagic
	MajorCriticalDamage
	MajorCriticalDamage2
	MajorPhysicalDamage
	MajorHolyDamage
	MajorDamage
	MajorDefense
	majorCount
)

type AvatarSkill uint8

const (
	AvatarNone AvatarSkill = iota
	AvatarDamageReduction
	AvatarCriticalChance
	AvatarCriticalDamage
)

type wheelTimer uint8

const (
	timerBattleInstinct wheelTimer = iota
	timerPositionalTactics
	timerBallisticMastery
	timerGiftOfLife
	timerCombatMastery
	timerDivineEmpowerment
	timerAvatar
	timerCount
)

// wheelCheckEvery is the minimum ms between two evaluations of a check.
const wheelCheckEvery = 2000

// Wheel holds the Wheel of Destiny build of a player and the stat deltas
// its positional checks produced.
type Wheel struct {
	instants   [instantCount]bool
	stages     [stageCount]uint8
	majors     [majorCount]int32
	resistance [data.CombatCount]int32 // basis 10000
	timers     [timerCount]int64       // unix ms

	giftHeal          int32 // percent of max health
	giftTotalCooldown int32 // seconds
	giftCooldown      int32 // seconds

	nearby uint16
}

func (w *Wheel) SetInstant(i WheelInstant, on bool) { w.instants[i] = on }
func (w *Wheel) Instant(i WheelInstant) bool        { return w.instants[i] }
func (w *Wheel) SetStage(s WheelStage, v uint8)     { w.stages[s] = v }
func (w *Wheel) Stage(s WheelStage) uint8           { return w.stages[s] }
func (w *Wheel) Major(m WheelMajor) int32           { return w.majors[m] }
func (w *Wheel) GiftOfLifeCooldown() int32          { return w.giftCooldown }
func (w *Wheel) CreaturesNearby() uint16            { return w.nearby }

// SetResistance sets the element absorb in hundredths of a percent.
func (w *Wheel) SetResistance(ct data.CombatType, v int32) { w.resistance[ct] = v }

func (w *Wheel) Resistance(ct data.CombatType) int32 { return w.resistance[ct] }

// SetGiftOfLife configures the heal percent and the cooldown in seconds
// applied after it fires.
func (w *Wheel) SetGiftOfLife(healPct, cooldown int32) {
	w.giftHeal = healPct
	w.giftTotalCooldown = cooldown
}

func (w *Wheel) SetGiftOfLifeCooldown(seconds int32) { w.giftCooldown = max(seconds, 0) }

// SetAvatarUntil keeps the avatar transformation active until the given
// unix ms.
func (w *Wheel) SetAvatarUntil(t int64) { w.timers[timerAvatar] = t }

func (w *Wheel) setMajor(m WheelMajor, v int32) bool {
	if w.majors[m] == v {
		return false
	}
	w.majors[m] = v
	return true
}

func (w *Wheel) due(t wheelTimer, now int64, force bool) bool {
	return force || w.timers[t] < now
}

// conditionalMajor returns a major stat only while its instant is active.
func (w *Wheel) conditionalMajor(i WheelInstant, m WheelMajor) int32 {
	if !w.instants[i] {
		return 0
	}
	return w.majors[m]
}

func (w *Wheel) skillBonus(s data.Skill) int32 {
	switch s {
	case data.SkillFist, data.SkillClub, data.SkillSword, data.SkillAxe:
		return w.majors[MajorMelee]
	case data.SkillDistance:
		return w.majors[MajorDistance]
	case data.SkillShield:
		return w.majors[MajorShield]
	}
	return 0
}

func (w *Wheel) magicBonus() int32 { return w.majors[MajorMagic] }

// byStage picks the value for stage 1, 2 or 3 and above; stage 0 is 0.
func byStage(stage uint8, s1, s2, s3 int32) int32 {
	switch {
	case stage >= 3:
		return s3
	case stage == 2:
		return s2
	case stage == 1:
		return s1
	}
	return 0
}

func (w *Wheel) avatarStage() (uint8, bool) {
	for i, s := range [...]WheelStage{StageAvatarOfLight, StageAvatarOfSteel, StageAvatarOfNature, StageAvatarOfStorm} {
		if w.instants[InstantAvatarOfLight+WheelInstant(i)] {
			return w.stages[s], true
		}
	}
	return 0, false
}

// avatarSkill is the bonus of an active avatar transformation.
func (w *Wheel) avatarSkill(skill AvatarSkill, now int64) int32 {
	if skill == AvatarNone || w.timers[timerAvatar] <= now {
		return 0
	}
	stage, ok := w.avatarStage()
	if !ok {
		return 0
	}
	switch skill {
	case AvatarDamageReduction, AvatarCriticalDamage:
		return byStage(stage, 5, 10, 15)
	case AvatarCriticalChance:
		return 100
	}
	return 0
}

func (w *Wheel) clearMajors() bool {
	changed := false
	for m := range w.majors {
		if w.majors[m] != 0 {
			w.majors[m] = 0
			changed = true
		}
	}
	return changed
}

func (w *Wheel) anyActive() bool {
	for _, i := range [...]WheelInstant{
		InstantBattleInstinct, InstantPositionalTactics, InstantBallisticMastery,
		InstantGiftOfLife, InstantCombatMastery, InstantDivineEmpowerment,
	} {
		if w.instants[i] {
			return true
		}
	}
	return w.giftCooldown != 0
}

// onFight re-evaluates the checks that depend on the surroundings of a
// fighting player. It reports whether a stat changed.
func (w *Wheel) onFight(p *Player) bool {
	now := p.env.now()
	changed := false
	if w.instants[InstantBattleInstinct] && w.due(timerBattleInstinct, now, false) && w.checkBattleInstinct(p, now) {
		changed = true
	}
	if w.instants[InstantPositionalTactics] && w.due(timerPositionalTactics, now, false) && w.checkPositionalTactics(p, now) {
		changed = true
	}
	if w.instants[InstantBallisticMastery] && w.due(timerBallisticMastery, now, false) && w.checkBallisticMastery(p, now) {
		changed = true
	}
	return changed
}

// onThinkWheel recomputes the wheel stats. Out of fight, inside a
// protection zone or with nothing unlocked every stat is cleared.
func (p *Player) onThinkWheel(force bool) {
	w := &p.wheel
	w.nearby = 0
	if !p.HasCondition(condition.InFight) || p.zone == ZoneProtection || !w.anyActive() {
		if w.clearMajors() {
			p.sendSkills()
			p.sendStats()
			if p.env.Game != nil {
				p.env.Game.ReloadCreature(p)
			}
		}
		return
	}

	now := p.env.now()
	changed := false
	if w.instants[InstantBattleInstinct] && w.due(timerBattleInstinct, now, force) && w.checkBattleInstinct(p, now) {
		changed = true
	}
	if w.instants[InstantPositionalTactics] && w.due(timerPositionalTactics, now, force) && w.checkPositionalTactics(p, now) {
		changed = true
	}
	if w.instants[InstantBallisticMastery] && w.due(timerBallisticMastery, now, force) && w.checkBallisticMastery(p, now) {
		changed = true
	}
	if w.giftCooldown > 0 && w.timers[timerGiftOfLife] <= now {
		w.giftCooldown--
		w.timers[timerGiftOfLife] = now + 1000
	}
	if w.instants[InstantCombatMastery] && w.due(timerCombatMastery, now, force) && w.checkCombatMastery(p, now) {
		changed = true
	}
	if w.instants[InstantDivineEmpowerment] && w.due(timerDivineEmpowerment, now, force) && w.checkDivineEmpowerment(p, now) {
		changed = true
	}
	if changed {
		p.sendSkills()
		p.sendStats()
	}
}

// nearbyCreatures counts the top creatures on the 3x3 square around p
// that pass keep, stopping at limit.
func (p *Player) nearbyCreatures(limit int, keep func(Creature) bool) int {
	if p.env.Game == nil {
		return 0
	}
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if n >= limit {
				return n
			}
			t := p.env.Game.Tile(p.pos.Offset(dx, dy))
			if t == nil {
				continue
			}
			c := t.TopVisibleCreature(p)
			if c == nil || c.AsPlayer() == p || !keep(c) {
				continue
			}
			n++
		}
	}
	return n
}

func (w *Wheel) checkBattleInstinct(p *Player, now int64) bool {
	w.timers[timerBattleInstinct] = now + wheelCheckEvery
	n := p.nearbyCreatures(8, func(c Creature) bool {
		m := c.Master()
		return m == nil || m.AsPlayer() != p
	})
	var melee, shield int32
	if n >= 5 {
		w.nearby = uint16(n)
		melee = int32(n - 4)
		shield = 6 * int32(n-4)
	}
	a := w.setMajor(MajorMelee, melee)
	b := w.setMajor(MajorShield, shield)
	return a || b
}

func (w *Wheel) checkPositionalTactics(p *Player, now int64) bool {
	w.timers[timerPositionalTactics] = now + wheelCheckEvery
	n := p.nearbyCreatures(1, func(c Creature) bool {
		if c.Kind() != KindMonster {
			return false
		}
		m := c.Master()
		return m == nil || m.AsPlayer() == nil
	})
	distance, magic := int32(3), int32(0)
	if n > 0 {
		distance, magic = 0, 3
	}
	a := w.setMajor(MajorDistance, distance)
	b := w.setMajor(MajorMagic, magic)
	return a || b
}

func (w *Wheel) checkBallisticMastery(p *Player, now int64) bool {
	w.timers[timerBallisticMastery] = now + wheelCheckEvery
	var critical, physical, holy int32
	if it := p.Weapon(false); it != nil {
		switch it.AmmoType() {
		case data.AmmoBolt:
			critical = 10
		case data.AmmoArrow:
			physical, holy = 2, 2
		}
	}
	a := w.setMajor(MajorCriticalDamage, critical)
	b := w.setMajor(MajorPhysicalDamage, physical)
	c := w.setMajor(MajorHolyDamage, holy)
	return a || b || c
}

func (w *Wheel) checkCombatMastery(p *Player, now int64) bool {
	w.timers[timerCombatMastery] = now + wheelCheckEvery
	stage := w.stages[StageCombatMastery]
	if it := p.Weapon(false); it != nil && it.SlotPosition()&data.SlotPosTwoHand != 0 {
		a := w.setMajor(MajorCriticalDamage2, byStage(stage, 4, 8, 12))
		b := w.setMajor(MajorDefense, 0)
		return a || b
	}
	a := w.setMajor(MajorCriticalDamage2, 0)
	b := w.setMajor(MajorDefense, byStage(stage, 10, 20, 30))
	return a || b
}

func (w *Wheel) checkDivineEmpowerment(p *Player, now int64) bool {
	w.timers[timerDivineEmpowerment] = now + wheelCheckEvery
	var bonus int32
	if t := p.tile(); t != nil && t.ItemTypeCount(data.ItemDivineEmpowered) > 0 {
		bonus = byStage(w.stages[StageDivineEmpowerment], 8, 10, 12)
	}
	return w.setMajor(MajorDamage, bonus)
}

// TriggerGiftOfLife saves the player from a lethal hit when Gift of Life
// is unlocked and off cooldown. It heals, shortens every spell cooldown by
// a minute and starts its own cooldown.
func (p *Player) TriggerGiftOfLife() bool {
	w := &p.wheel
	if !w.instants[InstantGiftOfLife] || w.giftCooldown > 0 {
		return false
	}
	heal := p.MaxHealth() * w.giftHeal / 100
	p.client.SendTextMessage(MessageEvent, "That was close! Fortunately, your were saved by the Gift of Life.")
	if p.env.Game != nil {
		p.env.Game.AddMagicEffect(p.pos, EffectWaterDrop)
	}
	p.ChangeHealth(heal)
	p.ReduceAllSpellsCooldownTimer(60000)
	w.giftCooldown = w.giftTotalCooldown
	w.timers[timerGiftOfLife] = p.env.now() + 1000
	return true
}

// DamageBonus is the outgoing damage percent granted by Divine
// Empowerment.
func (p *Player) DamageBonus() int32 {
	return p.wheel.conditionalMajor(InstantDivineEmpowerment, MajorDamage)
}

func healthPercent(c Creature) int32 {
	if c.MaxHealth() <= 0 {
		return 0
	}
	return int32(math.Round(float64(c.Health()) * 100 / float64(c.MaxHealth())))
}

// BlessingOfTheGroveHealing is the healing bonus percent on a wounded
// target.
func (p *Player) BlessingOfTheGroveHealing(target Creature) int32 {
	if target == nil || target.AsPlayer() == p {
		return 0
	}
	stage := p.wheel.stages[StageBlessingOfTheGrove]
	switch hp := healthPercent(target); {
	case hp <= 30:
		return byStage(stage, 12, 18, 24)
	case hp <= 60:
		return byStage(stage, 6, 9, 12)
	}
	return 0
}

// TwinBurstDamage is the damage bonus percent on a healthy target.
func (p *Player) TwinBurstDamage(target Creature) int32 {
	if target == nil || target.AsPlayer() == p || healthPercent(target) <= 60 {
		return 0
	}
	return byStage(p.wheel.stages[StageTwinBurst], 20, 40, 60)
}

// ExecutionersThrowDamage is the damage bonus percent on a nearly dead
// target.
func (p *Player) ExecutionersThrowDamage(target Creature) int32 {
	if target == nil || target.AsPlayer() == p || healthPercent(target) > 30 {
		return 0
	}
	return byStage(p.wheel.stages[StageExecutionersThrow], 100, 125, 150)
}

func (p *Player) BeamMasteryDamage() int32 {
	return byStage(p.wheel.stages[StageBeamMastery], 10, 12, 14)
}

// BattleHealingAmount grows with the shield skill and with missing health.
func (p *Player) BattleHealingAmount() int32 {
	amount := int32(float64(p.SkillLevel(data.SkillShield)) * 0.2)
	switch hp := p.health * 100 / p.MaxHealth(); {
	case hp <= 30:
		amount *= 3
	case hp <= 60:
		amount *= 2
	}
	return amount
}

// AvatarSkill is the bonus of an active avatar transformation.
func (p *Player) AvatarSkill(skill AvatarSkill) int32 {
	return p.wheel.avatarSkill(skill, p.env.now())
}

func (p *Player) Wheel() *Wheel { return &p.wheel }
