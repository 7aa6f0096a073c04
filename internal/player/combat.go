package player

import (
	"math"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/core/sched"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

type BlockType uint8

const (
	BlockNone BlockType = iota
	BlockDefense
	BlockArmor
	BlockImmunity
)

// hitsPerSkillPoint is how many blocked hits are rewarded with attack and
// shield tries after the last hit that drew blood.
const hitsPerSkillPoint = 30

// potionBoost is the percent defense and attack potions shift damage by.
const potionBoost = 8

type damageBlock struct {
	total  int64
	ticks  int64 // ms
	player bool
	level  uint32
}

type combatState struct {
	attackedCreature Creature
	followCreature   Creature
	lastAttack       int64

	fightMode  FightMode
	chaseMode  bool
	secureMode bool
	pzLocked   bool

	lastAttackBlockType BlockType
	addAttackSkillPoint bool
	bloodHitCount       int32
	shieldBlockCount    int32

	attacked  map[uint32]struct{}
	damageMap map[uint32]*damageBlock

	momentum             float64 // chance per 2 s of in-fight time
	lastMomentumTime     int64
	mitigationMultiplier float64 // percent
}

func newCombatState() combatState {
	return combatState{
		fightMode:  FightAttack,
		secureMode: true,
		attacked:   make(map[uint32]struct{}),
		damageMap:  make(map[uint32]*damageBlock),
	}
}

func (p *Player) FightMode() FightMode           { return p.combat.fightMode }
func (p *Player) SetFightMode(m FightMode)       { p.combat.fightMode = m }
func (p *Player) ChaseMode() bool                { return p.combat.chaseMode }
func (p *Player) SecureMode() bool               { return p.combat.secureMode }
func (p *Player) SetSecureMode(v bool)           { p.combat.secureMode = v }
func (p *Player) AttackedCreature() Creature     { return p.combat.attackedCreature }
func (p *Player) FollowCreature() Creature       { return p.combat.followCreature }
func (p *Player) LastAttackBlockType() BlockType { return p.combat.lastAttackBlockType }
func (p *Player) AddAttackSkillPoint() bool      { return p.combat.addAttackSkillPoint }
func (p *Player) SetMomentum(chance float64)     { p.combat.momentum = chance }

// SetMitigationMultiplier sets the percent bonus applied on top of the
// computed mitigation.
func (p *Player) SetMitigationMultiplier(pct float64) { p.combat.mitigationMultiplier = pct }

// weaponIn returns the weapon in slot. Shields and ammo are not weapons. A
// distance weapon that fires ammo resolves to the first matching ammo in
// a quiver held in the right hand, or nil without one.
func (p *Player) weaponIn(slot Slot, ignoreAmmo bool) *item.Item {
	it := p.InventoryItem(slot)
	if it == nil {
		return nil
	}
	switch it.WeaponType() {
	case data.WeaponNone, data.WeaponShield, data.WeaponAmmo:
		return nil
	}
	if ignoreAmmo || it.WeaponType() != data.WeaponDistance || it.AmmoType() == data.AmmoNone {
		return it
	}
	quiver := p.InventoryItem(SlotRight)
	if quiver == nil || !quiver.IsQuiver() {
		return nil
	}
	for _, id := range quiver.Children() {
		if ammo := p.env.Items.Get(id); ammo != nil && ammo.AmmoType() == it.AmmoType() {
			return ammo
		}
	}
	return nil
}

// Weapon returns the weapon the player attacks with, checking the left
// hand first.
func (p *Player) Weapon(ignoreAmmo bool) *item.Item {
	if it := p.weaponIn(SlotLeft, ignoreAmmo); it != nil {
		return it
	}
	return p.weaponIn(SlotRight, ignoreAmmo)
}

func (p *Player) WeaponType() data.WeaponType {
	if it := p.Weapon(false); it != nil {
		return it.WeaponType()
	}
	return data.WeaponNone
}

// WeaponSkill is the skill level used to swing it. A nil item is a fist.
func (p *Player) WeaponSkill(it *item.Item) int32 {
	if it == nil {
		return int32(p.SkillLevel(data.SkillFist))
	}
	switch it.WeaponType() {
	case data.WeaponSword:
		return int32(p.SkillLevel(data.SkillSword))
	case data.WeaponClub:
		return int32(p.SkillLevel(data.SkillClub))
	case data.WeaponAxe:
		return int32(p.SkillLevel(data.SkillAxe))
	case data.WeaponDistance:
		return int32(p.SkillLevel(data.SkillDistance))
	}
	return 0
}

var armorSlots = [...]Slot{SlotHead, SlotNecklace, SlotArmor, SlotLegs, SlotFeet, SlotRing}

// Armor is the summed armor of worn equipment scaled by the vocation.
func (p *Player) Armor() int32 {
	var armor int32
	for _, s := range armorSlots {
		if it := p.InventoryItem(s); it != nil {
			armor += it.Type().Armor
		}
	}
	return int32(float64(armor) * p.vocation.ArmorMultiplier)
}

// shieldAndWeapon picks the best shield and the weapon held in either
// hand.
func (p *Player) shieldAndWeapon() (shield, weapon *item.Item) {
	for _, s := range [...]Slot{SlotRight, SlotLeft} {
		it := p.InventoryItem(s)
		if it == nil {
			continue
		}
		switch it.WeaponType() {
		case data.WeaponNone:
		case data.WeaponShield:
			if shield == nil || it.Type().Defense > shield.Type().Defense {
				shield = it
			}
		default:
			weapon = it
		}
	}
	return shield, weapon
}

func (p *Player) HasShield() bool {
	for _, s := range [...]Slot{SlotLeft, SlotRight} {
		if it := p.InventoryItem(s); it != nil && it.WeaponType() == data.WeaponShield {
			return true
		}
	}
	return false
}

// Defense is the defense roll ceiling. A shield defends with the shield
// skill, adding the extra defense of a weapon in the other hand; a lone
// weapon defends with its own skill.
func (p *Player) Defense() int32 {
	skill := int32(p.SkillLevel(data.SkillFist))
	value := int32(7)
	shield, weapon := p.shieldAndWeapon()
	if weapon != nil {
		value = weapon.Type().Defense + weapon.Type().ExtraDefense
		skill = p.WeaponSkill(weapon)
	}
	if shield != nil {
		value = shield.Type().Defense
		if weapon != nil {
			value += weapon.Type().ExtraDefense
		}
		if value > 0 {
			value += p.wheel.conditionalMajor(InstantCombatMastery, MajorDefense)
		}
		skill = int32(p.SkillLevel(data.SkillShield))
	}
	if skill == 0 {
		if p.combat.fightMode == FightDefense {
			return 2
		}
		return 1
	}
	return int32((float64(skill)/4 + 2.23) * float64(value) * 0.15 * p.DefenseFactor() * p.vocation.DefenseMultiplier)
}

func (p *Player) AttackFactor() float64 {
	switch p.combat.fightMode {
	case FightBalanced:
		return 0.75
	case FightDefense:
		return 0.5
	}
	return 1
}

// DefenseFactor lowers defense while the last swing is still recovering.
func (p *Player) DefenseFactor() float64 {
	recovering := p.env.now()-p.combat.lastAttack < int64(p.AttackSpeed())
	switch p.combat.fightMode {
	case FightAttack:
		if recovering {
			return 0.5
		}
	case FightBalanced:
		if recovering {
			return 0.75
		}
	}
	return 1
}

// Mitigation is the damage percent absorbed by shield skill and hand
// equipment, rounded up to hundredths.
func (p *Player) Mitigation() float64 {
	skill := float64(p.SkillLevel(data.SkillShield))
	weapon := p.InventoryItem(SlotLeft)
	shield := p.InventoryItem(SlotRight)
	v := p.vocation

	fightFactor := 1.0
	switch p.combat.fightMode {
	case FightAttack:
		fightFactor = 0.67
	case FightBalanced:
		fightFactor = 0.84
	}
	shieldFactor, distanceFactor := 1.0, 1.0
	var defense int32

	if shield != nil {
		if shield.IsSpellBook() || shield.IsQuiver() {
			distanceFactor = v.MitigationSecondaryShield
		} else {
			shieldFactor = v.MitigationPrimaryShield
		}
		defense = shield.Type().Defense
		if defense > 0 {
			defense += p.wheel.conditionalMajor(InstantCombatMastery, MajorDefense)
		}
	}
	if weapon != nil {
		switch {
		case weapon.AmmoType() == data.AmmoBolt || weapon.AmmoType() == data.AmmoArrow:
			distanceFactor = v.MitigationSecondaryShield
		case weapon.IsTwoHanded():
			defense = weapon.Type().Defense + weapon.Type().ExtraDefense
			shieldFactor = v.MitigationSecondaryShield
		default:
			defense += weapon.Type().ExtraDefense
			shieldFactor = v.MitigationPrimaryShield
		}
	}

	m := math.Ceil((skill*v.MitigationFactor+shieldFactor*float64(defense))/100*fightFactor*distanceFactor*100) / 100
	m += m * p.combat.mitigationMultiplier / 100
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		p.env.Log.Error("invalid mitigation",
			zap.String("name", p.name),
			zap.Uint16("vocation", v.ID),
			zap.Float64("value", m))
		return 0
	}
	return m
}

// AttackSpeed is the swing interval in ms.
func (p *Player) AttackSpeed() uint32 {
	if p.vocation == nil {
		return 2000
	}
	return p.vocation.AttackSpeed
}

// OnBlockHit trains shielding while blocks are still rewarded.
func (p *Player) OnBlockHit() {
	if p.combat.shieldBlockCount <= 0 {
		return
	}
	p.combat.shieldBlockCount--
	if p.HasShield() {
		p.AddSkillAdvance(data.SkillShield, 1)
	}
}

// OnAttackedCreatureBlockHit records how the target took this player's
// hit. Hits that draw blood refill the training counters; blocked hits
// still train until they run out.
func (p *Player) OnAttackedCreatureBlockHit(bt BlockType) {
	p.combat.lastAttackBlockType = bt
	switch bt {
	case BlockNone:
		p.combat.addAttackSkillPoint = true
		p.combat.bloodHitCount = hitsPerSkillPoint
		p.combat.shieldBlockCount = hitsPerSkillPoint
	case BlockDefense, BlockArmor:
		if p.combat.bloodHitCount > 0 {
			p.combat.addAttackSkillPoint = true
			p.combat.bloodHitCount--
		} else {
			p.combat.addAttackSkillPoint = false
		}
	default:
		p.combat.addAttackSkillPoint = false
	}
}

// BlockHit runs an incoming hit through defense, armor, equipment and
// imbuement absorbs, potions and Wheel of Destiny reductions. It returns
// how the hit was blocked and the damage left.
func (p *Player) BlockHit(attacker Creature, ct data.CombatType, damage int64, checkDefense, checkArmor, field bool) (BlockType, int64) {
	bt, damage := p.baseBlockHit(attacker, ct, damage, checkDefense, checkArmor)
	if attacker != nil {
		p.client.SendCreatureSquare(attacker, SquareBlack)
	}
	if bt != BlockNone {
		return bt, damage
	}
	if damage <= 0 {
		return bt, damage
	}

	for s := SlotFirst; s <= SlotLast; s++ {
		it := p.InventoryItem(s)
		if it == nil {
			continue
		}
		typ := it.Type()
		if pct := typ.Absorb[ct]; pct != 0 {
			damage -= int64(math.Round(float64(damage) * float64(pct) / 100))
			p.useCharge(it)
		}
		if field {
			if pct := typ.FieldAbsorb[ct]; pct != 0 {
				damage -= int64(math.Round(float64(damage) * float64(pct) / 100))
				p.useCharge(it)
			}
		}
		for i, slot := range it.Imbuements {
			if i >= int(typ.ImbuementSlots) || slot.Duration <= 0 {
				continue
			}
			im := p.env.Tables.Imbuements.Get(slot.ID)
			if im == nil {
				continue
			}
			if pct := im.Absorb[ct]; pct != 0 {
				damage -= int64(math.Ceil(float64(damage) * float64(pct) / 100))
			}
		}
	}

	if damage > 0 {
		if p.conditions.Get(condition.SpecialPotionEffect, condition.IDDefault, uint32(ct)) != nil {
			damage -= int64(math.Ceil(float64(damage) * potionBoost / 100))
		}
		if other := attackerPlayer(attacker); other != nil {
			if other.conditions.Get(condition.SpecialPotionEffect, condition.IDCombat, uint32(ct)) != nil {
				damage += int64(math.Ceil(float64(damage) * potionBoost / 100))
			}
		}
	}

	if r := p.wheel.Resistance(ct); r > 0 {
		damage -= int64(math.Ceil(float64(damage) * float64(r) / 10000))
	}
	damage -= int64(math.Ceil(float64(damage) * float64(p.wheel.avatarSkill(AvatarDamageReduction, p.env.now())) / 100))

	if damage <= 0 {
		damage = 0
		bt = BlockArmor
	}
	return bt, damage
}

func attackerPlayer(c Creature) *Player {
	if c == nil {
		return nil
	}
	return c.AsPlayer()
}

// baseBlockHit is the creature-level block: immunity, a defense roll and
// an armor roll. It also tells the attacker how its hit was taken.
func (p *Player) baseBlockHit(attacker Creature, ct data.CombatType, damage int64, checkDefense, checkArmor bool) (BlockType, int64) {
	bt := BlockNone
	if p.isImmuneTo(ct) {
		damage = 0
		bt = BlockImmunity
	} else {
		if checkDefense && p.combat.attackedCreature != nil || checkDefense && p.combat.fightMode != FightAttack {
			if def := p.Defense(); def > 0 {
				damage -= int64(def/2 + p.env.Rand.Int31n(def-def/2+1))
			}
			if damage <= 0 {
				damage = 0
				bt = BlockDefense
				checkArmor = false
			}
		}
		if checkArmor {
			armor := p.Armor()
			switch {
			case armor > 3:
				lo := armor / 2
				hi := armor - (armor%2 + 1)
				damage -= int64(lo + p.env.Rand.Int31n(max(hi-lo, 0)+1))
			case armor > 0:
				damage--
			}
			if damage <= 0 {
				damage = 0
				bt = BlockArmor
			}
		}
		if bt != BlockNone {
			p.OnBlockHit()
		}
	}
	if other := attackerPlayer(attacker); other != nil {
		other.OnAttackedCreature(p)
		other.OnAttackedCreatureBlockHit(bt)
	}
	p.addInFightTicks(false)
	return bt, damage
}

// isImmuneTo is true for players who cannot be attacked at all.
func (p *Player) isImmuneTo(ct data.CombatType) bool {
	return ct != data.CombatHealing && p.hasFlag(FlagCannotBeAttacked)
}

// useCharge spends one charge of an absorbing item.
func (p *Player) useCharge(it *item.Item) {
	if it.Charges == 0 || p.env.Game == nil {
		return
	}
	p.env.Game.TransformItem(it.ID(), it.TypeID(), int32(it.Charges)-1)
}

// SetAttackedCreature targets c, or drops the target when c is nil. With
// chase mode on the player also follows the target.
func (p *Player) SetAttackedCreature(c Creature) bool {
	if c != nil && !p.canAttackIn(c) {
		p.client.SendCancelTarget()
		return false
	}
	p.combat.attackedCreature = c
	switch {
	case p.combat.chaseMode && c != nil:
		if p.combat.followCreature != c {
			p.SetFollowCreature(c)
		}
	case p.combat.followCreature != nil:
		p.SetFollowCreature(nil)
	}
	if c != nil && p.env.Game != nil {
		p.env.Game.CheckCreatureAttack(p.id)
	}
	return true
}

// canAttackIn reports whether c stands where this player may attack it.
func (p *Player) canAttackIn(c Creature) bool {
	if c.Position().Z != p.pos.Z || p.hasFlag(FlagIgnoreProtectionZone) {
		return c.Position().Z == p.pos.Z
	}
	if p.env.Game == nil {
		return true
	}
	switch ZoneOf(p.env.Game.Tile(c.Position())) {
	case ZoneProtection:
		return false
	case ZoneNoPvP:
		return c.AsPlayer() == nil
	}
	return true
}

func (p *Player) SetFollowCreature(c Creature) {
	p.combat.followCreature = c
	if c != nil && p.env.Game != nil {
		p.env.Game.AddToCheckFollow(p)
	}
}

// SetChaseMode toggles chasing the attacked creature.
func (p *Player) SetChaseMode(chase bool) {
	prev := p.combat.chaseMode
	p.combat.chaseMode = chase
	if prev == chase {
		return
	}
	switch {
	case chase && p.combat.followCreature == nil && p.combat.attackedCreature != nil:
		p.SetFollowCreature(p.combat.attackedCreature)
	case !chase && p.combat.attackedCreature != nil:
		p.SetFollowCreature(nil)
	}
}

// OnAttackedCreatureChangeZone drops the target when it walks into a
// zone where it may not be attacked.
func (p *Player) OnAttackedCreatureChangeZone(zone Zone) {
	target := p.combat.attackedCreature
	if target == nil {
		return
	}
	drop := false
	switch zone {
	case ZoneProtection:
		drop = !p.hasFlag(FlagIgnoreProtectionZone)
	case ZoneNoPvP:
		drop = target.AsPlayer() != nil && !p.hasFlag(FlagIgnoreProtectionZone)
	case ZoneNormal:
		drop = p.worldType() == config.WorldNoPvP && target.AsPlayer() != nil
	}
	if drop {
		p.SetAttackedCreature(nil)
		p.client.SendCancelTarget()
	}
}

// DoAttacking swings at the attacked creature once the attack speed
// allows it and schedules the next attack check.
func (p *Player) DoAttacking() {
	now := p.env.now()
	speed := int64(p.AttackSpeed())
	if p.combat.lastAttack == 0 {
		p.combat.lastAttack = now - speed - 1
	}
	if p.HasCondition(condition.Pacified) || now-p.combat.lastAttack < speed {
		return
	}

	tool := p.Weapon(false)
	weapons := p.env.Weapons
	classic := p.env.Cfg.Game.ClassicAttackSpeed
	delay := speed
	result := false
	switch {
	case tool != nil && weapons.InterruptsSwing(tool) && !classic && !p.CanDoAction():
		delay = p.NextActionTime()
	default:
		result = weapons.Use(p, tool, p.combat.attackedCreature)
	}

	delay = max(delay, sched.MinTicks.Milliseconds())
	check := func() {
		if p.env.Game != nil {
			p.env.Game.CheckCreatureAttack(p.id)
		}
	}
	if classic {
		p.env.Sched.AddEvent(ms(delay), check)
	} else {
		p.lanes.Replace(p.env.Sched, sched.LaneAction, ms(delay), check)
	}
	if result {
		p.combat.lastAttack = now
	}
}

// AddDamagePoints records damage taken from attacker for experience
// sharing and death loss.
func (p *Player) AddDamagePoints(attacker Creature, points int64) {
	if attacker == nil || points <= 0 {
		return
	}
	b, ok := p.combat.damageMap[attacker.CreatureID()]
	if !ok {
		b = &damageBlock{}
		p.combat.damageMap[attacker.CreatureID()] = b
	}
	b.total += points
	b.ticks = p.env.now()
	if other := attacker.AsPlayer(); other != nil {
		b.player = true
		b.level = other.level
	}
}

// DamageRatio is the share of recorded damage dealt by attacker.
func (p *Player) DamageRatio(attacker Creature) float64 {
	if attacker == nil {
		return 0
	}
	var total, own int64
	for id, b := range p.combat.damageMap {
		total += b.total
		if id == attacker.CreatureID() {
			own = b.total
		}
	}
	if total == 0 {
		return 0
	}
	return float64(own) / float64(total)
}

// OnAttackedCreatureDrainHealth credits party shared experience for
// damage dealt to hostile monsters.
func (p *Player) OnAttackedCreatureDrainHealth(target Creature, points int64) {
	if target == nil || p.social.party == nil || points <= 0 {
		return
	}
	if target.Kind() == KindMonster && target.Master() == nil && target.IsHostile() {
		p.social.party.UpdatePlayerTicks(p, uint32(points))
	}
}

// OnTargetCreatureGainHealth credits party shared experience for healing
// a party member or a party member's summon.
func (p *Player) OnTargetCreatureGainHealth(target Creature, points int64) {
	if target == nil || p.social.party == nil || points <= 0 {
		return
	}
	other := target.AsPlayer()
	if other == nil {
		if m := target.Master(); m != nil {
			other = m.AsPlayer()
		}
	}
	if other != nil && other != p && p.IsPartner(other) {
		p.social.party.UpdatePlayerTicks(p, uint32(points))
	}
}
