package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// VocationNone is the vocation of fresh characters. Its gains are also
// used for every character up to level 8.
const VocationNone uint16 = 0

// Vocation holds the progression and combat coefficients of one vocation.
type Vocation struct {
	ID           uint16
	ClientID     uint8
	Name         string
	FromVocation uint16

	GainHP   uint32
	GainMana uint32
	GainCap  uint32 // oz*100

	AttackSpeed uint32 // ms
	BaseSpeed   uint16
	SoulMax     uint8

	ManaMultiplier   float64
	SkillBase        [SkillCount]uint32
	SkillMultipliers [SkillCount]float64

	ArmorMultiplier           float64
	DefenseMultiplier         float64
	MitigationFactor          float64
	MitigationPrimaryShield   float64
	MitigationSecondaryShield float64

	// Spells lists the instant spell names this vocation may cast.
	Spells []string
}

// ReqSkillTries is the number of tries needed to reach level from level-1.
// A curve that stops growing means the skill is maxed.
func (v *Vocation) ReqSkillTries(skill Skill, level uint16) uint64 {
	if skill >= SkillCount {
		return 0
	}
	f := float64(v.SkillBase[skill]) * math.Pow(v.SkillMultipliers[skill], float64(int(level)-11))
	return saturate(f)
}

// ReqMana is the mana that must be spent to reach magLevel, rounded to 20.
func (v *Vocation) ReqMana(magLevel uint32) uint64 {
	if magLevel == 0 {
		return 0
	}
	req := saturate(400 * math.Pow(v.ManaMultiplier, float64(int64(magLevel)-1)))
	if req == math.MaxUint64 {
		return req
	}
	if mod := req % 20; mod < 10 {
		req -= mod
	} else {
		req += 20 - mod
	}
	return req
}

func saturate(f float64) uint64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(f)
}

type VocationTable struct {
	byID     map[uint16]*Vocation
	promoted map[uint16]uint16
}

func (t *VocationTable) Get(id uint16) *Vocation {
	return t.byID[id]
}

func (t *VocationTable) Count() int {
	return len(t.byID)
}

// PromotedOf returns the vocation promoted from id, or VocationNone when
// there is none.
func (t *VocationTable) PromotedOf(id uint16) uint16 {
	return t.promoted[id]
}

// IsPromoted reports whether v was reached by promotion and cannot be
// promoted further.
func (t *VocationTable) IsPromoted(v *Vocation) bool {
	if v == nil || v.ID == VocationNone {
		return false
	}
	return t.PromotedOf(v.ID) == VocationNone && v.FromVocation != v.ID
}

type vocationEntry struct {
	ID           uint16             `yaml:"id"`
	ClientID     uint8              `yaml:"client_id"`
	Name         string             `yaml:"name"`
	FromVocation uint16             `yaml:"from_vocation"`
	GainHP       uint32             `yaml:"gain_hp"`
	GainMana     uint32             `yaml:"gain_mana"`
	GainCap      uint32             `yaml:"gain_cap"`
	AttackSpeed  uint32             `yaml:"attack_speed"`
	BaseSpeed    uint16             `yaml:"base_speed"`
	SoulMax      uint8              `yaml:"soul_max"`
	ManaMult     float64            `yaml:"mana_multiplier"`
	Skills       map[string]float64 `yaml:"skill_multipliers"`
	ArmorMult    float64            `yaml:"armor_multiplier"`
	DefenseMult  float64            `yaml:"defense_multiplier"`
	Mitigation   struct {
		Factor    float64 `yaml:"factor"`
		Primary   float64 `yaml:"primary_shield"`
		Secondary float64 `yaml:"secondary_shield"`
	} `yaml:"mitigation"`
	Spells []string `yaml:"spells"`
}

type vocationListFile struct {
	Vocations []vocationEntry `yaml:"vocations"`
}

var defaultSkillBase = [SkillCount]uint32{50, 50, 50, 50, 30, 100, 20}

func LoadVocationTable(path string) (*VocationTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocations: %w", err)
	}
	var f vocationListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse vocations: %w", err)
	}
	t := &VocationTable{
		byID:     make(map[uint16]*Vocation, len(f.Vocations)),
		promoted: make(map[uint16]uint16),
	}
	for i := range f.Vocations {
		e := &f.Vocations[i]
		v := &Vocation{
			ID:                        e.ID,
			ClientID:                  e.ClientID,
			Name:                      e.Name,
			FromVocation:              e.FromVocation,
			GainHP:                    e.GainHP,
			GainMana:                  e.GainMana,
			GainCap:                   e.GainCap,
			AttackSpeed:               e.AttackSpeed,
			BaseSpeed:                 e.BaseSpeed,
			SoulMax:                   e.SoulMax,
			ManaMultiplier:            e.ManaMult,
			SkillBase:                 defaultSkillBase,
			ArmorMultiplier:           orOne(e.ArmorMult),
			DefenseMultiplier:         orOne(e.DefenseMult),
			MitigationFactor:          e.Mitigation.Factor,
			MitigationPrimaryShield:   e.Mitigation.Primary,
			MitigationSecondaryShield: e.Mitigation.Secondary,
			Spells:                    e.Spells,
		}
		for s := range v.SkillMultipliers {
			v.SkillMultipliers[s] = 1.5
		}
		for key, mult := range e.Skills {
			skill, err := lookup(skillKeys, key, "skill")
			if err != nil {
				return nil, fmt.Errorf("vocation %d: %w", e.ID, err)
			}
			v.SkillMultipliers[skill] = mult
		}
		if _, dup := t.byID[v.ID]; dup {
			return nil, fmt.Errorf("duplicate vocation id %d", v.ID)
		}
		t.byID[v.ID] = v
	}
	for _, v := range t.byID {
		if v.FromVocation != v.ID && v.ID != VocationNone {
			if _, ok := t.byID[v.FromVocation]; ok {
				t.promoted[v.FromVocation] = v.ID
			}
		}
	}
	if t.Get(VocationNone) == nil {
		return nil, fmt.Errorf("vocations: missing vocation %d", VocationNone)
	}
	return t, nil
}

func orOne(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}
