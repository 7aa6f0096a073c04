package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Imbuement is an item modifier active while the item is equipped.
type Imbuement struct {
	ID         uint16
	Name       string
	Absorb     [CombatCount]int16
	SkillBonus [SkillCount]int32
	Speed      int32
}

type ImbuementTable struct {
	byID map[uint16]*Imbuement
}

func (t *ImbuementTable) Get(id uint16) *Imbuement { return t.byID[id] }

type imbuementListFile struct {
	Imbuements []struct {
		ID     uint16           `yaml:"id"`
		Name   string           `yaml:"name"`
		Absorb map[string]int16 `yaml:"absorb"`
		Skills map[string]int32 `yaml:"skills"`
		Speed  int32            `yaml:"speed"`
	} `yaml:"imbuements"`
}

func LoadImbuementTable(path string) (*ImbuementTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read imbuements: %w", err)
	}
	var f imbuementListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse imbuements: %w", err)
	}
	t := &ImbuementTable{byID: make(map[uint16]*Imbuement, len(f.Imbuements))}
	for _, e := range f.Imbuements {
		im := &Imbuement{ID: e.ID, Name: e.Name, Speed: e.Speed}
		for k, v := range e.Absorb {
			ct, err := lookup(combatKeys, k, "combat type")
			if err != nil {
				return nil, fmt.Errorf("imbuement %d: %w", e.ID, err)
			}
			im.Absorb[ct] = v
		}
		for k, v := range e.Skills {
			sk, err := lookup(skillKeys, k, "skill")
			if err != nil {
				return nil, fmt.Errorf("imbuement %d: %w", e.ID, err)
			}
			im.SkillBonus[sk] = v
		}
		t.byID[im.ID] = im
	}
	return t, nil
}
