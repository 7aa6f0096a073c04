package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Sex uint8

const (
	SexFemale Sex = iota
	SexMale
)

type Outfit struct {
	LookType uint16
	Name     string
	Sex      Sex
	Premium  bool
	Unlocked bool // wearable without owning it, base addons only
}

type OutfitTable struct {
	bySex [2]map[uint16]*Outfit
}

// Get returns the outfit of lookType for sex, or nil.
func (t *OutfitTable) Get(sex Sex, lookType uint16) *Outfit {
	if int(sex) >= len(t.bySex) {
		return nil
	}
	return t.bySex[sex][lookType]
}

type Mount struct {
	ID       uint8
	ClientID uint16
	Name     string
	Speed    int32
	Premium  bool
}

type MountTable struct {
	byID     map[uint8]*Mount
	byClient map[uint16]*Mount
}

func (t *MountTable) Get(id uint8) *Mount          { return t.byID[id] }
func (t *MountTable) ByClientID(cid uint16) *Mount { return t.byClient[cid] }
func (t *MountTable) Count() int                   { return len(t.byID) }

type outfitListFile struct {
	Outfits []struct {
		LookType uint16 `yaml:"look_type"`
		Name     string `yaml:"name"`
		Sex      string `yaml:"sex"`
		Premium  bool   `yaml:"premium"`
		Unlocked bool   `yaml:"unlocked"`
	} `yaml:"outfits"`
}

func LoadOutfitTable(path string) (*OutfitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read outfits: %w", err)
	}
	var f outfitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse outfits: %w", err)
	}
	t := &OutfitTable{}
	for i := range t.bySex {
		t.bySex[i] = make(map[uint16]*Outfit)
	}
	for _, e := range f.Outfits {
		var sex Sex
		switch e.Sex {
		case "male":
			sex = SexMale
		case "female":
			sex = SexFemale
		default:
			return nil, fmt.Errorf("outfit %d: unknown sex %q", e.LookType, e.Sex)
		}
		t.bySex[sex][e.LookType] = &Outfit{
			LookType: e.LookType,
			Name:     e.Name,
			Sex:      sex,
			Premium:  e.Premium,
			Unlocked: e.Unlocked,
		}
	}
	return t, nil
}

type mountListFile struct {
	Mounts []struct {
		ID       uint8  `yaml:"id"`
		ClientID uint16 `yaml:"client_id"`
		Name     string `yaml:"name"`
		Speed    int32  `yaml:"speed"`
		Premium  bool   `yaml:"premium"`
	} `yaml:"mounts"`
}

func LoadMountTable(path string) (*MountTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mounts: %w", err)
	}
	var f mountListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mounts: %w", err)
	}
	t := &MountTable{
		byID:     make(map[uint8]*Mount, len(f.Mounts)),
		byClient: make(map[uint16]*Mount, len(f.Mounts)),
	}
	for _, e := range f.Mounts {
		if e.ID == 0 {
			return nil, fmt.Errorf("mount %q: id must be positive", e.Name)
		}
		m := &Mount{ID: e.ID, ClientID: e.ClientID, Name: e.Name, Speed: e.Speed, Premium: e.Premium}
		t.byID[m.ID] = m
		t.byClient[m.ClientID] = m
	}
	return t, nil
}
