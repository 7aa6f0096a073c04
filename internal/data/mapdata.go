package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/playerd/internal/geo"
)

// AreaFlag marks a property shared by every tile of an area.
type AreaFlag uint32

const (
	AreaProtection AreaFlag = 1 << iota
	AreaNoPvP
	AreaPvP
	AreaNoLogout
	AreaDepot
	AreaHouse
)

var areaFlagNames = map[string]AreaFlag{
	"protection": AreaProtection,
	"nopvp":      AreaNoPvP,
	"pvp":        AreaPvP,
	"nologout":   AreaNoLogout,
	"depot":      AreaDepot,
	"house":      AreaHouse,
}

// Area is a rectangle on one floor with tile flags. Later areas win over
// earlier ones where they overlap.
type Area struct {
	Name      string
	From      geo.Position
	To        geo.Position
	Flags     AreaFlag
	House     uint32
	WalkStack bool
}

// Contains reports whether pos lies inside the area.
func (a *Area) Contains(pos geo.Position) bool {
	return pos.Z == a.From.Z &&
		a.From.X <= pos.X && pos.X <= a.To.X &&
		a.From.Y <= pos.Y && pos.Y <= a.To.Y
}

// MapTable holds the walkable bounds of the world and its flagged areas.
type MapTable struct {
	Name   string
	Bounds Area
	Temple geo.Position
	Areas  []Area
}

type mapFile struct {
	Name   string       `yaml:"name"`
	From   geo.Position `yaml:"from"`
	To     geo.Position `yaml:"to"`
	Floors [2]uint8     `yaml:"floors"`
	Temple geo.Position `yaml:"temple"`
	Areas  []struct {
		Name      string       `yaml:"name"`
		From      geo.Position `yaml:"from"`
		To        geo.Position `yaml:"to"`
		Flags     []string     `yaml:"flags"`
		House     uint32       `yaml:"house"`
		WalkStack bool         `yaml:"walk_stack"`
	} `yaml:"areas"`
}

// LoadMapTable loads the map bounds and zone areas from YAML.
func LoadMapTable(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	var file mapFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	if file.To.X < file.From.X || file.To.Y < file.From.Y {
		return nil, fmt.Errorf("map %s: empty bounds %s..%s", path, file.From, file.To)
	}

	t := &MapTable{
		Name:   file.Name,
		Bounds: Area{Name: file.Name, From: file.From, To: file.To},
		Temple: file.Temple,
	}
	t.Bounds.From.Z = file.Floors[0]
	t.Bounds.To.Z = file.Floors[1]

	for _, a := range file.Areas {
		if a.From.Z != a.To.Z {
			return nil, fmt.Errorf("map %s: area %q spans floors", path, a.Name)
		}
		area := Area{
			Name:      a.Name,
			From:      a.From,
			To:        a.To,
			House:     a.House,
			WalkStack: a.WalkStack,
		}
		for _, name := range a.Flags {
			f, ok := areaFlagNames[name]
			if !ok {
				return nil, fmt.Errorf("map %s: area %q: unknown flag %q", path, a.Name, name)
			}
			area.Flags |= f
		}
		if area.House != 0 {
			area.Flags |= AreaHouse
		}
		t.Areas = append(t.Areas, area)
	}
	return t, nil
}

// IsInMap checks if pos is within the map bounds.
func (t *MapTable) IsInMap(pos geo.Position) bool {
	b := t.Bounds
	return b.From.X <= pos.X && pos.X <= b.To.X &&
		b.From.Y <= pos.Y && pos.Y <= b.To.Y &&
		b.From.Z <= pos.Z && pos.Z <= b.To.Z
}

// AreaAt returns the last area containing pos, or nil.
func (t *MapTable) AreaAt(pos geo.Position) *Area {
	for i := len(t.Areas) - 1; i >= 0; i-- {
		if t.Areas[i].Contains(pos) {
			return &t.Areas[i]
		}
	}
	return nil
}
