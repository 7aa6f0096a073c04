package world

import (
	"slices"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
)

// Tile is one square of the map: zone flags, loose ground items counted
// by type and the creatures standing on it in arrival order.
type Tile struct {
	pos       geo.Position
	flags     player.TileFlag
	house     uint32
	walkStack bool
	items     map[uint16]uint32
	creatures []player.Creature
}

func newTile(pos geo.Position, area *data.Area) *Tile {
	t := &Tile{pos: pos}
	if area != nil {
		t.flags = tileFlags(area.Flags)
		t.house = area.House
		t.walkStack = area.WalkStack
	}
	return t
}

func tileFlags(f data.AreaFlag) player.TileFlag {
	var out player.TileFlag
	for af, tf := range map[data.AreaFlag]player.TileFlag{
		data.AreaProtection: player.TileProtectionZone,
		data.AreaNoPvP:      player.TileNoPvPZone,
		data.AreaPvP:        player.TilePvPZone,
		data.AreaNoLogout:   player.TileNoLogout,
		data.AreaDepot:      player.TileDepot,
		data.AreaHouse:      player.TileHouse,
	} {
		if f&af != 0 {
			out |= tf
		}
	}
	return out
}

func (t *Tile) Position() geo.Position         { return t.pos }
func (t *Tile) HasFlag(f player.TileFlag) bool { return t.flags&f != 0 }
func (t *Tile) Flags() player.TileFlag         { return t.flags }
func (t *Tile) HasWalkStack() bool             { return t.walkStack }
func (t *Tile) HouseID() uint32                { return t.house }

func (t *Tile) SetFlags(f player.TileFlag) { t.flags = f }

func (t *Tile) ItemTypeCount(typeID uint16) uint32 { return t.items[typeID] }

// AddGroundItem puts count units of typeID onto the tile.
func (t *Tile) AddGroundItem(typeID uint16, count uint32) {
	if t.items == nil {
		t.items = make(map[uint16]uint32)
	}
	t.items[typeID] += count
}

// RemoveGroundItem takes up to count units of typeID and returns how many
// were removed.
func (t *Tile) RemoveGroundItem(typeID uint16, count uint32) uint32 {
	have := t.items[typeID]
	n := min(have, count)
	if n == have {
		delete(t.items, typeID)
	} else {
		t.items[typeID] = have - n
	}
	return n
}

// TopVisibleCreature is the last creature that stepped onto the tile.
func (t *Tile) TopVisibleCreature(player.Creature) player.Creature {
	if len(t.creatures) == 0 {
		return nil
	}
	return t.creatures[len(t.creatures)-1]
}

// Creatures returns the creatures on the tile, bottom first.
func (t *Tile) Creatures() []player.Creature { return t.creatures }

func (t *Tile) addCreature(c player.Creature) {
	if !slices.Contains(t.creatures, c) {
		t.creatures = append(t.creatures, c)
	}
}

func (t *Tile) removeCreature(c player.Creature) {
	t.creatures = slices.DeleteFunc(t.creatures, func(x player.Creature) bool { return x == c })
}
