package playertest

import (
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// Tile is a map square with flags and an optional top creature.
type Tile struct {
	Pos       geo.Position
	Flags     player.TileFlag
	House     uint32
	Items     map[uint16]uint32
	Top       player.Creature
	WalkStack bool
}

func (t *Tile) Position() geo.Position             { return t.Pos }
func (t *Tile) HasFlag(f player.TileFlag) bool     { return t.Flags&f != 0 }
func (t *Tile) ItemTypeCount(typeID uint16) uint32 { return t.Items[typeID] }
func (t *Tile) HasWalkStack() bool                 { return t.WalkStack }
func (t *Tile) HouseID() uint32                    { return t.House }

func (t *Tile) TopVisibleCreature(player.Creature) player.Creature { return t.Top }

// Effect is one AddMagicEffect call.
type Effect struct {
	Pos    geo.Position
	Effect player.MagicEffect
}

// Game is a façade over a tile map and a creature list. Side effects are
// recorded instead of broadcast.
type Game struct {
	Tiles     map[geo.Position]*Tile
	Creatures []player.Creature
	players   []*player.Player

	Effects      []Effect
	Sounds       []player.SoundEffect
	Teleports    []geo.Position
	Outfits      []player.Outfit
	SpeedDeltas  []int32
	Attacks      []uint32
	Follows      int
	Removed      []uint32
	RemovedItems []item.ID
	ClosedTrades int
}

func NewGame() *Game {
	return &Game{Tiles: make(map[geo.Position]*Tile)}
}

// SetTile places a tile with flags at pos and returns it.
func (g *Game) SetTile(pos geo.Position, flags player.TileFlag) *Tile {
	t := &Tile{Pos: pos, Flags: flags, Items: make(map[uint16]uint32)}
	g.Tiles[pos] = t
	return t
}

func (g *Game) Tile(pos geo.Position) player.Tile {
	if t, ok := g.Tiles[pos]; ok {
		return t
	}
	return nil
}

func (g *Game) Spectators(center geo.Position, rangeX, rangeY int, onlyPlayers bool) []player.Creature {
	var out []player.Creature
	within := func(c player.Creature) bool {
		pos := c.Position()
		return pos.Z == center.Z && geo.DistX(pos, center) <= rangeX && geo.DistY(pos, center) <= rangeY
	}
	for _, p := range g.players {
		if within(p) {
			out = append(out, p)
		}
	}
	if onlyPlayers {
		return out
	}
	for _, c := range g.Creatures {
		if within(c) {
			out = append(out, c)
		}
	}
	return out
}

func (g *Game) AddMagicEffect(pos geo.Position, effect player.MagicEffect) {
	g.Effects = append(g.Effects, Effect{Pos: pos, Effect: effect})
}

func (g *Game) SendSingleSoundEffect(_ geo.Position, sound player.SoundEffect, _ player.Creature) {
	g.Sounds = append(g.Sounds, sound)
}

func (g *Game) ChangeSpeed(c player.Creature, delta int32) {
	g.SpeedDeltas = append(g.SpeedDeltas, delta)
	if p := c.AsPlayer(); p != nil {
		p.AddSpeed(delta)
	}
}

func (g *Game) ChangeLight(player.Creature) {}

func (g *Game) InternalTeleport(c player.Creature, pos geo.Position) item.ReturnValue {
	g.Teleports = append(g.Teleports, pos)
	if p := c.AsPlayer(); p != nil {
		p.SetPosition(pos)
	}
	return item.RetNoError
}

func (g *Game) InternalCloseTrade(p *player.Player) {
	g.ClosedTrades++
	p.SetTrade(player.TradeNone, 0, nil)
}

func (g *Game) InternalCreatureChangeOutfit(_ player.Creature, o player.Outfit) {
	g.Outfits = append(g.Outfits, o)
}

func (g *Game) InternalRemoveItem(id item.ID, _ int32) item.ReturnValue {
	g.RemovedItems = append(g.RemovedItems, id)
	return item.RetNoError
}

func (g *Game) InternalRemoveItems(ids []item.ID, _ uint32, _ bool) {
	g.RemovedItems = append(g.RemovedItems, ids...)
}

func (g *Game) TransformItem(id item.ID, _ uint16, _ int32) item.ID { return id }

func (g *Game) UpdateCreatureWalkthrough(player.Creature) {}
func (g *Game) CheckCreatureAttack(id uint32)             { g.Attacks = append(g.Attacks, id) }
func (g *Game) AddToCheckFollow(player.Creature)          { g.Follows++ }
func (g *Game) ReloadCreature(player.Creature)            {}
func (g *Game) AddCreatureHealth(player.Creature)         {}
func (g *Game) AddPlayerMana(*player.Player)              {}

func (g *Game) PlayerByGUID(guid uint32) *player.Player {
	for _, p := range g.players {
		if p.GUID() == guid {
			return p
		}
	}
	return nil
}

func (g *Game) Players() []*player.Player { return g.players }

func (g *Game) AddPlayer(p *player.Player) {
	for _, q := range g.players {
		if q == p {
			return
		}
	}
	g.players = append(g.players, p)
}

func (g *Game) RemovePlayer(p *player.Player) {
	for i, q := range g.players {
		if q == p {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return
		}
	}
}

func (g *Game) RemoveCreature(c player.Creature, _ bool) bool {
	g.Removed = append(g.Removed, c.CreatureID())
	if p := c.AsPlayer(); p != nil {
		g.RemovePlayer(p)
	}
	return true
}

// Creature is a monster or NPC with fixed attributes.
type Creature struct {
	ID      uint32
	Type    player.CreatureKind
	Label   string
	Pos     geo.Position
	HP      int32
	MaxHP   int32
	Owner   player.Creature
	Hostile bool
	Race    uint16
}

func (c *Creature) CreatureID() uint32        { return c.ID }
func (c *Creature) Name() string              { return c.Label }
func (c *Creature) Position() geo.Position    { return c.Pos }
func (c *Creature) Health() int32             { return c.HP }
func (c *Creature) MaxHealth() int32          { return c.MaxHP }
func (c *Creature) AsPlayer() *player.Player  { return nil }
func (c *Creature) IsHostile() bool           { return c.Hostile }
func (c *Creature) RaceID() uint16            { return c.Race }
func (c *Creature) Kind() player.CreatureKind { return c.Type }

func (c *Creature) Master() player.Creature {
	if c.Owner == nil {
		return nil
	}
	return c.Owner
}
