package world_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
	"github.com/l1jgo/playerd/internal/world"
)

type move struct {
	ID       uint32
	From, To geo.Position
	Teleport bool
}

// viewClient records the world updates a client renders on top of what
// playertest.Client records.
type viewClient struct {
	playertest.Client

	Added        []uint32
	Removed      []uint32
	Moves        []move
	Effects      []player.MagicEffect
	Speeds       []uint32
	Outfits      []player.Outfit
	Walkthrough  map[uint32]bool
	ClosedTrades int
	Shields      []uint32
	Statuses     []uint32
}

func (c *viewClient) SendAddCreature(cr player.Creature, _ geo.Position) {
	c.Added = append(c.Added, cr.CreatureID())
}

func (c *viewClient) SendRemoveCreature(cr player.Creature, _ geo.Position) {
	c.Removed = append(c.Removed, cr.CreatureID())
}

func (c *viewClient) SendMoveCreature(cr player.Creature, from, to geo.Position, teleport bool) {
	c.Moves = append(c.Moves, move{ID: cr.CreatureID(), From: from, To: to, Teleport: teleport})
}

func (c *viewClient) SendMagicEffect(_ geo.Position, e player.MagicEffect) {
	c.Effects = append(c.Effects, e)
}

func (c *viewClient) SendSoundEffect(geo.Position, player.SoundEffect) {}
func (c *viewClient) SendCreatureHealth(player.Creature)               {}
func (c *viewClient) SendCreatureLight(player.Creature, player.Light)  {}

func (c *viewClient) SendCreatureSpeed(_ player.Creature, speed uint32) {
	c.Speeds = append(c.Speeds, speed)
}

func (c *viewClient) SendCreatureOutfit(_ player.Creature, o player.Outfit) {
	c.Outfits = append(c.Outfits, o)
}

func (c *viewClient) SendCreatureWalkthrough(cr player.Creature, walkthrough bool) {
	if c.Walkthrough == nil {
		c.Walkthrough = make(map[uint32]bool)
	}
	c.Walkthrough[cr.CreatureID()] = walkthrough
}

func (c *viewClient) SendCloseTrade() { c.ClosedTrades++ }

func (c *viewClient) SendCreatureShield(p *player.Player) {
	c.Shields = append(c.Shields, p.GUID())
}

func (c *viewClient) SendPartyMemberStatus(p *player.Player) {
	c.Statuses = append(c.Statuses, p.GUID())
}

var (
	_ world.Viewer      = (*viewClient)(nil)
	_ world.PartyViewer = (*viewClient)(nil)
)

type fixture struct {
	*playertest.World
	State *world.State
}

// newFixture runs players against a real State over the bundled map.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := playertest.NewWorld(t)
	s := world.NewState(w.Env.Items, w.Env.Tables.Map, zap.NewNop())
	s.Parties.Configure(w.Clock, int64(w.Cfg.Game.PzLocked))
	w.Env.Game = s
	return &fixture{World: w, State: s}
}

// enter logs a level 8 knight in at pos.
func (f *fixture) enter(t *testing.T, guid uint32, name string, pos geo.Position) (*player.Player, *viewClient) {
	t.Helper()
	p := player.New(f.Env, f.State.NextPlayerID(), playertest.Snapshot(guid, name, pos))
	c := &viewClient{}
	p.SetClient(c)
	require.True(t, f.State.PlaceCreature(p))
	p.OnLogin()
	return p, c
}

func pos(x, y uint16) geo.Position { return geo.Position{X: x, Y: y, Z: 7} }
