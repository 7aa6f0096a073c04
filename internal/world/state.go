// Package world is the game façade players run against: the online
// registry, the tile map, creature placement and every side effect one
// creature has on the clients around it.
package world

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// Creature ids handed out to players start here, below are monsters and
// NPCs.
const playerIDBase uint32 = 0x10000000

var _ player.Game = (*State)(nil)

// View range of a client around its player.
const (
	ViewRangeX = 8
	ViewRangeY = 6
)

// State tracks every creature in the world and the tiles they stand on.
// Single-goroutine access only (game loop).
type State struct {
	items *item.Store
	maps  *data.MapTable
	log   *zap.Logger
	fold  cases.Caser

	tiles     map[geo.Position]*Tile
	creatures map[uint32]player.Creature // creature id → creature
	players   map[uint32]*player.Player  // guid → player
	byName    map[string]*player.Player  // folded name → player
	aoi       *AOIGrid
	positions map[uint32]geo.Position // creature id → position it is indexed under

	nextPlayerID uint32
	nextID       uint32

	attacks    map[uint32]struct{}
	follows    map[uint32]player.Creature
	departures []*player.Player

	Parties *Parties
	Guilds  *Guilds

	// reusable AOI query buffer (game loop only)
	aoiBuf []uint32
}

func NewState(items *item.Store, maps *data.MapTable, log *zap.Logger) *State {
	return &State{
		items:        items,
		maps:         maps,
		log:          log,
		fold:         cases.Fold(),
		tiles:        make(map[geo.Position]*Tile),
		creatures:    make(map[uint32]player.Creature),
		players:      make(map[uint32]*player.Player),
		byName:       make(map[string]*player.Player),
		aoi:          NewAOIGrid(),
		positions:    make(map[uint32]geo.Position),
		nextPlayerID: playerIDBase,
		nextID:       1,
		attacks:      make(map[uint32]struct{}),
		follows:      make(map[uint32]player.Creature),
		Parties:      NewParties(),
		Guilds:       NewGuilds(),
	}
}

// NextPlayerID hands out a creature id for a player entering the world.
func (s *State) NextPlayerID() uint32 {
	s.nextPlayerID++
	return s.nextPlayerID
}

// NextCreatureID hands out a creature id for a monster or NPC.
func (s *State) NextCreatureID() uint32 {
	s.nextID++
	return s.nextID
}

// --- Tiles ---

func (s *State) Tile(pos geo.Position) player.Tile {
	if t := s.tileAt(pos); t != nil {
		return t
	}
	return nil
}

// TileAt returns the concrete tile at pos, or nil outside the map.
func (s *State) TileAt(pos geo.Position) *Tile { return s.tileAt(pos) }

func (s *State) tileAt(pos geo.Position) *Tile {
	if t, ok := s.tiles[pos]; ok {
		return t
	}
	if s.maps == nil || !s.maps.IsInMap(pos) {
		return nil
	}
	t := newTile(pos, s.maps.AreaAt(pos))
	s.tiles[pos] = t
	return t
}

// SetTile replaces the tile at pos with a bare tile carrying flags.
func (s *State) SetTile(pos geo.Position, flags player.TileFlag) *Tile {
	t := &Tile{pos: pos, flags: flags}
	if old := s.tiles[pos]; old != nil {
		t.creatures = old.creatures
		t.items = old.items
	}
	s.tiles[pos] = t
	return t
}

// --- Creatures ---

// PlaceCreature puts c onto the map at its current position and shows it
// to every spectator. It fails outside the map.
func (s *State) PlaceCreature(c player.Creature) bool {
	pos := c.Position()
	t := s.tileAt(pos)
	if t == nil {
		return false
	}
	id := c.CreatureID()
	if _, ok := s.creatures[id]; ok {
		return false
	}
	s.creatures[id] = c
	s.positions[id] = pos
	s.aoi.Add(id, pos)
	t.addCreature(c)
	for _, spec := range s.viewers(pos, c) {
		spec.SendAddCreature(c, pos)
	}
	if p := c.AsPlayer(); p != nil {
		if zone := player.ZoneOf(t); zone != p.Zone() {
			p.OnChangeZone(zone)
		}
	}
	return true
}

// Creature returns a placed creature by creature id, or nil.
func (s *State) Creature(id uint32) player.Creature { return s.creatures[id] }

// CreatureCount is the number of placed creatures, players included.
func (s *State) CreatureCount() int { return len(s.creatures) }

// MoveCreature steps c onto to. Spectators of both squares are told and
// every player around is notified of the move.
func (s *State) MoveCreature(c player.Creature, to geo.Position, teleport bool) item.ReturnValue {
	id := c.CreatureID()
	from, ok := s.positions[id]
	if !ok {
		return item.RetNotPossible
	}
	dest := s.tileAt(to)
	if dest == nil {
		return item.RetNotPossible
	}
	if from == to {
		return item.RetNoError
	}
	if src := s.tileAt(from); src != nil {
		src.removeCreature(c)
	}
	dest.addCreature(c)
	s.aoi.Move(id, from, to)
	s.positions[id] = to
	if p := c.AsPlayer(); p != nil {
		p.SetPosition(to)
	}

	seen := make(map[uint32]bool)
	for _, center := range []geo.Position{from, to} {
		for _, spec := range s.spectatorPlayers(center) {
			if seen[spec.CreatureID()] {
				continue
			}
			seen[spec.CreatureID()] = true
			if v := viewerOf(spec); v != nil {
				v.SendMoveCreature(c, from, to, teleport)
			}
			spec.OnCreatureMove(c, to, from, teleport)
		}
	}
	if p := c.AsPlayer(); p != nil && !seen[p.CreatureID()] {
		p.OnCreatureMove(c, to, from, teleport)
	}
	return item.RetNoError
}

func (s *State) Spectators(center geo.Position, rangeX, rangeY int, onlyPlayers bool) []player.Creature {
	s.aoiBuf = s.aoi.Nearby(center, rangeX, rangeY, s.aoiBuf)
	ids := s.aoiBuf
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]player.Creature, 0, len(ids))
	for _, id := range ids {
		c := s.creatures[id]
		if c == nil {
			continue
		}
		if onlyPlayers && c.AsPlayer() == nil {
			continue
		}
		pos := s.positions[id]
		if geo.DistX(pos, center) <= rangeX && geo.DistY(pos, center) <= rangeY {
			out = append(out, c)
		}
	}
	return out
}

func (s *State) spectatorPlayers(center geo.Position) []*player.Player {
	var out []*player.Player
	for _, c := range s.Spectators(center, ViewRangeX+1, ViewRangeY+1, true) {
		out = append(out, c.AsPlayer())
	}
	return out
}

// viewers returns the clients that render the square around pos. Pass
// skip to leave one creature's own client out.
func (s *State) viewers(pos geo.Position, skip player.Creature) []Viewer {
	var out []Viewer
	for _, p := range s.spectatorPlayers(pos) {
		if skip != nil && player.Creature(p) == skip {
			continue
		}
		if v := viewerOf(p); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (s *State) RemoveCreature(c player.Creature, isLogout bool) bool {
	id := c.CreatureID()
	pos, placed := s.positions[id]
	p := c.AsPlayer()
	if !placed && (p == nil || p.IsRemoved()) {
		return false
	}
	if placed {
		if t := s.tileAt(pos); t != nil {
			t.removeCreature(c)
		}
		s.aoi.Remove(id, pos)
		delete(s.positions, id)
		delete(s.creatures, id)
		delete(s.attacks, id)
		delete(s.follows, id)
		for _, v := range s.viewers(pos, c) {
			v.SendRemoveCreature(c, pos)
		}
	}
	if p == nil {
		return true
	}
	if p.TradeState() != player.TradeNone {
		s.InternalCloseTrade(p)
	}
	if p.IsRemoved() {
		return true
	}
	p.OnLogout()
	if isLogout {
		s.departures = append(s.departures, p)
	}
	s.log.Debug("creature removed",
		zap.String("name", p.Name()),
		zap.Uint32("guid", p.GUID()),
		zap.Bool("logout", isLogout))
	return true
}

// TakeDepartures returns the players that logged out since the last call.
func (s *State) TakeDepartures() []*player.Player {
	out := s.departures
	s.departures = nil
	return out
}

// --- Online registry ---

func (s *State) AddPlayer(p *player.Player) {
	s.players[p.GUID()] = p
	s.byName[s.fold.String(p.Name())] = p
}

func (s *State) RemovePlayer(p *player.Player) {
	if s.players[p.GUID()] != p {
		return
	}
	delete(s.players, p.GUID())
	delete(s.byName, s.fold.String(p.Name()))
}

func (s *State) PlayerByGUID(guid uint32) *player.Player { return s.players[guid] }

// PlayerByName finds an online player ignoring case.
func (s *State) PlayerByName(name string) *player.Player {
	return s.byName[s.fold.String(name)]
}

// Players returns the online players ordered by guid.
func (s *State) Players() []*player.Player {
	out := make([]*player.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GUID() < out[j].GUID() })
	return out
}

// PlayerCount returns the number of players online.
func (s *State) PlayerCount() int { return len(s.players) }

// --- Broadcasts ---

func (s *State) AddMagicEffect(pos geo.Position, effect player.MagicEffect) {
	for _, v := range s.viewers(pos, nil) {
		v.SendMagicEffect(pos, effect)
	}
}

func (s *State) SendSingleSoundEffect(pos geo.Position, sound player.SoundEffect, _ player.Creature) {
	for _, v := range s.viewers(pos, nil) {
		v.SendSoundEffect(pos, sound)
	}
}

// ChangeSpeed applies delta to a player's speed and shows the result.
func (s *State) ChangeSpeed(c player.Creature, delta int32) {
	if p := c.AsPlayer(); p != nil && delta != 0 {
		p.AddSpeed(delta)
	}
	sp, ok := c.(speeder)
	if !ok {
		return
	}
	for _, v := range s.viewers(c.Position(), nil) {
		v.SendCreatureSpeed(c, sp.Speed())
	}
}

func (s *State) ChangeLight(c player.Creature) {
	l, ok := c.(lighter)
	if !ok {
		return
	}
	for _, v := range s.viewers(c.Position(), nil) {
		v.SendCreatureLight(c, l.Light())
	}
}

func (s *State) InternalCreatureChangeOutfit(c player.Creature, o player.Outfit) {
	for _, v := range s.viewers(c.Position(), nil) {
		v.SendCreatureOutfit(c, o)
	}
}

func (s *State) AddCreatureHealth(c player.Creature) {
	for _, v := range s.viewers(c.Position(), nil) {
		v.SendCreatureHealth(c)
	}
}

func (s *State) AddPlayerMana(p *player.Player) {
	p.Client().SendStats()
}

// UpdateCreatureWalkthrough tells every player around whether it may walk
// through c.
func (s *State) UpdateCreatureWalkthrough(c player.Creature) {
	for _, p := range s.spectatorPlayers(c.Position()) {
		if player.Creature(p) == c {
			continue
		}
		if v := viewerOf(p); v != nil {
			v.SendCreatureWalkthrough(c, p.CanWalkthroughEx(c))
		}
	}
}

func (s *State) ReloadCreature(c player.Creature) {
	pos := c.Position()
	for _, v := range s.viewers(pos, nil) {
		v.SendRemoveCreature(c, pos)
		v.SendAddCreature(c, pos)
	}
}

// InternalTeleport moves c to pos without walking.
func (s *State) InternalTeleport(c player.Creature, pos geo.Position) item.ReturnValue {
	if s.tileAt(pos) == nil {
		return item.RetNotPossible
	}
	if _, placed := s.positions[c.CreatureID()]; !placed {
		if p := c.AsPlayer(); p != nil {
			p.SetPosition(pos)
			return item.RetNoError
		}
		return item.RetNotPossible
	}
	return s.MoveCreature(c, pos, true)
}

// InternalCloseTrade cancels the trade p takes part in, for both sides.
func (s *State) InternalCloseTrade(p *player.Player) {
	partner := p.TradePartner()
	s.closeTrade(p)
	if partner != nil && partner.TradePartner() == p {
		s.closeTrade(partner)
	}
}

func (s *State) closeTrade(p *player.Player) {
	if p.TradeState() == player.TradeNone {
		return
	}
	p.SetTrade(player.TradeNone, 0, nil)
	p.Client().SendTextMessage(player.MessageFailure, "Trade cancelled.")
	if v := viewerOf(p); v != nil {
		v.SendCloseTrade()
	}
}

// --- Combat scheduling ---

func (s *State) CheckCreatureAttack(creatureID uint32) {
	s.attacks[creatureID] = struct{}{}
}

func (s *State) AddToCheckFollow(c player.Creature) {
	s.follows[c.CreatureID()] = c
}

// ProcessAttacks runs one attack round for every creature that asked for
// one since the last call.
func (s *State) ProcessAttacks() {
	if len(s.attacks) == 0 {
		return
	}
	ids := make([]uint32, 0, len(s.attacks))
	for id := range s.attacks {
		ids = append(ids, id)
	}
	clear(s.attacks)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if p := s.playerByCreatureID(id); p != nil {
			p.DoAttacking()
		}
	}
}

// ProcessFollows steps every following player one square towards its
// target. Targets on another floor or out of view are dropped.
func (s *State) ProcessFollows() {
	if len(s.follows) == 0 {
		return
	}
	ids := make([]uint32, 0, len(s.follows))
	for id := range s.follows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := s.follows[id]
		delete(s.follows, id)
		p := c.AsPlayer()
		if p == nil {
			continue
		}
		target := p.FollowCreature()
		if target == nil {
			continue
		}
		from, to := p.Position(), target.Position()
		if from.Z != to.Z || geo.DistX(from, to) > ViewRangeX || geo.DistY(from, to) > ViewRangeY {
			p.SetFollowCreature(nil)
			p.Client().SendCancelTarget()
			continue
		}
		if geo.InRange(from, to, 1) {
			continue
		}
		next := from.Offset(sign(int(to.X)-int(from.X)), sign(int(to.Y)-int(from.Y)))
		if s.MoveCreature(p, next, false).OK() && !geo.InRange(next, to, 1) {
			s.follows[id] = c
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (s *State) playerByCreatureID(id uint32) *player.Player {
	if c := s.creatures[id]; c != nil {
		return c.AsPlayer()
	}
	return nil
}
