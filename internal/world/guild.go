package world

import (
	"fmt"
	"slices"
	"sort"

	"golang.org/x/text/cases"

	"github.com/l1jgo/playerd/internal/player"
)

var _ player.Guild = (*Guild)(nil)

// Guild is a guild with its online members. It implements player.Guild.
type Guild struct {
	mgr     *Guilds
	id      uint32
	name    string
	motd    string
	members map[uint32]*player.Player // guid → online member
}

func (g *Guild) ID() uint32       { return g.id }
func (g *Guild) Name() string     { return g.name }
func (g *Guild) MOTD() string     { return g.motd }
func (g *Guild) SetMOTD(m string) { g.motd = m }

// AddMember registers an online member and hands it the guild's wars.
func (g *Guild) AddMember(p *player.Player) {
	g.members[p.GUID()] = p
	p.SetGuildWars(g.mgr.WarsOf(g.id))
}

func (g *Guild) RemoveMember(p *player.Player) {
	if g.members[p.GUID()] != p {
		return
	}
	delete(g.members, p.GUID())
	p.SetGuildWars(nil)
}

// OnlineMembers returns the online members ordered by guid.
func (g *Guild) OnlineMembers() []*player.Player {
	out := make([]*player.Player, 0, len(g.members))
	for _, p := range g.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GUID() < out[j].GUID() })
	return out
}

// Broadcast sends msg to every online member.
func (g *Guild) Broadcast(class player.MessageClass, msg string) {
	for _, p := range g.OnlineMembers() {
		p.Client().SendTextMessage(class, msg)
	}
}

// Guilds holds every guild known to the world and the wars between them.
// Single-goroutine access only (game loop).
type Guilds struct {
	guilds map[uint32]*Guild
	byName map[string]uint32 // folded name → guild id
	wars   map[uint32]map[uint32]struct{}
	fold   cases.Caser
}

func NewGuilds() *Guilds {
	return &Guilds{
		guilds: make(map[uint32]*Guild),
		byName: make(map[string]uint32),
		wars:   make(map[uint32]map[uint32]struct{}),
		fold:   cases.Fold(),
	}
}

// Add registers a guild. Ids and names (ignoring case) must be unique.
func (m *Guilds) Add(id uint32, name, motd string) (*Guild, error) {
	if id == 0 {
		return nil, fmt.Errorf("guild %q: zero id", name)
	}
	if _, ok := m.guilds[id]; ok {
		return nil, fmt.Errorf("guild %d: duplicate id", id)
	}
	key := m.fold.String(name)
	if _, ok := m.byName[key]; ok {
		return nil, fmt.Errorf("guild %q: duplicate name", name)
	}
	g := &Guild{mgr: m, id: id, name: name, motd: motd, members: make(map[uint32]*player.Player)}
	m.guilds[id] = g
	m.byName[key] = id
	return g, nil
}

// Get returns a guild by id, or nil.
func (m *Guilds) Get(id uint32) *Guild { return m.guilds[id] }

// ByName returns a guild by name ignoring case, or nil.
func (m *Guilds) ByName(name string) *Guild {
	id, ok := m.byName[m.fold.String(name)]
	if !ok {
		return nil
	}
	return m.guilds[id]
}

func (m *Guilds) Count() int { return len(m.guilds) }

// Remove dissolves a guild. Online members leave it and its wars end.
func (m *Guilds) Remove(id uint32) {
	g := m.guilds[id]
	if g == nil {
		return
	}
	for _, enemy := range m.WarsOf(id) {
		m.EndWar(id, enemy)
	}
	for _, p := range g.OnlineMembers() {
		p.SetGuild(nil)
	}
	delete(m.byName, m.fold.String(g.name))
	delete(m.guilds, id)
}

// StartWar puts two distinct known guilds at war with each other.
func (m *Guilds) StartWar(a, b uint32) bool {
	if a == b || m.guilds[a] == nil || m.guilds[b] == nil {
		return false
	}
	if _, ok := m.wars[a][b]; ok {
		return false
	}
	m.link(a, b)
	m.link(b, a)
	m.refresh(a)
	m.refresh(b)
	return true
}

func (m *Guilds) EndWar(a, b uint32) bool {
	if _, ok := m.wars[a][b]; !ok {
		return false
	}
	delete(m.wars[a], b)
	delete(m.wars[b], a)
	m.refresh(a)
	m.refresh(b)
	return true
}

// WarsOf returns the ids of the guilds id is at war with, ascending.
func (m *Guilds) WarsOf(id uint32) []uint32 {
	set := m.wars[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]uint32, 0, len(set))
	for enemy := range set {
		out = append(out, enemy)
	}
	slices.Sort(out)
	return out
}

func (m *Guilds) link(a, b uint32) {
	if m.wars[a] == nil {
		m.wars[a] = make(map[uint32]struct{})
	}
	m.wars[a][b] = struct{}{}
}

func (m *Guilds) refresh(id uint32) {
	g := m.guilds[id]
	if g == nil {
		return
	}
	wars := m.WarsOf(id)
	for _, p := range g.members {
		p.SetGuildWars(wars)
	}
}
