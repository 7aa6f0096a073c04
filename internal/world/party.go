package world

import (
	"math"
	"slices"

	"github.com/l1jgo/playerd/internal/core/clock"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
)

const (
	MaxPartySize = 30

	// ChannelParty is the private chat channel every party owns.
	ChannelParty uint16 = 1

	// Shared experience needs every member within this many squares of the
	// leader and at most one floor apart.
	sharedExpRange  = 30
	sharedExpFloors = 1
)

var _ player.Party = (*Party)(nil)

// Parties owns every active party. Single-goroutine access only (game
// loop).
type Parties struct {
	parties  map[*Party]struct{}
	clk      clock.Clock
	pzLocked int64 // ms a damage or heal tick keeps a member active
}

func NewParties() *Parties {
	return &Parties{parties: make(map[*Party]struct{})}
}

// Configure sets the clock and activity window used by shared experience.
func (m *Parties) Configure(clk clock.Clock, pzLockedMs int64) {
	m.clk = clk
	m.pzLocked = pzLockedMs
}

func (m *Parties) now() int64 {
	if m.clk == nil {
		return 0
	}
	return clock.Millis(m.clk)
}

// Count returns the number of active parties.
func (m *Parties) Count() int { return len(m.parties) }

// Create starts a party led by leader. It fails when leader already is in
// a party.
func (m *Parties) Create(leader *player.Player) *Party {
	if leader == nil || leader.Party() != nil {
		return nil
	}
	p := &Party{
		mgr:    m,
		leader: leader,
		ticks:  make(map[uint32]int64),
	}
	m.parties[p] = struct{}{}
	leader.SetParty(p)
	return p
}

// Party is a leader, its members and the players it invited. It
// implements player.Party.
type Party struct {
	mgr     *Parties
	leader  *player.Player
	members []*player.Player // without the leader
	invites []*player.Player

	sharedExpActive  bool
	sharedExpEnabled bool
	ticks            map[uint32]int64 // guid → last damage or heal (ms)
}

func (p *Party) Leader() *player.Player { return p.leader }

// Members returns the members without the leader.
func (p *Party) Members() []*player.Player { return p.members }

func (p *Party) Invitees() []*player.Player { return p.invites }

// Size counts the leader and the members.
func (p *Party) Size() int {
	if p.leader == nil {
		return 0
	}
	return len(p.members) + 1
}

func (p *Party) empty() bool { return len(p.members) == 0 && len(p.invites) == 0 }

func (p *Party) IsInvited(pl *player.Player) bool {
	return slices.Contains(p.invites, pl)
}

// Invite asks pl to join the party.
func (p *Party) Invite(pl *player.Player) bool {
	if pl == nil || p.IsInvited(pl) || pl.Party() != nil || p.Size()+len(p.invites) >= MaxPartySize {
		return false
	}
	if p.empty() {
		p.leader.Client().SendTextMessage(player.MessageInfoDescr,
			pl.Name()+" has been invited. Open the party channel to communicate with your members.")
	} else {
		p.leader.Client().SendTextMessage(player.MessageInfoDescr, pl.Name()+" has been invited.")
	}
	p.invites = append(p.invites, pl)
	pl.AddPartyInvitation(p)
	pl.Client().SendTextMessage(player.MessageInfoDescr,
		p.leader.Name()+" has invited you to "+possessive(p.leader)+" party.")
	p.updateShield(pl)
	p.updateShield(p.leader)
	return true
}

// Join moves an invited player into the party.
func (p *Party) Join(pl *player.Player) bool {
	if !p.IsInvited(pl) || p.Size() >= MaxPartySize {
		return false
	}
	p.broadcast(pl.Name() + " has joined the party.")
	p.invites = slices.DeleteFunc(p.invites, func(x *player.Player) bool { return x == pl })
	p.members = append(p.members, pl)
	pl.SetParty(p)
	pl.RemovePartyInvitation(p)
	pl.ClearPartyInvitations()
	p.updateAllShields()
	p.UpdateSharedExperience()
	pl.Client().SendTextMessage(player.MessageInfoDescr,
		"You have joined "+p.leader.Name()+"'s party. Open the party channel to communicate with your companions.")
	return true
}

func (p *Party) RemoveInvite(pl *player.Player, removeFromPlayer bool) {
	if !p.IsInvited(pl) {
		return
	}
	p.invites = slices.DeleteFunc(p.invites, func(x *player.Player) bool { return x == pl })
	if removeFromPlayer {
		pl.RemovePartyInvitation(p)
	}
	if p.empty() {
		p.Disband()
		return
	}
	p.updateShield(pl)
	p.updateShield(p.leader)
}

// RevokeInvitation withdraws an invitation on the leader's behalf.
func (p *Party) RevokeInvitation(pl *player.Player) {
	if !p.IsInvited(pl) {
		return
	}
	pl.Client().SendTextMessage(player.MessageInfoDescr,
		p.leader.Name()+" has revoked "+possessive(p.leader)+" invitation.")
	p.leader.Client().SendTextMessage(player.MessageInfoDescr, "Invitation for "+pl.Name()+" has been revoked.")
	p.RemoveInvite(pl, true)
}

// PassLeadership makes the member pl the leader.
func (p *Party) PassLeadership(pl *player.Player) bool {
	if pl == nil || pl == p.leader || !slices.Contains(p.members, pl) {
		return false
	}
	p.members = slices.DeleteFunc(p.members, func(x *player.Player) bool { return x == pl })
	p.broadcast(pl.Name() + " is now the leader of the party.")
	old := p.leader
	p.leader = pl
	p.members = append([]*player.Player{old}, p.members...)
	p.updateAllShields()
	p.UpdateSharedExperience()
	pl.Client().SendTextMessage(player.MessageInfoDescr, "You are now the leader of the party.")
	return true
}

// LeaveParty removes pl. A leaving leader hands over to the first member,
// and a party left without members and invites is disbanded.
func (p *Party) LeaveParty(pl *player.Player) bool {
	if pl == nil || (pl.Party() != p && pl != p.leader) {
		return false
	}
	missingLeader := false
	if pl == p.leader {
		switch {
		case len(p.members) == 0:
			missingLeader = true
		case len(p.members) == 1 && len(p.invites) == 0:
			missingLeader = true
		default:
			p.PassLeadership(p.members[0])
		}
	}

	p.members = slices.DeleteFunc(p.members, func(x *player.Player) bool { return x == pl })
	pl.SetParty(nil)
	pl.Client().SendClosePrivate(ChannelParty)
	delete(p.ticks, pl.GUID())
	pl.Client().SendTextMessage(player.MessageInfoDescr, "You have left the party.")
	p.updateShield(pl)

	if missingLeader || p.empty() {
		p.Disband()
		return true
	}
	p.broadcast(pl.Name() + " has left the party.")
	p.updateAllShields()
	p.UpdateSharedExperience()
	return true
}

// Disband dissolves the party, telling everyone involved.
func (p *Party) Disband() {
	if _, ok := p.mgr.parties[p]; !ok {
		return
	}
	delete(p.mgr.parties, p)

	leader := p.leader
	for _, inv := range p.invites {
		inv.RemovePartyInvitation(p)
		p.updateShield(inv)
	}
	p.invites = nil

	members := p.members
	p.members = nil
	for _, m := range append([]*player.Player{leader}, members...) {
		if m.Party() != p {
			continue
		}
		m.SetParty(nil)
		m.Client().SendClosePrivate(ChannelParty)
		m.Client().SendTextMessage(player.MessageInfoDescr, "Your party has been disbanded.")
		p.updateShield(m)
	}
	clear(p.ticks)
}

// --- Shared experience ---

func (p *Party) SharedExperienceActive() bool  { return p.sharedExpActive }
func (p *Party) SharedExperienceEnabled() bool { return p.sharedExpEnabled }

// SetSharedExperience turns shared experience on or off. Only the leader
// may.
func (p *Party) SetSharedExperience(pl *player.Player, active bool) bool {
	if pl != p.leader || p.sharedExpActive == active {
		return false
	}
	p.sharedExpActive = active
	if active {
		p.sharedExpEnabled = p.canEnableSharedExperience()
		if p.sharedExpEnabled {
			p.leader.Client().SendTextMessage(player.MessageInfoDescr, "Shared Experience is now active.")
		} else {
			p.leader.Client().SendTextMessage(player.MessageInfoDescr,
				"Shared Experience has been activated, but some members of your party are inactive.")
		}
	} else {
		p.leader.Client().SendTextMessage(player.MessageInfoDescr, "Shared Experience has been deactivated.")
	}
	p.updateAllShields()
	return true
}

// CanUseSharedExperience reports whether pl qualifies for a share: within
// two thirds of the highest level, near the leader and recently active.
func (p *Party) CanUseSharedExperience(pl *player.Player) bool {
	if len(p.members) == 0 {
		return false
	}
	highest := p.leader.Level()
	for _, m := range p.members {
		highest = max(highest, m.Level())
	}
	minLevel := uint32(math.Ceil(float64(highest) * 2 / 3))
	if pl.Level() < minLevel {
		return false
	}
	lp, pp := p.leader.Position(), pl.Position()
	if geo.DistX(lp, pp) > sharedExpRange || geo.DistY(lp, pp) > sharedExpRange ||
		absDiff(int(lp.Z), int(pp.Z)) > sharedExpFloors {
		return false
	}
	if !pl.HasFlag(player.FlagNotGainInFight) {
		last, ok := p.ticks[pl.GUID()]
		if !ok || p.mgr.now()-last > p.mgr.pzLocked {
			return false
		}
	}
	return true
}

func (p *Party) canEnableSharedExperience() bool {
	if !p.CanUseSharedExperience(p.leader) {
		return false
	}
	for _, m := range p.members {
		if !p.CanUseSharedExperience(m) {
			return false
		}
	}
	return true
}

func (p *Party) UpdateSharedExperience() {
	if !p.sharedExpActive {
		return
	}
	enabled := p.canEnableSharedExperience()
	if enabled != p.sharedExpEnabled {
		p.sharedExpEnabled = enabled
		p.updateAllShields()
	}
}

// ShareExperience splits exp evenly, rounded up, over the leader and every
// member.
func (p *Party) ShareExperience(exp uint64, source player.Creature) {
	share := uint64(math.Ceil(float64(exp) / float64(len(p.members)+1)))
	for _, m := range p.members {
		m.OnGainSharedExperience(share, source)
	}
	p.leader.OnGainSharedExperience(share, source)
}

func (p *Party) UpdatePlayerTicks(pl *player.Player, points uint32) {
	if points == 0 || pl.HasFlag(player.FlagNotGainInFight) {
		return
	}
	p.ticks[pl.GUID()] = p.mgr.now()
	p.UpdateSharedExperience()
}

func (p *Party) ClearPlayerPoints(pl *player.Player) {
	if _, ok := p.ticks[pl.GUID()]; !ok {
		return
	}
	delete(p.ticks, pl.GUID())
	p.UpdateSharedExperience()
}

// UpdatePlayerStatus shows pl's vitals to every other member.
func (p *Party) UpdatePlayerStatus(pl *player.Player) {
	for _, m := range p.all() {
		if m == pl {
			continue
		}
		if v := partyViewerOf(m); v != nil {
			v.SendPartyMemberStatus(pl)
		}
	}
}

// --- Notifications ---

// PartyViewer is implemented by clients that show party member status.
type PartyViewer interface {
	SendPartyMemberStatus(member *player.Player)
	SendCreatureShield(c *player.Player)
}

func partyViewerOf(pl *player.Player) PartyViewer {
	v, _ := pl.Client().(PartyViewer)
	return v
}

func (p *Party) all() []*player.Player {
	return append([]*player.Player{p.leader}, p.members...)
}

func (p *Party) broadcast(msg string) {
	for _, m := range p.all() {
		m.Client().SendTextMessage(player.MessageInfoDescr, msg)
	}
}

// updateShield shows the shield of pl to the party and the party to pl.
func (p *Party) updateShield(pl *player.Player) {
	for _, m := range p.all() {
		if v := partyViewerOf(m); v != nil {
			v.SendCreatureShield(pl)
		}
		if v := partyViewerOf(pl); v != nil && m != pl {
			v.SendCreatureShield(m)
		}
	}
}

func (p *Party) updateAllShields() {
	for _, m := range p.all() {
		p.updateShield(m)
	}
}

func possessive(pl *player.Player) string {
	if pl.Sex() == data.SexFemale {
		return "her"
	}
	return "his"
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
