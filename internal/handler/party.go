package handler

import (
	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/world"
)

// partyOf returns the world party of p, or nil.
func partyOf(p *player.Player) *world.Party {
	party, _ := p.Party().(*world.Party)
	return party
}

// targetPlayer resolves the player behind a creature id in a party packet.
func targetPlayer(r *packet.Reader, deps *Deps) *player.Player {
	c := deps.World.Creature(r.ReadD())
	if c == nil {
		return nil
	}
	return c.AsPlayer()
}

// HandlePartyInvite processes CPartyInvite: [D creature id]. A player
// without a party founds one.
func HandlePartyInvite(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := sess.Player
	target := targetPlayer(r, deps)
	if target == nil || target == p {
		return
	}
	if target.Party() != nil {
		sess.SendTextMessage(player.MessageInfoDescr, target.Name()+" is already in a party.")
		return
	}
	party := partyOf(p)
	founded := false
	if party == nil {
		party = deps.World.Parties.Create(p)
		founded = true
	} else if party.Leader() != p {
		return
	}
	if party == nil {
		return
	}
	if !party.Invite(target) && founded {
		party.Disband()
	}
}

// HandlePartyJoin processes CPartyJoin: [D leader creature id].
func HandlePartyJoin(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := sess.Player
	leader := targetPlayer(r, deps)
	if leader == nil {
		return
	}
	party := partyOf(leader)
	if party == nil || party.Leader() != leader || !party.IsInvited(p) {
		return
	}
	if p.Party() != nil {
		sess.SendTextMessage(player.MessageInfoDescr, "You are already in a party.")
		return
	}
	party.Join(p)
}

// HandlePartyRevoke processes CPartyRevoke: [D creature id].
func HandlePartyRevoke(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := sess.Player
	target := targetPlayer(r, deps)
	party := partyOf(p)
	if target == nil || party == nil || party.Leader() != p {
		return
	}
	party.RevokeInvitation(target)
}

// HandlePartyPassLeader processes CPartyPassLeader: [D creature id].
func HandlePartyPassLeader(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := sess.Player
	target := targetPlayer(r, deps)
	party := partyOf(p)
	if target == nil || party == nil || party.Leader() != p {
		return
	}
	party.PassLeadership(target)
}

// HandlePartyLeave processes CPartyLeave. Nobody leaves during a fight
// outside protection zones.
func HandlePartyLeave(sess *net.Session, _ *packet.Reader, _ *Deps) {
	p := sess.Player
	party := partyOf(p)
	if party == nil {
		return
	}
	if p.HasCondition(condition.InFight) && p.Zone() != player.ZoneProtection {
		sess.SendTextMessage(player.MessageInfoDescr, "You cannot leave the party during a fight.")
		return
	}
	party.LeaveParty(p)
}

// HandlePartyShareExp processes CPartyShareExp: [C active].
func HandlePartyShareExp(sess *net.Session, r *packet.Reader, _ *Deps) {
	active := r.ReadBool()
	if party := partyOf(sess.Player); party != nil {
		party.SetSharedExperience(sess.Player, active)
	}
}
