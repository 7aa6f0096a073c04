package handler

import (
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
)

// HandleAttack processes CAttack: [D creature id]. Id 0 clears the target.
func HandleAttack(sess *net.Session, r *packet.Reader, deps *Deps) {
	id := r.ReadD()
	p := sess.Player
	p.ResetIdleTime()
	if id == 0 {
		p.SetAttackedCreature(nil)
		return
	}
	target := deps.World.Creature(id)
	if target == nil || target == player.Creature(p) {
		p.SetAttackedCreature(nil)
		sess.SendCancelTarget()
		return
	}
	p.SetAttackedCreature(target)
}

// HandleFollow processes CFollow: [D creature id]. Following drops the
// attack target.
func HandleFollow(sess *net.Session, r *packet.Reader, deps *Deps) {
	id := r.ReadD()
	p := sess.Player
	p.ResetIdleTime()
	if p.AttackedCreature() != nil {
		p.SetAttackedCreature(nil)
	}
	target := deps.World.Creature(id)
	if target == nil || target == player.Creature(p) {
		p.SetFollowCreature(nil)
		sess.SendCancelTarget()
		return
	}
	p.SetFollowCreature(target)
}

// HandleCancelTarget processes CCancelTarget.
func HandleCancelTarget(sess *net.Session, _ *packet.Reader, _ *Deps) {
	p := sess.Player
	p.SetAttackedCreature(nil)
	p.SetFollowCreature(nil)
}

// HandleFightModes processes CFightModes: [C fight mode][C chase][C secure].
func HandleFightModes(sess *net.Session, r *packet.Reader, _ *Deps) {
	mode := player.FightMode(r.ReadC())
	chase := r.ReadBool()
	secure := r.ReadBool()
	if mode < player.FightAttack || mode > player.FightDefense {
		return
	}
	p := sess.Player
	p.SetFightMode(mode)
	p.SetChaseMode(chase)
	p.SetSecureMode(secure)
}
