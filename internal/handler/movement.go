package handler

import (
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
)

// Direction deltas indexed by heading (0-7), clockwise from north.
var headingDX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var headingDY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}

// HandleMove processes CMove: [C heading]. A manual step drops the follow
// target.
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) {
	heading := r.ReadC()
	if heading > 7 {
		return
	}
	p := sess.Player
	p.ResetIdleTime()
	if p.FollowCreature() != nil {
		p.SetFollowCreature(nil)
	}
	dest := p.Position().Offset(headingDX[heading], headingDY[heading])
	if rv := deps.World.MoveCreature(p, dest, false); rv != item.RetNoError {
		sess.SendCancelMessage(rv)
	}
}

// HandleLogout processes CLogout. The client is told when it may not log
// out yet.
func HandleLogout(sess *net.Session, _ *packet.Reader, _ *Deps) {
	sess.Logout(true, false)
}

// HandlePong processes CPong.
func HandlePong(sess *net.Session, _ *packet.Reader, _ *Deps) {
	sess.Player.ReceivePong()
}

// HandleModalAnswer processes CModalAnswer: [D window id][C button][C choice].
func HandleModalAnswer(sess *net.Session, r *packet.Reader, _ *Deps) {
	id := r.ReadD()
	_ = r.ReadC()
	_ = r.ReadC()
	sess.Player.OnModalWindowHandled(id)
}
