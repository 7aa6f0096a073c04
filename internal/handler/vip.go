package handler

import (
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
)

// HandleVIPAdd processes CVIPAdd: [S name].
func HandleVIPAdd(sess *net.Session, r *packet.Reader, deps *Deps) {
	name := r.ReadS()
	p := sess.Player

	var (
		guid  uint32
		exact string
	)
	if other := deps.World.PlayerByName(name); other != nil {
		guid, exact = other.GUID(), other.Name()
	} else {
		ctx, cancel := deps.ctx()
		var err error
		guid, exact, err = deps.Players.GUIDByName(ctx, name)
		cancel()
		if err != nil {
			deps.Log.Error("vip add: name lookup failed", zap.String("name", name), zap.Error(err))
			sess.SendTextMessage(player.MessageFailure, "A player with this name does not exist.")
			return
		}
	}
	if guid == 0 {
		sess.SendTextMessage(player.MessageFailure, "A player with this name does not exist.")
		return
	}
	if guid == p.GUID() {
		sess.SendTextMessage(player.MessageFailure, "You cannot add yourself.")
		return
	}

	ctx, cancel := deps.ctx()
	defer cancel()
	if err := p.AddVIP(ctx, guid, exact, vipStatus(deps, guid)); err != nil {
		deps.Log.Debug("vip add refused", zap.Uint32("guid", p.GUID()), zap.Error(err))
	}
}

// HandleVIPRemove processes CVIPRemove: [D guid].
func HandleVIPRemove(sess *net.Session, r *packet.Reader, deps *Deps) {
	guid := r.ReadD()
	ctx, cancel := deps.ctx()
	defer cancel()
	if err := sess.Player.RemoveVIP(ctx, guid); err != nil {
		deps.Log.Debug("vip remove refused", zap.Uint32("vip", guid), zap.Error(err))
	}
}

// HandleVIPEdit processes CVIPEdit: [D guid][S description][D icon][C notify].
func HandleVIPEdit(sess *net.Session, r *packet.Reader, deps *Deps) {
	e := player.VIPEntry{
		GUID:        r.ReadD(),
		Description: r.ReadS(),
		Icon:        r.ReadD(),
		Notify:      r.ReadBool(),
	}
	ctx, cancel := deps.ctx()
	defer cancel()
	if err := sess.Player.EditVIP(ctx, e); err != nil {
		deps.Log.Debug("vip edit refused", zap.Uint32("vip", e.GUID), zap.Error(err))
	}
}
