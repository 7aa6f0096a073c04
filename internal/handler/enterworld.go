package handler

import (
	"errors"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/world"
)

// HandleEnterWorld processes CEnterWorld: [D account id][S character name].
// The account id is trusted; authentication happens before the game
// server.
func HandleEnterWorld(sess *net.Session, r *packet.Reader, deps *Deps) {
	accountID := r.ReadD()
	name := r.ReadS()
	log := deps.Log.With(zap.Uint64("session", sess.ID), zap.String("name", name))

	ctx, cancel := deps.ctx()
	defer cancel()

	snap, vip, err := deps.Players.LoadPlayer(ctx, name)
	switch {
	case errors.Is(err, persist.ErrPlayerNotFound):
		log.Info("enter world: unknown character")
		loginError(sess, "Your character could not be loaded.")
		return
	case err != nil:
		log.Error("enter world: load failed", zap.Error(err))
		loginError(sess, "Your character could not be loaded.")
		return
	}
	if snap.AccountID != accountID {
		log.Warn("enter world: account mismatch", zap.Uint32("account", accountID))
		loginError(sess, "Your character could not be loaded.")
		return
	}
	if deps.World.PlayerByGUID(snap.GUID) != nil {
		loginError(sess, "You are already logged in.")
		return
	}

	p := player.New(deps.Env, deps.World.NextPlayerID(), snap)
	sess.AccountID = accountID
	sess.Bind(p, deps.World, deps.Env.Items)
	p.SetClient(sess)

	if m, err := deps.Players.MembershipOf(ctx, snap.GUID); err != nil {
		log.Warn("enter world: guild membership unavailable", zap.Error(err))
	} else if m != nil {
		if g := deps.World.Guilds.Get(m.GuildID); g != nil {
			p.SetGuild(g)
			p.SetGuildRank(m.Rank)
			p.SetGuildNick(m.Nick)
		}
	}

	if !deps.World.PlaceCreature(p) {
		p.SetPosition(p.TemplePosition())
		if !deps.World.PlaceCreature(p) {
			log.Error("enter world: no place for character", zap.Stringer("pos", p.Position()))
			p.SetGuild(nil)
			p.SetClient(nil)
			p.Release()
			sess.Bind(nil, nil, nil)
			loginError(sess, "There is no free place to log in.")
			return
		}
	}
	sess.SetState(packet.StateInWorld)

	w := packet.NewWriterWithOpcode(packet.SLoginOK)
	w.WriteD(p.CreatureID())
	w.WriteD(p.GUID())
	w.WriteS(p.Name())
	w.WritePosition(p.Position())
	sess.Send(w.Bytes())

	sess.SendAddCreature(p, p.Position())
	for _, c := range deps.World.Spectators(p.Position(), world.ViewRangeX+1, world.ViewRangeY+1, false) {
		if c != p && sess.CanSee(c.Position()) {
			sess.SendAddCreature(c, c.Position())
		}
	}

	p.OnLogin()
	if p.IsRemoved() {
		return
	}
	sess.SendStats()
	sess.SendSkills()
	for slot := player.SlotFirst; slot <= player.SlotLast; slot++ {
		if it := p.InventoryItem(slot); it != nil {
			sess.SendInventoryItem(slot, it.ID())
		}
	}
	p.OpenPlayerContainers()
	sendVIPList(sess, deps, vip)

	if deps.Env.Store != nil {
		if err := deps.Env.Store.UpdateOnlineStatus(ctx, p.GUID(), true); err != nil {
			log.Warn("enter world: online flag not stored", zap.Error(err))
		}
	}
	if deps.Presence != nil {
		if err := deps.Presence.SetOnline(ctx, p.GUID(), p.Name()); err != nil {
			log.Warn("enter world: presence update failed", zap.Error(err))
		}
	}
	log.Info("player entered world",
		zap.Uint32("guid", p.GUID()),
		zap.Stringer("pos", p.Position()))
}

func sendVIPList(sess *net.Session, deps *Deps, entries []player.VIPEntry) {
	for _, e := range entries {
		sess.SendVIP(e.GUID, e.Name, e.Description, e.Icon, e.Notify, vipStatus(deps, e.GUID))
	}
}

// vipStatus is online when the player is in this world or, with presence
// enabled, on any server.
func vipStatus(deps *Deps, guid uint32) player.VIPStatus {
	if other := deps.World.PlayerByGUID(guid); other != nil {
		return other.VIPStatus()
	}
	if deps.Presence == nil {
		return player.VIPOffline
	}
	ctx, cancel := deps.ctx()
	defer cancel()
	online, err := deps.Presence.IsOnline(ctx, guid)
	if err != nil {
		deps.Log.Warn("presence lookup failed", zap.Uint32("guid", guid), zap.Error(err))
		return player.VIPOffline
	}
	if online {
		return player.VIPOnline
	}
	return player.VIPOffline
}
