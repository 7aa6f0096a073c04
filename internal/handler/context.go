package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/world"
)

// PlayerLoader reads characters and their guild membership for the login
// and VIP paths. *persist.Store implements it.
type PlayerLoader interface {
	LoadPlayer(ctx context.Context, name string) (*player.Snapshot, []player.VIPEntry, error)
	GUIDByName(ctx context.Context, name string) (uint32, string, error)
	MembershipOf(ctx context.Context, guid uint32) (*persist.Membership, error)
}

// Presence is the cross-server online registry. *presence.Store
// implements it.
type Presence interface {
	SetOnline(ctx context.Context, guid uint32, name string) error
	IsOnline(ctx context.Context, guid uint32) (bool, error)
}

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	World    *world.State
	Env      *player.Env
	Players  PlayerLoader
	Presence Presence // nil when presence is disabled
}

// ctx bounds the storage calls a handler makes on the game loop.
func (d *Deps) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d.Config.Database.SaveTimeout)
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.CVersion,
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleVersion(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CEnterWorld,
		[]packet.SessionState{packet.StateVersionOK},
		func(sess any, r *packet.Reader) {
			HandleEnterWorld(sess.(*net.Session), r, deps)
		},
	)

	inWorld := []packet.SessionState{packet.StateInWorld}
	for op, fn := range map[byte]func(*net.Session, *packet.Reader, *Deps){
		packet.CLogout:          HandleLogout,
		packet.CPong:            HandlePong,
		packet.CMove:            HandleMove,
		packet.CAttack:          HandleAttack,
		packet.CFollow:          HandleFollow,
		packet.CCancelTarget:    HandleCancelTarget,
		packet.CFightModes:      HandleFightModes,
		packet.CEquip:           HandleEquip,
		packet.CUnequip:         HandleUnequip,
		packet.CSetOutfit:       HandleSetOutfit,
		packet.CToggleMount:     HandleToggleMount,
		packet.CVIPAdd:          HandleVIPAdd,
		packet.CVIPRemove:       HandleVIPRemove,
		packet.CVIPEdit:         HandleVIPEdit,
		packet.CPartyInvite:     HandlePartyInvite,
		packet.CPartyJoin:       HandlePartyJoin,
		packet.CPartyRevoke:     HandlePartyRevoke,
		packet.CPartyPassLeader: HandlePartyPassLeader,
		packet.CPartyLeave:      HandlePartyLeave,
		packet.CPartyShareExp:   HandlePartyShareExp,
		packet.CModalAnswer:     HandleModalAnswer,
	} {
		reg.Register(op, inWorld, func(sess any, r *packet.Reader) {
			s := sess.(*net.Session)
			if s.Player == nil {
				return
			}
			fn(s, r, deps)
		})
	}
}
