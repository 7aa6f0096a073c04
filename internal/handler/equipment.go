package handler

import (
	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
)

// HandleEquip processes CEquip: [D item id][C slot].
func HandleEquip(sess *net.Session, r *packet.Reader, deps *Deps) {
	id := item.ID(r.ReadD())
	slot := player.Slot(r.ReadC())
	if rv := deps.World.Equip(sess.Player, id, slot); rv != item.RetNoError {
		sess.SendCancelMessage(rv)
	}
}

// HandleUnequip processes CUnequip: [C slot].
func HandleUnequip(sess *net.Session, r *packet.Reader, deps *Deps) {
	slot := player.Slot(r.ReadC())
	if rv := deps.World.Unequip(sess.Player, slot); rv != item.RetNoError {
		sess.SendCancelMessage(rv)
	}
}

// HandleSetOutfit processes CSetOutfit: [H look type][C head][C body]
// [C legs][C feet][C addons]. The mount is kept. While an outfit
// condition disguises the player only the stored outfit changes.
func HandleSetOutfit(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := sess.Player
	o := player.Outfit{
		LookType:   r.ReadH(),
		LookHead:   r.ReadC(),
		LookBody:   r.ReadC(),
		LookLegs:   r.ReadC(),
		LookFeet:   r.ReadC(),
		LookAddons: r.ReadC(),
	}
	if !p.CanWear(o.LookType, o.LookAddons) {
		sess.SendCancelMessage(item.RetNotPossible)
		return
	}
	o.LookMount = p.DefaultOutfit().LookMount
	p.SetDefaultOutfit(o)
	if p.HasCondition(condition.Outfit) {
		return
	}
	deps.World.InternalCreatureChangeOutfit(p, o)
}

// HandleToggleMount processes CToggleMount: [C mount].
func HandleToggleMount(sess *net.Session, r *packet.Reader, _ *Deps) {
	sess.Player.ToggleMount(r.ReadBool())
}
