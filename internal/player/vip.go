package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/l1jgo/playerd/internal/core/event"
)

const (
	vipPremiumEntries = 100
	vipFreeEntries    = 20
	vipHardLimit      = 200
)

var (
	ErrVIPListFull     = errors.New("vip list full")
	ErrVIPAlreadyAdded = errors.New("player already in vip list")
	ErrVIPNotFound     = errors.New("player not in vip list")
)

// MaxVIPEntries is the VIP list size: the group limit when set, else by
// premium status, never above 200.
func (p *Player) MaxVIPEntries() int {
	n := vipFreeEntries
	switch {
	case p.group != nil && p.group.MaxVIPEntries != 0:
		n = int(p.group.MaxVIPEntries)
	case p.IsPremium():
		n = vipPremiumEntries
	}
	return min(n, vipHardLimit)
}

func (p *Player) VIPStatus() VIPStatus { return p.social.vipStatus }

// SetVIPStatus sets the status others see, e.g. pending while invisible.
func (p *Player) SetVIPStatus(s VIPStatus) { p.social.vipStatus = s }

func (p *Player) HasVIP(guid uint32) bool {
	_, ok := p.social.vip[guid]
	return ok
}

func (p *Player) VIPCount() int { return len(p.social.vip) }

func (p *Player) vipFull() bool {
	return len(p.social.vip) >= p.MaxVIPEntries()
}

// addVIPInternal loads a saved entry without persisting it.
func (p *Player) addVIPInternal(guid uint32) bool {
	if p.vipFull() {
		return false
	}
	if _, ok := p.social.vip[guid]; ok {
		return false
	}
	p.social.vip[guid] = struct{}{}
	return true
}

// AddVIP adds guid to the account VIP list and shows it to the client.
func (p *Player) AddVIP(ctx context.Context, guid uint32, name string, status VIPStatus) error {
	if p.vipFull() {
		p.client.SendTextMessage(MessageFailure, "You cannot add more buddies.")
		return ErrVIPListFull
	}
	if p.HasVIP(guid) {
		p.client.SendTextMessage(MessageFailure, "This player is already in your list.")
		return ErrVIPAlreadyAdded
	}
	p.social.vip[guid] = struct{}{}
	if p.env.Store != nil {
		if err := p.env.Store.AddVIPEntry(ctx, p.accountID, VIPEntry{GUID: guid, Name: name}); err != nil {
			return fmt.Errorf("add vip entry: %w", err)
		}
	}
	p.client.SendVIP(guid, name, "", 0, false, status)
	return nil
}

// EditVIP updates the description, icon and notify flag of an entry.
func (p *Player) EditVIP(ctx context.Context, e VIPEntry) error {
	if !p.HasVIP(e.GUID) {
		return ErrVIPNotFound
	}
	if p.env.Store == nil {
		return nil
	}
	if err := p.env.Store.EditVIPEntry(ctx, p.accountID, e); err != nil {
		return fmt.Errorf("edit vip entry: %w", err)
	}
	return nil
}

func (p *Player) RemoveVIP(ctx context.Context, guid uint32) error {
	if !p.HasVIP(guid) {
		return ErrVIPNotFound
	}
	delete(p.social.vip, guid)
	if p.env.Store == nil {
		return nil
	}
	if err := p.env.Store.RemoveVIPEntry(ctx, p.accountID, guid); err != nil {
		return fmt.Errorf("remove vip entry: %w", err)
	}
	return nil
}

// NotifyStatusChange tells this player's client that other changed
// status, when other is on the VIP list.
func (p *Player) NotifyStatusChange(other *Player, status VIPStatus, message bool) {
	p.NotifyVIPStatus(other.guid, other.name, status, message)
}

// NotifyVIPStatus is NotifyStatusChange for a player known only by guid
// and name, such as one online on another server.
func (p *Player) NotifyVIPStatus(guid uint32, name string, status VIPStatus, message bool) {
	if !p.IsOnline() || !p.HasVIP(guid) {
		return
	}
	p.client.SendUpdatedVIPStatus(guid, status)
	if !message {
		return
	}
	switch status {
	case VIPOnline:
		p.client.SendTextMessage(MessageFailure, name+" has logged in.")
	case VIPOffline:
		p.client.SendTextMessage(MessageFailure, name+" has logged out.")
	}
}

// addList announces the login to every online player and registers the
// player with the world.
func (p *Player) addList() {
	p.broadcastVIPStatus(p.social.vipStatus)
	if p.env.Game != nil {
		p.env.Game.AddPlayer(p)
	}
}

func (p *Player) removeList() {
	if p.env.Game != nil {
		p.env.Game.RemovePlayer(p)
	}
	p.broadcastVIPStatus(VIPOffline)
}

func (p *Player) broadcastVIPStatus(status VIPStatus) {
	if p.env.Game != nil {
		for _, other := range p.env.Game.Players() {
			if other != p {
				other.NotifyStatusChange(p, status, true)
			}
		}
	}
	event.Emit(p.env.Bus, event.VIPStatusChanged{
		PlayerID: p.guid,
		Name:     p.name,
		Online:   status != VIPOffline,
	})
}
