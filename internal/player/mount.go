package player

import (
	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

const (
	mountToggleWindow = 3000 // ms
	mountsPerBucket   = 31
)

// mountKey locates the storage bucket and bit of a mount id.
func mountKey(id uint8) (key uint32, bit int32) {
	n := uint32(id) - 1
	return StorageMountsStart + n/mountsPerBucket, 1 << (n % mountsPerBucket)
}

func (p *Player) CurrentMount() uint8 {
	if v, ok := p.StorageValue(StorageCurrentMount); ok {
		return uint8(v)
	}
	return 0
}

func (p *Player) SetCurrentMount(id uint8) { p.AddStorageValue(StorageCurrentMount, int32(id)) }

func (p *Player) IsMounted() bool { return p.defaultOutfit.LookMount != 0 }

// HasMount reports ownership of m. Access players own every mount.
func (p *Player) HasMount(m *data.Mount) bool {
	if m == nil {
		return false
	}
	if p.IsAccessPlayer() {
		return true
	}
	if m.Premium && !p.IsPremium() {
		return false
	}
	key, bit := mountKey(m.ID)
	v, ok := p.StorageValue(key)
	return ok && v&bit != 0
}

// TameMount grants the mount with id.
func (p *Player) TameMount(id uint8) bool {
	if id == 0 || p.env.Tables.Mounts.Get(id) == nil {
		return false
	}
	key, bit := mountKey(id)
	v, ok := p.StorageValue(key)
	if !ok {
		v = 0
	}
	p.AddStorageValue(key, v|bit)
	return true
}

// UntameMount takes the mount with id away, dismounting if it is ridden.
func (p *Player) UntameMount(id uint8) bool {
	if id == 0 || p.env.Tables.Mounts.Get(id) == nil {
		return false
	}
	key, bit := mountKey(id)
	v, ok := p.StorageValue(key)
	if !ok {
		return true
	}
	p.AddStorageValue(key, v&^bit)

	if p.CurrentMount() == id {
		if p.IsMounted() {
			p.Dismount()
			if p.env.Game != nil {
				p.env.Game.InternalCreatureChangeOutfit(p, p.defaultOutfit)
			}
		}
		p.SetCurrentMount(0)
	}
	return true
}

// ToggleMount mounts or dismounts the current mount.
func (p *Player) ToggleMount(mount bool) bool {
	now := p.env.now()
	if now-p.lastToggleMount < mountToggleWindow && !p.wasMounted {
		p.client.SendCancelMessage(item.RetYouAreExhausted)
		return false
	}

	if mount {
		if p.IsMounted() {
			return false
		}
		if t := p.tile(); !p.IsAccessPlayer() && t != nil && t.HasFlag(TileProtectionZone) {
			p.client.SendCancelMessage(item.RetActionNotPermittedInPZ)
			return false
		}
		if p.env.Tables.Outfits.Get(p.sex, p.defaultOutfit.LookType) == nil {
			return false
		}
		id := p.CurrentMount()
		if id == 0 {
			p.client.SendOutfitWindow()
			return false
		}
		m := p.env.Tables.Mounts.Get(id)
		if m == nil {
			return false
		}
		if !p.HasMount(m) {
			p.SetCurrentMount(0)
			p.client.SendOutfitWindow()
			return false
		}
		if m.Premium && !p.IsPremium() {
			p.client.SendCancelMessage(item.RetYouNeedPremium)
			return false
		}
		if p.HasCondition(condition.Outfit) {
			p.client.SendCancelMessage(item.RetNotPossible)
			return false
		}
		p.defaultOutfit.LookMount = m.ClientID
		if m.Speed != 0 && p.env.Game != nil {
			p.env.Game.ChangeSpeed(p, m.Speed)
		}
	} else {
		if !p.IsMounted() {
			return false
		}
		p.Dismount()
	}

	if p.env.Game != nil {
		p.env.Game.InternalCreatureChangeOutfit(p, p.defaultOutfit)
	}
	p.lastToggleMount = now
	return true
}

// Dismount clears the mount from the default outfit and takes its speed
// back. The outfit change is left to the caller.
func (p *Player) Dismount() {
	if m := p.env.Tables.Mounts.Get(p.CurrentMount()); m != nil && m.Speed > 0 && p.env.Game != nil {
		p.env.Game.ChangeSpeed(p, -m.Speed)
	}
	p.defaultOutfit.LookMount = 0
}
