package player

import "slices"

// OutfitEntry is an owned outfit with its unlocked addons.
type OutfitEntry struct {
	LookType uint16
	Addons   uint8
}

// Outfit is the look of a creature as drawn by the client.
type Outfit struct {
	LookType   uint16
	LookHead   uint8
	LookBody   uint8
	LookLegs   uint8
	LookFeet   uint8
	LookAddons uint8
	LookMount  uint16
}

func (p *Player) DefaultOutfit() Outfit     { return p.defaultOutfit }
func (p *Player) Outfits() []OutfitEntry    { return p.outfits }
func (p *Player) Familiars() []uint16       { return p.familiars }
func (p *Player) SetDefaultOutfit(o Outfit) { p.defaultOutfit = o }

// CanWear reports whether the player may wear lookType with addons.
func (p *Player) CanWear(lookType uint16, addons uint8) bool {
	if p.IsAccessPlayer() {
		return true
	}
	o := p.env.Tables.Outfits.Get(p.sex, lookType)
	if o == nil || (o.Premium && !p.IsPremium()) {
		return false
	}
	if o.Unlocked && addons == 0 {
		return true
	}
	for _, e := range p.outfits {
		if e.LookType == lookType {
			return e.Addons&addons == addons
		}
	}
	return false
}

// OutfitAddons returns the addons the player may wear with o.
func (p *Player) OutfitAddons(lookType uint16) (uint8, bool) {
	if p.IsAccessPlayer() {
		return 3, true
	}
	o := p.env.Tables.Outfits.Get(p.sex, lookType)
	if o == nil || (o.Premium && !p.IsPremium()) {
		return 0, false
	}
	for _, e := range p.outfits {
		if e.LookType == lookType {
			return e.Addons, true
		}
	}
	if o.Unlocked {
		return 0, true
	}
	return 0, false
}

// AddOutfit grants lookType, merging addons into an owned entry.
func (p *Player) AddOutfit(lookType uint16, addons uint8) {
	for i := range p.outfits {
		if p.outfits[i].LookType == lookType {
			p.outfits[i].Addons |= addons
			return
		}
	}
	p.outfits = append(p.outfits, OutfitEntry{LookType: lookType, Addons: addons})
}

func (p *Player) RemoveOutfit(lookType uint16) bool {
	i := slices.IndexFunc(p.outfits, func(e OutfitEntry) bool { return e.LookType == lookType })
	if i < 0 {
		return false
	}
	p.outfits = slices.Delete(p.outfits, i, i+1)
	return true
}

func (p *Player) RemoveOutfitAddon(lookType uint16, addons uint8) bool {
	for i := range p.outfits {
		if p.outfits[i].LookType == lookType {
			p.outfits[i].Addons &^= addons
			return true
		}
	}
	return false
}

func (p *Player) AddFamiliar(lookType uint16) {
	if !slices.Contains(p.familiars, lookType) {
		p.familiars = append(p.familiars, lookType)
	}
}

func (p *Player) RemoveFamiliar(lookType uint16) bool {
	n := len(p.familiars)
	p.familiars = slices.DeleteFunc(p.familiars, func(f uint16) bool { return f == lookType })
	return len(p.familiars) != n
}
