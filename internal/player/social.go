package player

import "slices"

type socialState struct {
	party       Party
	invitations []Party
	guild       Guild
	guildRank   string
	guildNick   string
	guildWars   []uint32

	vip       map[uint32]struct{}
	vipStatus VIPStatus

	skull            Skull
	skullTicks       int64 // ms
	unjustifiedKills []UnjustifiedKill
}

func newSocialState() socialState {
	return socialState{
		vip:       make(map[uint32]struct{}),
		vipStatus: VIPOnline,
	}
}

func (p *Player) Party() Party            { return p.social.party }
func (p *Player) SetParty(party Party)    { p.social.party = party }
func (p *Player) Guild() Guild            { return p.social.guild }
func (p *Player) GuildRank() string       { return p.social.guildRank }
func (p *Player) GuildNick() string       { return p.social.guildNick }
func (p *Player) GuildWars() []uint32     { return p.social.guildWars }
func (p *Player) SetGuildRank(r string)   { p.social.guildRank = r }
func (p *Player) SetGuildNick(n string)   { p.social.guildNick = n }
func (p *Player) SetGuildWars(w []uint32) { p.social.guildWars = w }

// SetGuild moves the player into guild, leaving the previous one.
func (p *Player) SetGuild(guild Guild) {
	if guild == p.social.guild {
		return
	}
	if old := p.social.guild; old != nil {
		old.RemoveMember(p)
	}
	p.social.guild = guild
	p.social.guildNick = ""
	if guild != nil {
		guild.AddMember(p)
	} else {
		p.social.guildRank = ""
	}
}

// IsPartner reports whether other is in the same party.
func (p *Player) IsPartner(other *Player) bool {
	if other == nil || other == p || p.social.party == nil {
		return false
	}
	return p.social.party == other.social.party
}

func (p *Player) IsGuildMate(other *Player) bool {
	if other == nil || p.social.guild == nil {
		return false
	}
	return p.social.guild == other.social.guild
}

func (p *Player) isInWarList(guildID uint32) bool {
	return slices.Contains(p.social.guildWars, guildID)
}

// IsInWar reports whether the guilds of both players are at war with
// each other.
func (p *Player) IsInWar(other *Player) bool {
	if other == nil || p.social.guild == nil || other.social.guild == nil {
		return false
	}
	return p.isInWarList(other.social.guild.ID()) && other.isInWarList(p.social.guild.ID())
}

// IsInviting reports whether this player leads a party that invited other.
func (p *Player) IsInviting(other *Player) bool {
	if other == nil || p.social.party == nil || p.social.party.Leader() != p {
		return false
	}
	return p.social.party.IsInvited(other)
}

// AddPartyInvitation records an invitation and reports whether it is new.
func (p *Player) AddPartyInvitation(party Party) bool {
	if slices.Contains(p.social.invitations, party) {
		return false
	}
	p.social.invitations = append([]Party{party}, p.social.invitations...)
	return true
}

func (p *Player) RemovePartyInvitation(party Party) {
	p.social.invitations = slices.DeleteFunc(p.social.invitations, func(x Party) bool { return x == party })
}

// ClearPartyInvitations withdraws the player from every inviting party.
func (p *Player) ClearPartyInvitations() {
	for _, party := range p.social.invitations {
		party.RemoveInvite(p, false)
	}
	p.social.invitations = nil
}

// PartyShield is the party icon this player sees on other.
func (p *Player) PartyShield(other *Player) PartyShield {
	if other == nil {
		return ShieldNone
	}
	if party := p.social.party; party != nil {
		shared := func(enabled, canUse, blink, none PartyShield) PartyShield {
			switch {
			case !party.SharedExperienceActive():
				return none
			case party.SharedExperienceEnabled():
				return enabled
			case party.CanUseSharedExperience(other):
				return canUse
			}
			return blink
		}
		if party.Leader() == other {
			return shared(ShieldYellowSharedExp, ShieldYellowNoSharedExp, ShieldYellowNoSharedExpBlink, ShieldYellow)
		}
		if other.social.party == party {
			return shared(ShieldBlueSharedExp, ShieldBlueNoSharedExp, ShieldBlueNoSharedExpBlink, ShieldBlue)
		}
		if p.IsInviting(other) {
			return ShieldWhiteBlue
		}
	}
	if other.IsInviting(p) {
		return ShieldWhiteYellow
	}
	if other.social.party != nil {
		return ShieldGray
	}
	return ShieldNone
}

// GuildEmblem is the guild icon this player sees on other.
func (p *Player) GuildEmblem(other *Player) GuildEmblem {
	if other == nil || other.social.guild == nil {
		return EmblemNone
	}
	same := p.social.guild == other.social.guild
	switch {
	case len(other.social.guildWars) == 0 && same:
		return EmblemMember
	case len(other.social.guildWars) == 0:
		return EmblemOther
	case same:
		return EmblemGreen
	case p.IsInWar(other):
		return EmblemRed
	}
	return EmblemBlue
}

// onIdleStatus runs when the in-fight condition ends.
func (p *Player) onIdleStatus() {
	p.combat.damageMap = make(map[uint32]*damageBlock)
	if party := p.social.party; party != nil {
		party.ClearPlayerPoints(p)
	}
}

func (p *Player) SetPremiumDays(days uint16) { p.premiumDays = days }

// SetStamina sets the stamina in minutes, capped at a full bar.
func (p *Player) SetStamina(minutes uint16) { p.stamina = min(minutes, MaxStamina) }
