package player

import (
	"slices"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/geo"
)

// SendModalWindow opens a dialog on the client and remembers its id until
// it is answered or the player moves.
func (p *Player) SendModalWindow(w ModalWindow) {
	if !slices.Contains(p.modalWindows, w.ID) {
		p.modalWindows = append(p.modalWindows, w.ID)
	}
	p.client.SendModalWindow(w)
}

func (p *Player) HasModalWindowOpen(id uint32) bool {
	return slices.Contains(p.modalWindows, id)
}

// OnModalWindowHandled forgets a dialog the client answered.
func (p *Player) OnModalWindowHandled(id uint32) {
	p.modalWindows = slices.DeleteFunc(p.modalWindows, func(x uint32) bool { return x == id })
}

// OnCreatureMove runs after c moved from oldPos to newPos. Only the
// player's own moves matter: trades out of reach close, open dialogs are
// dropped, floor changes and teleports pacify for the stairhop delay and
// the zone is re-evaluated.
func (p *Player) OnCreatureMove(c Creature, newPos, oldPos geo.Position, teleport bool) {
	if c == nil || c.AsPlayer() != p {
		if partner := p.tradePartner; partner != nil && c != nil && c.AsPlayer() == partner {
			p.checkTradeRange()
		}
		return
	}

	if party := p.social.party; party != nil {
		party.UpdateSharedExperience()
		party.UpdatePlayerStatus(p)
	}

	if teleport || oldPos.Z != newPos.Z {
		if ticks := p.env.Cfg.Game.StairhopDelay; ticks > 0 {
			p.AddCondition(condition.New(condition.Pacified, condition.IDDefault, int32(ticks), 0))
		}
	}

	p.checkTradeRange()

	if len(p.modalWindows) > 0 {
		if slices.Contains(p.modalWindows, OfflineTrainingWindowID) {
			p.client.SendTextMessage(MessageEvent, "Offline training aborted.")
		}
		p.modalWindows = nil
	}

	if zone := ZoneOf(p.tile()); zone != p.zone {
		p.OnChangeZone(zone)
	}
}

// checkTradeRange closes the trade when the offered item drifted beyond
// one square or the partner beyond two.
func (p *Player) checkTradeRange() {
	if p.tradeState == TradeNone || p.tradeState == TradeTransfer || p.env.Game == nil {
		return
	}
	if p.tradeItem != 0 {
		if pos, ok := p.itemPosition(p.tradeItem); !ok || !inRange1(pos, p.pos) {
			p.env.Game.InternalCloseTrade(p)
			return
		}
	}
	if partner := p.tradePartner; partner != nil && !geo.InRange(partner.pos, p.pos, 2) {
		p.env.Game.InternalCloseTrade(p)
	}
}

// CanWalkthroughEx is the stateless walkthrough check clients are told
// about; CanWalkthrough additionally needs a repeated step.
func (p *Player) CanWalkthroughEx(c Creature) bool {
	return p.walkthroughAllowed(c)
}
