package net

import (
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/world"
)

var (
	_ player.Client     = (*Session)(nil)
	_ world.Viewer      = (*Session)(nil)
	_ world.PartyViewer = (*Session)(nil)
)

// Client viewport around the player, in squares.
const (
	viewLeft   = 8
	viewRight  = 9
	viewTop    = 6
	viewBottom = 7
)

const logoutBlockedMessage = "You may not logout during or immediately after a fight!"

func (s *Session) send(w *packet.Writer) { s.Send(w.Bytes()) }

func (s *Session) IP() string { return s.ip }

// CanSee reports whether pos is inside the client's viewport. Above ground
// the client draws every surface floor; underground it draws two floors up
// and down.
func (s *Session) CanSee(pos geo.Position) bool {
	if s.Player == nil {
		return false
	}
	my := s.Player.Position()
	if my.Z <= 7 {
		if pos.Z > 7 {
			return false
		}
	} else if absInt(int(my.Z)-int(pos.Z)) > 2 {
		return false
	}
	dz := int(my.Z) - int(pos.Z)
	x, y := int(pos.X), int(pos.Y)
	return x >= int(my.X)-viewLeft+dz && x <= int(my.X)+viewRight+dz &&
		y >= int(my.Y)-viewTop+dz && y <= int(my.Y)+viewBottom+dz
}

// Logout leaves the world. Unforced logouts are refused while the player
// may not log out.
func (s *Session) Logout(displayEffect, forced bool) {
	p := s.Player
	if p == nil {
		s.CloseAfterFlush()
		return
	}
	if !forced && !p.CanLogout() {
		s.SendTextMessage(player.MessageStatus, logoutBlockedMessage)
		return
	}
	if s.game != nil {
		if displayEffect && p.Health() > 0 {
			s.game.AddMagicEffect(p.Position(), player.EffectPoff)
		}
		s.game.RemoveCreature(p, true)
	}
	s.send(packet.NewWriterWithOpcode(packet.SLogout))
	s.CloseAfterFlush()
}

func (s *Session) WriteToOutputBuffer(msg []byte) {
	s.Send(append([]byte(nil), msg...))
}

func (s *Session) SendPing() { s.send(packet.NewWriterWithOpcode(packet.SPing)) }

func (s *Session) SendStats() {
	p := s.Player
	if p == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.SStats)
	w.WriteD(uint32(max(p.Health(), 0)))
	w.WriteD(uint32(max(p.MaxHealth(), 0)))
	w.WriteD(uint32(max(p.Mana(), 0)))
	w.WriteD(uint32(max(p.MaxMana(), 0)))
	w.WriteD(p.Level())
	w.WriteQ(p.Experience())
	w.WriteC(uint8(p.LevelPercent()))
	w.WriteC(p.Soul())
	w.WriteD(p.FreeCapacity())
	w.WriteH(p.Stamina())
	w.WriteH(uint16(min(p.Speed(), 0xFFFF)))
	s.send(w)
}

func (s *Session) SendSkills() {
	p := s.Player
	if p == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.SSkills)
	w.WriteH(uint16(min(p.MagicLevel(), 0xFFFF)))
	w.WriteH(uint16(min(p.MagicLevelBase(), 0xFFFF)))
	w.WriteC(uint8(p.MagicLevelPercent()))
	for sk := data.Skill(0); sk < data.SkillCount; sk++ {
		st := p.Skill(sk)
		w.WriteH(p.SkillLevel(sk))
		w.WriteH(st.Level)
		w.WriteC(uint8(st.Percent))
	}
	s.send(w)
}

func (s *Session) SendIcons(icons uint32) {
	w := packet.NewWriterWithOpcode(packet.SIcons)
	w.WriteD(icons)
	s.send(w)
}

func (s *Session) SendTextMessage(class player.MessageClass, text string) {
	w := packet.NewWriterWithOpcode(packet.STextMessage)
	w.WriteC(uint8(class))
	w.WriteS(text)
	s.send(w)
}

func (s *Session) SendCancelMessage(rv item.ReturnValue) {
	w := packet.NewWriterWithOpcode(packet.SCancel)
	w.WriteC(uint8(rv))
	w.WriteS(rv.Message())
	s.send(w)
}

func (s *Session) SendCancelTarget() { s.send(packet.NewWriterWithOpcode(packet.SCancelTarget)) }

// writeItem encodes an item reference: id, type and stack size. Unknown
// ids are sent as empty.
func (s *Session) writeItem(w *packet.Writer, id item.ID) {
	var it *item.Item
	if s.items != nil && id != 0 {
		it = s.items.Get(id)
	}
	if it == nil {
		w.WriteD(0)
		w.WriteH(0)
		w.WriteH(0)
		return
	}
	w.WriteD(uint32(id))
	w.WriteH(it.TypeID())
	w.WriteH(it.StackCount())
}

func (s *Session) SendContainer(cid uint8, container item.ID, hasParent bool, firstIndex uint16) {
	w := packet.NewWriterWithOpcode(packet.SContainer)
	w.WriteC(cid)
	s.writeItem(w, container)
	w.WriteBool(hasParent)
	w.WriteH(firstIndex)
	var children []item.ID
	if s.items != nil {
		if c := s.items.Get(container); c != nil {
			children = c.Children()
		}
	}
	if int(firstIndex) < len(children) {
		children = children[firstIndex:]
	} else {
		children = nil
	}
	w.WriteH(uint16(len(children)))
	for _, child := range children {
		s.writeItem(w, child)
	}
	s.send(w)
}

func (s *Session) sendContainerItem(op byte, cid uint8, slot uint16, id item.ID) {
	w := packet.NewWriterWithOpcode(op)
	w.WriteC(cid)
	w.WriteH(slot)
	s.writeItem(w, id)
	s.send(w)
}

func (s *Session) SendAddContainerItem(cid uint8, slot uint16, it item.ID) {
	s.sendContainerItem(packet.SContainerAdd, cid, slot, it)
}

func (s *Session) SendUpdateContainerItem(cid uint8, slot uint16, it item.ID) {
	s.sendContainerItem(packet.SContainerUpdate, cid, slot, it)
}

// SendRemoveContainerItem removes slot; last is the item that scrolls into
// the visible page, if any.
func (s *Session) SendRemoveContainerItem(cid uint8, slot uint16, last item.ID) {
	s.sendContainerItem(packet.SContainerRemove, cid, slot, last)
}

func (s *Session) SendCloseContainer(cid uint8) {
	w := packet.NewWriterWithOpcode(packet.SCloseContainer)
	w.WriteC(cid)
	s.send(w)
}

func (s *Session) SendInventoryItem(slot player.Slot, it item.ID) {
	w := packet.NewWriterWithOpcode(packet.SInventoryItem)
	w.WriteC(uint8(slot))
	s.writeItem(w, it)
	s.send(w)
}

func (s *Session) SendCreatureSkull(c player.Creature) {
	if s.Player == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.SCreatureSkull)
	w.WriteD(c.CreatureID())
	w.WriteC(uint8(s.Player.SkullClient(c)))
	s.send(w)
}

func (s *Session) SendCreatureSquare(c player.Creature, color player.SquareColor) {
	w := packet.NewWriterWithOpcode(packet.SCreatureSquare)
	w.WriteD(c.CreatureID())
	w.WriteC(uint8(color))
	s.send(w)
}

func (s *Session) sendWindow(kind uint8, id uint32, text string) {
	w := packet.NewWriterWithOpcode(packet.SWindow)
	w.WriteC(kind)
	w.WriteD(id)
	w.WriteS(text)
	s.send(w)
}

func (s *Session) SendHouseWindow(windowTextID uint32, text string) {
	w := packet.NewWriterWithOpcode(packet.SHouseWindow)
	w.WriteD(windowTextID)
	w.WriteS(text)
	s.send(w)
}

func (s *Session) SendImbuementWindow(it item.ID) {
	s.sendWindow(packet.WindowImbuement, uint32(it), "")
}
func (s *Session) SendMarketEnter(depotID uint32) { s.sendWindow(packet.WindowMarket, depotID, "") }
func (s *Session) SendShop(npcID uint32)          { s.sendWindow(packet.WindowShop, npcID, "") }
func (s *Session) SendSaleItemList()              { s.sendWindow(packet.WindowSaleList, 0, "") }
func (s *Session) SendCloseShop()                 { s.sendWindow(packet.WindowCloseShop, 0, "") }
func (s *Session) SendOpenStash()                 { s.sendWindow(packet.WindowStash, 0, "") }

func (s *Session) SendRestingStatus(resting bool) {
	w := packet.NewWriterWithOpcode(packet.SRestingStatus)
	w.WriteBool(resting)
	s.send(w)
}

func (s *Session) SendUnjustifiedPoints(u player.UnjustifiedPoints) {
	w := packet.NewWriterWithOpcode(packet.SUnjustifiedPoints)
	w.WriteC(u.DayProgress)
	w.WriteC(u.DayRemaining)
	w.WriteC(u.WeekProgress)
	w.WriteC(u.WeekRemaining)
	w.WriteC(u.MonthProgress)
	w.WriteC(u.MonthRemaining)
	w.WriteC(u.SkullDuration)
	s.send(w)
}

func (s *Session) SendModalWindow(m player.ModalWindow) {
	w := packet.NewWriterWithOpcode(packet.SModalWindow)
	w.WriteD(m.ID)
	w.WriteS(m.Title)
	w.WriteS(m.Message)
	w.WriteC(uint8(min(len(m.Buttons), 0xFF)))
	for i, b := range m.Buttons {
		if i == 0xFF {
			break
		}
		w.WriteS(b)
	}
	s.send(w)
}

func (s *Session) SendVIP(guid uint32, name, description string, icon uint32, notify bool, status player.VIPStatus) {
	w := packet.NewWriterWithOpcode(packet.SVIP)
	w.WriteD(guid)
	w.WriteS(name)
	w.WriteS(description)
	w.WriteD(icon)
	w.WriteBool(notify)
	w.WriteC(uint8(status))
	s.send(w)
}

func (s *Session) SendUpdatedVIPStatus(guid uint32, status player.VIPStatus) {
	w := packet.NewWriterWithOpcode(packet.SVIPStatus)
	w.WriteD(guid)
	w.WriteC(uint8(status))
	s.send(w)
}

func (s *Session) SendClosePrivate(channelID uint16) {
	w := packet.NewWriterWithOpcode(packet.SClosePrivate)
	w.WriteH(channelID)
	s.send(w)
}

func (s *Session) SendReLoginWindow(unfairFightReduction uint8) {
	w := packet.NewWriterWithOpcode(packet.SReLoginWindow)
	w.WriteC(unfairFightReduction)
	s.send(w)
}

func (s *Session) SendBlessStatus()  { s.send(packet.NewWriterWithOpcode(packet.SBlessStatus)) }
func (s *Session) SendOutfitWindow() { s.send(packet.NewWriterWithOpcode(packet.SOutfitWindow)) }

func (s *Session) SendSpellCooldown(spellID uint16, ms uint32) {
	w := packet.NewWriterWithOpcode(packet.SSpellCooldown)
	w.WriteH(spellID)
	w.WriteD(ms)
	s.send(w)
}

func (s *Session) SendSpellGroupCooldown(group uint8, ms uint32) {
	w := packet.NewWriterWithOpcode(packet.SSpellGroupCooldown)
	w.WriteC(group)
	w.WriteD(ms)
	s.send(w)
}

func (s *Session) SendExperienceTracker(raw, final int64) {
	w := packet.NewWriterWithOpcode(packet.SExperienceTracker)
	w.WriteQ(uint64(raw))
	w.WriteQ(uint64(final))
	s.send(w)
}

// --- world view ---

func healthPercent(c player.Creature) uint8 {
	if c.MaxHealth() <= 0 {
		return 0
	}
	return uint8(max(int64(c.Health()), 0) * 100 / int64(c.MaxHealth()))
}

func (s *Session) SendAddCreature(c player.Creature, pos geo.Position) {
	w := packet.NewWriterWithOpcode(packet.SAddCreature)
	w.WriteD(c.CreatureID())
	w.WriteC(uint8(c.Kind()))
	w.WriteS(c.Name())
	w.WritePosition(pos)
	w.WriteC(healthPercent(c))
	var skull, shield, emblem uint8
	if other := c.AsPlayer(); other != nil && s.Player != nil {
		skull = uint8(s.Player.SkullClient(c))
		shield = uint8(s.Player.PartyShield(other))
		emblem = uint8(s.Player.GuildEmblem(other))
		writeOutfit(w, other.DefaultOutfit())
		w.WriteH(uint16(min(other.Speed(), 0xFFFF)))
	} else {
		writeOutfit(w, player.Outfit{})
		w.WriteH(0)
	}
	w.WriteC(skull)
	w.WriteC(shield)
	w.WriteC(emblem)
	s.send(w)
}

func writeOutfit(w *packet.Writer, o player.Outfit) {
	w.WriteH(o.LookType)
	w.WriteC(o.LookHead)
	w.WriteC(o.LookBody)
	w.WriteC(o.LookLegs)
	w.WriteC(o.LookFeet)
	w.WriteC(o.LookAddons)
	w.WriteH(o.LookMount)
}

func (s *Session) SendRemoveCreature(c player.Creature, pos geo.Position) {
	w := packet.NewWriterWithOpcode(packet.SRemoveCreature)
	w.WriteD(c.CreatureID())
	w.WritePosition(pos)
	s.send(w)
}

func (s *Session) SendMoveCreature(c player.Creature, from, to geo.Position, teleport bool) {
	w := packet.NewWriterWithOpcode(packet.SMoveCreature)
	w.WriteD(c.CreatureID())
	w.WritePosition(from)
	w.WritePosition(to)
	w.WriteBool(teleport)
	s.send(w)
}

func (s *Session) SendMagicEffect(pos geo.Position, effect player.MagicEffect) {
	w := packet.NewWriterWithOpcode(packet.SMagicEffect)
	w.WritePosition(pos)
	w.WriteH(uint16(effect))
	s.send(w)
}

func (s *Session) SendSoundEffect(pos geo.Position, sound player.SoundEffect) {
	w := packet.NewWriterWithOpcode(packet.SSoundEffect)
	w.WritePosition(pos)
	w.WriteH(uint16(sound))
	s.send(w)
}

func (s *Session) SendCreatureHealth(c player.Creature) {
	w := packet.NewWriterWithOpcode(packet.SCreatureHealth)
	w.WriteD(c.CreatureID())
	w.WriteC(healthPercent(c))
	s.send(w)
}

func (s *Session) SendCreatureSpeed(c player.Creature, speed uint32) {
	w := packet.NewWriterWithOpcode(packet.SCreatureSpeed)
	w.WriteD(c.CreatureID())
	w.WriteH(uint16(min(speed, 0xFFFF)))
	s.send(w)
}

func (s *Session) SendCreatureOutfit(c player.Creature, o player.Outfit) {
	w := packet.NewWriterWithOpcode(packet.SCreatureOutfit)
	w.WriteD(c.CreatureID())
	writeOutfit(w, o)
	s.send(w)
}

func (s *Session) SendCreatureLight(c player.Creature, l player.Light) {
	w := packet.NewWriterWithOpcode(packet.SCreatureLight)
	w.WriteD(c.CreatureID())
	w.WriteC(l.Level)
	w.WriteC(l.Color)
	s.send(w)
}

func (s *Session) SendCreatureWalkthrough(c player.Creature, walkthrough bool) {
	w := packet.NewWriterWithOpcode(packet.SCreatureWalkthrough)
	w.WriteD(c.CreatureID())
	w.WriteBool(walkthrough)
	s.send(w)
}

func (s *Session) SendCloseTrade() { s.send(packet.NewWriterWithOpcode(packet.SCloseTrade)) }

func (s *Session) SendPartyMemberStatus(member *player.Player) {
	w := packet.NewWriterWithOpcode(packet.SPartyMemberStatus)
	w.WriteD(member.CreatureID())
	w.WriteC(healthPercent(member))
	var manaPct uint8
	if member.MaxMana() > 0 {
		manaPct = uint8(int64(max(member.Mana(), 0)) * 100 / int64(member.MaxMana()))
	}
	w.WriteC(manaPct)
	s.send(w)
}

func (s *Session) SendCreatureShield(c *player.Player) {
	if s.Player == nil {
		return
	}
	w := packet.NewWriterWithOpcode(packet.SCreatureShield)
	w.WriteD(c.CreatureID())
	w.WriteC(uint8(s.Player.PartyShield(c)))
	s.send(w)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
