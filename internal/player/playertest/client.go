package playertest

import (
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// Message is one text message the player was sent.
type Message struct {
	Class player.MessageClass
	Text  string
}

// VIPUpdate is one SendUpdatedVIPStatus call.
type VIPUpdate struct {
	GUID   uint32
	Status player.VIPStatus
}

// Client records what the player sends to its connection.
type Client struct {
	player.NopClient

	Messages   []Message
	Cancels    []item.ReturnValue
	Icons      []uint32
	Stats      int
	Skills     int
	Pings      int
	Inventory  map[player.Slot]item.ID
	Closed     []uint8
	Opened     []uint8
	VIPUpdates []VIPUpdate
	ReLogins   []uint8
	Cooldowns  map[uint16]uint32
	Logouts    int
	Unjust     []player.UnjustifiedPoints
	Modal      []player.ModalWindow
	Tracker    [][2]int64
	Visible    bool
}

func (c *Client) SendStats()  { c.Stats++ }
func (c *Client) SendSkills() { c.Skills++ }
func (c *Client) SendPing()   { c.Pings++ }

func (c *Client) SendIcons(icons uint32) { c.Icons = append(c.Icons, icons) }

func (c *Client) SendTextMessage(class player.MessageClass, text string) {
	c.Messages = append(c.Messages, Message{Class: class, Text: text})
}

func (c *Client) SendCancelMessage(rv item.ReturnValue) { c.Cancels = append(c.Cancels, rv) }

func (c *Client) SendInventoryItem(slot player.Slot, it item.ID) {
	if c.Inventory == nil {
		c.Inventory = make(map[player.Slot]item.ID)
	}
	c.Inventory[slot] = it
}

func (c *Client) SendContainer(cid uint8, _ item.ID, _ bool, _ uint16) {
	c.Opened = append(c.Opened, cid)
}

func (c *Client) SendCloseContainer(cid uint8) { c.Closed = append(c.Closed, cid) }

func (c *Client) SendUpdatedVIPStatus(guid uint32, status player.VIPStatus) {
	c.VIPUpdates = append(c.VIPUpdates, VIPUpdate{GUID: guid, Status: status})
}

func (c *Client) SendReLoginWindow(reduction uint8) { c.ReLogins = append(c.ReLogins, reduction) }

func (c *Client) SendSpellCooldown(spellID uint16, ms uint32) {
	if c.Cooldowns == nil {
		c.Cooldowns = make(map[uint16]uint32)
	}
	c.Cooldowns[spellID] = ms
}

func (c *Client) SendUnjustifiedPoints(p player.UnjustifiedPoints) { c.Unjust = append(c.Unjust, p) }

func (c *Client) SendModalWindow(w player.ModalWindow) { c.Modal = append(c.Modal, w) }

func (c *Client) SendExperienceTracker(raw, final int64) {
	c.Tracker = append(c.Tracker, [2]int64{raw, final})
}

func (c *Client) Logout(bool, bool) { c.Logouts++ }

func (c *Client) CanSee(geo.Position) bool { return c.Visible }

// Texts returns the text of every message of class.
func (c *Client) Texts(class player.MessageClass) []string {
	var out []string
	for _, m := range c.Messages {
		if m.Class == class {
			out = append(out, m.Text)
		}
	}
	return out
}

// LastIcons is the icon mask of the latest SendIcons call.
func (c *Client) LastIcons() uint32 {
	if len(c.Icons) == 0 {
		return 0
	}
	return c.Icons[len(c.Icons)-1]
}
