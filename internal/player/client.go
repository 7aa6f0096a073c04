package player

import (
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
)

// NopClient is bound while a player has no connection, for example while it
// is loaded for an offline save.
type NopClient struct{}

func (NopClient) SendStats()                                              {}
func (NopClient) SendSkills()                                             {}
func (NopClient) SendIcons(uint32)                                        {}
func (NopClient) SendTextMessage(MessageClass, string)                    {}
func (NopClient) SendCancelMessage(item.ReturnValue)                      {}
func (NopClient) SendCancelTarget()                                       {}
func (NopClient) SendContainer(uint8, item.ID, bool, uint16)              {}
func (NopClient) SendAddContainerItem(uint8, uint16, item.ID)             {}
func (NopClient) SendUpdateContainerItem(uint8, uint16, item.ID)          {}
func (NopClient) SendRemoveContainerItem(uint8, uint16, item.ID)          {}
func (NopClient) SendCloseContainer(uint8)                                {}
func (NopClient) SendInventoryItem(Slot, item.ID)                         {}
func (NopClient) SendCreatureSkull(Creature)                              {}
func (NopClient) SendCreatureSquare(Creature, SquareColor)                {}
func (NopClient) SendPing()                                               {}
func (NopClient) SendHouseWindow(uint32, string)                          {}
func (NopClient) SendImbuementWindow(item.ID)                             {}
func (NopClient) SendMarketEnter(uint32)                                  {}
func (NopClient) SendShop(uint32)                                         {}
func (NopClient) SendSaleItemList()                                       {}
func (NopClient) SendCloseShop()                                          {}
func (NopClient) SendRestingStatus(bool)                                  {}
func (NopClient) SendUnjustifiedPoints(UnjustifiedPoints)                 {}
func (NopClient) SendModalWindow(ModalWindow)                             {}
func (NopClient) SendVIP(uint32, string, string, uint32, bool, VIPStatus) {}
func (NopClient) SendUpdatedVIPStatus(uint32, VIPStatus)                  {}
func (NopClient) SendClosePrivate(uint16)                                 {}
func (NopClient) SendOpenStash()                                          {}
func (NopClient) SendReLoginWindow(uint8)                                 {}
func (NopClient) SendBlessStatus()                                        {}
func (NopClient) SendSpellCooldown(uint16, uint32)                        {}
func (NopClient) SendSpellGroupCooldown(uint8, uint32)                    {}
func (NopClient) SendOutfitWindow()                                       {}
func (NopClient) SendExperienceTracker(int64, int64)                      {}
func (NopClient) WriteToOutputBuffer([]byte)                              {}
func (NopClient) Logout(bool, bool)                                       {}
func (NopClient) IP() string                                              { return "" }
func (NopClient) CanSee(geo.Position) bool                                { return false }
