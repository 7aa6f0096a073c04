package data

// Item type ids the player logic creates or recognizes by id.
const (
	ItemBag             uint16 = 1987
	ItemBackpack        uint16 = 1988
	ItemDepotLocker     uint16 = 2589
	ItemDepotChest      uint16 = 2594
	ItemInbox           uint16 = 14404
	ItemMarket          uint16 = 14405
	ItemRewardChest     uint16 = 19202
	ItemRewardBag       uint16 = 19250
	ItemDepotBoxFirst   uint16 = 22797 // depot box I; box N is ItemDepotBoxFirst+N-1
	ItemSupplyStash     uint16 = 28750
	ItemDivineEmpowered uint16 = 33830 // field item that powers Divine Empowerment
	ItemGoldCoin        uint16 = 2148
	ItemPlatinumCoin    uint16 = 2152
	ItemCrystalCoin     uint16 = 2160
)

// MaxDepotBoxes bounds the depot boxes under one depot chest.
const MaxDepotBoxes = 18
