package packet

// ProtocolVersion is the client version the server speaks. The hello
// packet announces it and CVersion must match it.
const ProtocolVersion uint16 = 1310

// Client → server opcodes.
const (
	CVersion         byte = 0x01
	CEnterWorld      byte = 0x0A
	CLogout          byte = 0x14
	CPong            byte = 0x1E
	CMove            byte = 0x20
	CAttack          byte = 0x30
	CFollow          byte = 0x31
	CCancelTarget    byte = 0x32
	CFightModes      byte = 0x33
	CEquip           byte = 0x40
	CUnequip         byte = 0x41
	CSetOutfit       byte = 0x50
	CToggleMount     byte = 0x51
	CVIPAdd          byte = 0x60
	CVIPRemove       byte = 0x61
	CVIPEdit         byte = 0x62
	CPartyInvite     byte = 0x70
	CPartyJoin       byte = 0x71
	CPartyRevoke     byte = 0x72
	CPartyPassLeader byte = 0x73
	CPartyLeave      byte = 0x74
	CPartyShareExp   byte = 0x75
	CModalAnswer     byte = 0x80
)

// Server → client opcodes.
const (
	SHello               byte = 0x01
	SLoginOK             byte = 0x0A
	SLoginError          byte = 0x0B
	SLogout              byte = 0x14
	SPing                byte = 0x1E
	SStats               byte = 0xA0
	SSkills              byte = 0xA1
	SIcons               byte = 0xA2
	STextMessage         byte = 0xB4
	SCancel              byte = 0xB5
	SCancelTarget        byte = 0xA3
	SInventoryItem       byte = 0x78
	SContainer           byte = 0x6E
	SCloseContainer      byte = 0x6F
	SContainerAdd        byte = 0x70
	SContainerUpdate     byte = 0x71
	SContainerRemove     byte = 0x72
	SAddCreature         byte = 0x6A
	SRemoveCreature      byte = 0x6C
	SMoveCreature        byte = 0x6D
	SMagicEffect         byte = 0x83
	SSoundEffect         byte = 0x84
	SCreatureHealth      byte = 0x8C
	SCreatureLight       byte = 0x8D
	SCreatureOutfit      byte = 0x8E
	SCreatureSpeed       byte = 0x8F
	SCreatureSkull       byte = 0x90
	SCreatureShield      byte = 0x91
	SCreatureSquare      byte = 0x93
	SCreatureWalkthrough byte = 0x92
	SPartyMemberStatus   byte = 0x8B
	SCloseTrade          byte = 0x7F
	SClosePrivate        byte = 0xB3
	SVIP                 byte = 0xD2
	SVIPStatus           byte = 0xD3
	SModalWindow         byte = 0xFA
	SSpellCooldown       byte = 0xA4
	SSpellGroupCooldown  byte = 0xA5
	SUnjustifiedPoints   byte = 0xB7
	SExperienceTracker   byte = 0xAF
	SReLoginWindow       byte = 0x28
	SRestingStatus       byte = 0xA9
	SOutfitWindow        byte = 0xC8
	SBlessStatus         byte = 0x9C
	SHouseWindow         byte = 0x97
	SWindow              byte = 0x96 // imbuement, market, shop and stash windows
)

// Window kinds carried by SWindow.
const (
	WindowImbuement byte = iota + 1
	WindowMarket
	WindowShop
	WindowSaleList
	WindowCloseShop
	WindowStash
)
