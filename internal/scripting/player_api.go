package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/playerd/internal/player"
)

const playerTypeName = "player"

// registerPlayerType installs the metatable behind player handles passed
// to hook functions.
func (e *Engine) registerPlayerType() {
	mt := e.vm.NewTypeMetatable(playerTypeName)
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"guid":         playerGUID,
		"name":         playerName,
		"level":        playerLevel,
		"experience":   playerExperience,
		"vocation":     playerVocation,
		"is_premium":   playerIsPremium,
		"position":     playerPosition,
		"health":       playerHealth,
		"mana":         playerMana,
		"storage":      playerStorage,
		"set_storage":  playerSetStorage,
		"send_text":    playerSendText,
		"has_blessing": playerHasBlessing,
		"add_blessing": playerAddBlessing,
		"is_mounted":   playerIsMounted,
	}))
}

func (e *Engine) pushPlayer(p *player.Player) lua.LValue {
	if p == nil {
		return lua.LNil
	}
	ud := e.vm.NewUserData()
	ud.Value = p
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(playerTypeName))
	return ud
}

func checkPlayer(L *lua.LState) *player.Player {
	ud := L.CheckUserData(1)
	if p, ok := ud.Value.(*player.Player); ok {
		return p
	}
	L.ArgError(1, "player expected")
	return nil
}

func playerGUID(L *lua.LState) int {
	L.Push(lua.LNumber(checkPlayer(L).GUID()))
	return 1
}

func playerName(L *lua.LState) int {
	L.Push(lua.LString(checkPlayer(L).Name()))
	return 1
}

func playerLevel(L *lua.LState) int {
	L.Push(lua.LNumber(checkPlayer(L).Level()))
	return 1
}

func playerExperience(L *lua.LState) int {
	L.Push(lua.LNumber(checkPlayer(L).Experience()))
	return 1
}

func playerVocation(L *lua.LState) int {
	v := checkPlayer(L).Vocation()
	if v == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(v.Name))
	return 1
}

func playerIsPremium(L *lua.LState) int {
	L.Push(lua.LBool(checkPlayer(L).IsPremium()))
	return 1
}

func playerPosition(L *lua.LState) int {
	pos := checkPlayer(L).Position()
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	L.Push(lua.LNumber(pos.Z))
	return 3
}

func playerHealth(L *lua.LState) int {
	p := checkPlayer(L)
	L.Push(lua.LNumber(p.Health()))
	L.Push(lua.LNumber(p.MaxHealth()))
	return 2
}

func playerMana(L *lua.LState) int {
	p := checkPlayer(L)
	L.Push(lua.LNumber(p.Mana()))
	L.Push(lua.LNumber(p.MaxMana()))
	return 2
}

// storage(key) returns the value, or nil when the key is unset.
func playerStorage(L *lua.LState) int {
	v, ok := checkPlayer(L).StorageValue(uint32(L.CheckInt64(2)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func playerSetStorage(L *lua.LState) int {
	checkPlayer(L).AddStorageValue(uint32(L.CheckInt64(2)), int32(L.CheckInt64(3)))
	return 0
}

func playerSendText(L *lua.LState) int {
	checkPlayer(L).Client().SendTextMessage(player.MessageEvent, L.CheckString(2))
	return 0
}

func playerHasBlessing(L *lua.LState) int {
	L.Push(lua.LBool(checkPlayer(L).HasBlessing(L.CheckInt(2))))
	return 1
}

func playerAddBlessing(L *lua.LState) int {
	checkPlayer(L).AddBlessing(L.CheckInt(2), uint8(L.OptInt(3, 1)))
	return 0
}

func playerIsMounted(L *lua.LState) int {
	L.Push(lua.LBool(checkPlayer(L).IsMounted()))
	return 1
}
