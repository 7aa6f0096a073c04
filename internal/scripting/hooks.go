package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// Hook function names looked up in the Lua globals.
const (
	fnGainSkillTries = "on_gain_skill_tries"
	fnGainExperience = "on_gain_experience"
	fnLoseExperience = "on_lose_experience"
	fnChangeZone     = "on_change_zone"
	fnStorageUpdate  = "on_storage_update"
	fnEquip          = "on_equip"
	fnDeEquip        = "on_deequip"
	fnAdvance        = "on_advance"
	fnLogin          = "on_login"
	fnLogout         = "on_logout"
)

// Hooks adapts the engine to player.Hooks. Undefined handlers and handlers
// that fail pass the value through unchanged.
type Hooks struct {
	e *Engine
}

var _ player.Hooks = Hooks{}

func (e *Engine) Hooks() Hooks { return Hooks{e: e} }

func clampUint(v float64) uint64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}

func (h Hooks) OnGainSkillTries(p *player.Player, skill player.SkillKind, tries uint64) uint64 {
	if !h.e.HasFunction(fnGainSkillTries) {
		return tries
	}
	return clampUint(h.e.callNumber(fnGainSkillTries, float64(tries),
		h.e.pushPlayer(p), lua.LString(skill.String()), lua.LNumber(tries)))
}

func (h Hooks) OnGainExperience(p *player.Player, source player.Creature, exp, raw uint64) uint64 {
	if !h.e.HasFunction(fnGainExperience) {
		return exp
	}
	src := lua.LValue(lua.LNil)
	if source != nil {
		src = lua.LString(source.Name())
	}
	return clampUint(h.e.callNumber(fnGainExperience, float64(exp),
		h.e.pushPlayer(p), src, lua.LNumber(exp), lua.LNumber(raw)))
}

func (h Hooks) OnLoseExperience(p *player.Player, exp uint64) uint64 {
	if !h.e.HasFunction(fnLoseExperience) {
		return exp
	}
	return clampUint(h.e.callNumber(fnLoseExperience, float64(exp), h.e.pushPlayer(p), lua.LNumber(exp)))
}

func (h Hooks) OnChangeZone(p *player.Player, zone player.Zone) {
	h.e.call(fnChangeZone, h.e.pushPlayer(p), lua.LString(zone.String()))
}

func (h Hooks) OnStorageUpdate(p *player.Player, key uint32, value, oldValue int32, hadOld bool) {
	old := lua.LValue(lua.LNil)
	if hadOld {
		old = lua.LNumber(oldValue)
	}
	h.e.call(fnStorageUpdate, h.e.pushPlayer(p), lua.LNumber(key), lua.LNumber(value), old)
}

func (h Hooks) itemTable(it *item.Item) *lua.LTable {
	t := h.e.vm.NewTable()
	if it == nil {
		return t
	}
	t.RawSetString("id", lua.LNumber(it.TypeID()))
	t.RawSetString("name", lua.LString(it.Type().Name))
	t.RawSetString("count", lua.LNumber(it.StackCount()))
	return t
}

func (h Hooks) OnEquip(p *player.Player, it *item.Item, slot player.Slot, isCheck bool) bool {
	if !h.e.HasFunction(fnEquip) {
		return true
	}
	return h.e.callBool(fnEquip, true, h.e.pushPlayer(p), h.itemTable(it), lua.LNumber(slot), lua.LBool(isCheck))
}

func (h Hooks) OnDeEquip(p *player.Player, it *item.Item, slot player.Slot, isCheck bool) bool {
	if !h.e.HasFunction(fnDeEquip) {
		return true
	}
	return h.e.callBool(fnDeEquip, true, h.e.pushPlayer(p), h.itemTable(it), lua.LNumber(slot), lua.LBool(isCheck))
}

func (h Hooks) PlayerAdvance(p *player.Player, skill player.SkillKind, oldLevel, newLevel uint32) {
	h.e.call(fnAdvance, h.e.pushPlayer(p), lua.LString(skill.String()), lua.LNumber(oldLevel), lua.LNumber(newLevel))
}

func (h Hooks) PlayerLogin(p *player.Player) bool {
	if !h.e.HasFunction(fnLogin) {
		return true
	}
	return h.e.callBool(fnLogin, true, h.e.pushPlayer(p))
}

func (h Hooks) PlayerLogout(p *player.Player) bool {
	if !h.e.HasFunction(fnLogout) {
		return true
	}
	return h.e.callBool(fnLogout, true, h.e.pushPlayer(p))
}
