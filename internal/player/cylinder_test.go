package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

const (
	steelHelmet   uint16 = 2457
	plateArmor    uint16 = 2463
	sword         uint16 = 2376
	twoHandSword  uint16 = 2377
	bow           uint16 = 2456
	arrow         uint16 = 2544
	steelShield   uint16 = 2509
	quiver        uint16 = 35562
	ringOfHealing uint16 = 2214
)

var home = geo.Position{X: 1000, Y: 1000, Z: 7}

func newPlayer(t *testing.T) (*playertest.World, *player.Player, *playertest.Client) {
	t.Helper()
	w := playertest.NewWorld(t)
	p, c := w.NewPlayer(playertest.Snapshot(1, "Tester", home))
	p.OnLogin()
	return w, p, c
}

// equip creates typeID and puts it into slot the way a move does.
func equip(t *testing.T, w *playertest.World, p *player.Player, slot player.Slot, typeID uint16, count uint16) *item.Item {
	t.Helper()
	it := w.Env.Items.Create(typeID, count)
	require.NotNil(t, it, "item type %d", typeID)
	p.AddThing(int(slot), it)
	p.PostAddNotification(it, item.Parent{}, int(slot), player.LinkOwner)
	return it
}

func TestPlayer_QueryAdd_SlotMatrix(t *testing.T) {
	tests := []struct {
		name   string
		worn   map[player.Slot]uint16
		slot   player.Slot
		typeID uint16
		want   item.ReturnValue
	}{
		{name: "helmet on head", slot: player.SlotHead, typeID: steelHelmet, want: item.RetNoError},
		{name: "helmet as armor", slot: player.SlotArmor, typeID: steelHelmet, want: item.RetCannotBeDressed},
		{name: "armor on body", slot: player.SlotArmor, typeID: plateArmor, want: item.RetNoError},
		{name: "ring", slot: player.SlotRing, typeID: ringOfHealing, want: item.RetNoError},
		{name: "arrows in ammo", slot: player.SlotAmmo, typeID: arrow, want: item.RetNoError},
		{name: "sword in weapon hand", slot: player.SlotLeft, typeID: sword, want: item.RetNoError},
		{name: "sword in shield hand", slot: player.SlotRight, typeID: sword, want: item.RetCannotBeDressed},
		{name: "shield in shield hand", slot: player.SlotRight, typeID: steelShield, want: item.RetNoError},
		{name: "shield in weapon hand", slot: player.SlotLeft, typeID: steelShield, want: item.RetCannotBeDressed},
		{
			name:   "bow next to shield",
			worn:   map[player.Slot]uint16{player.SlotRight: steelShield},
			slot:   player.SlotLeft,
			typeID: bow,
			want:   item.RetBothHandsNeedToBeFree,
		},
		{
			name:   "shield next to two-handed sword",
			worn:   map[player.Slot]uint16{player.SlotLeft: twoHandSword},
			slot:   player.SlotRight,
			typeID: steelShield,
			want:   item.RetBothHandsNeedToBeFree,
		},
		{
			name:   "quiver next to bow",
			worn:   map[player.Slot]uint16{player.SlotLeft: bow},
			slot:   player.SlotRight,
			typeID: quiver,
			want:   item.RetNoError,
		},
		{
			name:   "occupied head",
			worn:   map[player.Slot]uint16{player.SlotHead: steelHelmet},
			slot:   player.SlotHead,
			typeID: steelHelmet,
			want:   item.RetNeedExchange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, _ := newPlayer(t)
			for slot, typeID := range tt.worn {
				equip(t, w, p, slot, typeID, 1)
			}
			it := w.Env.Items.Create(tt.typeID, 1)
			require.NotNil(t, it)

			assert.Equal(t, tt.want, p.QueryAdd(int(tt.slot), it, 1, 0))
		})
	}
}

func TestPlayer_QueryAdd_NotPickupable(t *testing.T) {
	w, p, _ := newPlayer(t)
	trough := w.Env.Items.Create(1775, 1)
	require.NotNil(t, trough)

	assert.Equal(t, item.RetCannotPickup, p.QueryAdd(int(player.SlotLeft), trough, 1, 0))
}

func TestPlayer_QueryAdd_NotEnoughCapacity(t *testing.T) {
	w := playertest.NewWorld(t)
	snap := playertest.Snapshot(1, "Weak", home)
	snap.Capacity = 1000
	p, _ := w.NewPlayer(snap)
	p.OnLogin()

	armor := w.Env.Items.Create(plateArmor, 1)
	require.NotNil(t, armor)

	assert.Equal(t, item.RetNotEnoughCapacity, p.QueryAdd(int(player.SlotArmor), armor, 1, 0))
}

func TestPlayer_AddThing_UpdatesWeightAndCapacity(t *testing.T) {
	w, p, c := newPlayer(t)
	before := p.FreeCapacity()

	armor := equip(t, w, p, player.SlotArmor, plateArmor, 1)

	assert.Equal(t, armor.ID(), p.InventoryItem(player.SlotArmor).ID())
	assert.Equal(t, armor.Type().Weight, p.InventoryWeight())
	assert.Equal(t, before-armor.Type().Weight, p.FreeCapacity())
	assert.Equal(t, armor.ID(), c.Inventory[player.SlotArmor])
}

func TestPlayer_RemoveThing_PartialStackStays(t *testing.T) {
	w, p, _ := newPlayer(t)
	arrows := equip(t, w, p, player.SlotAmmo, arrow, 50)

	p.RemoveThing(arrows, 20)
	require.NotNil(t, p.InventoryItem(player.SlotAmmo))
	assert.Equal(t, uint16(30), p.InventoryItem(player.SlotAmmo).Count)

	p.RemoveThing(arrows, 30)
	assert.Nil(t, p.InventoryItem(player.SlotAmmo))
	assert.Equal(t, -1, p.ThingIndex(arrows.ID()))
}

func TestPlayer_QueryRemove(t *testing.T) {
	w, p, _ := newPlayer(t)
	arrows := equip(t, w, p, player.SlotAmmo, arrow, 10)
	loose := w.Env.Items.Create(arrow, 10)

	assert.Equal(t, item.RetNoError, p.QueryRemove(arrows, 10, 0))
	assert.Equal(t, item.RetNotPossible, p.QueryRemove(arrows, 11, 0))
	assert.Equal(t, item.RetNotPossible, p.QueryRemove(arrows, 0, 0))
	assert.Equal(t, item.RetNotPossible, p.QueryRemove(loose, 1, 0))
}

func TestPlayer_ItemTypeCount_CountsContainers(t *testing.T) {
	w, p, _ := newPlayer(t)
	bp := equip(t, w, p, player.SlotBackpack, data.ItemBackpack, 1)
	bag := w.Env.Items.Create(data.ItemBag, 1)
	require.True(t, w.Env.Items.Insert(bp.ID(), bag.ID(), item.IndexWherever))
	for _, n := range []uint16{40, 25} {
		coins := w.Env.Items.Create(data.ItemGoldCoin, n)
		require.True(t, w.Env.Items.Insert(bag.ID(), coins.ID(), item.IndexWherever))
	}

	assert.Equal(t, uint32(65), p.ItemTypeCount(data.ItemGoldCoin))
	assert.Equal(t, uint32(1), p.ItemTypeCount(data.ItemBag))
}

func TestPlayer_QueryDestination_FirstAcceptingSlot(t *testing.T) {
	w, p, _ := newPlayer(t)
	helmet := w.Env.Items.Create(steelHelmet, 1)

	dest := p.QueryDestination(item.IndexWherever, helmet, 0)

	assert.Equal(t, item.ID(0), dest.Container)
	assert.Equal(t, int(player.SlotHead), dest.Index)
}

func TestPlayer_QueryDestination_MergesIntoStack(t *testing.T) {
	w, p, _ := newPlayer(t)
	worn := equip(t, w, p, player.SlotAmmo, arrow, 30)
	more := w.Env.Items.Create(arrow, 10)

	dest := p.QueryDestination(item.IndexWherever, more, 0)

	assert.Equal(t, int(player.SlotAmmo), dest.Index)
	assert.Equal(t, worn.ID(), dest.Item)
}
