package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
)

func itemSnapshot() *player.Snapshot {
	return &player.Snapshot{
		GUID: 1,
		Inventory: map[player.Slot]player.ItemRecord{
			player.SlotHead: {TypeID: 2457, Count: 1},
			player.SlotBackpack: {TypeID: 1988, Count: 1, OpenContainer: 1, Children: []player.ItemRecord{
				{TypeID: 1987, Count: 1, Children: []player.ItemRecord{
					{TypeID: 2148, Count: 77},
				}},
				{TypeID: 2544, Count: 42},
			}},
		},
		DepotChests: map[uint32][]player.ItemRecord{
			3: {{TypeID: 2463, Count: 1, Imbuements: []item.ImbuementSlot{{ID: 4, Duration: 3600}}}},
		},
		Inbox: []player.ItemRecord{{TypeID: 2376, Count: 1, Date: 1700000000}},
		Rewards: map[uint32][]player.ItemRecord{
			1700000100: {{TypeID: 2160, Count: 5}},
		},
	}
}

func TestFlatten_ParentsBeforeChildren(t *testing.T) {
	rows := persist.Flatten(itemSnapshot())

	require.Len(t, rows, 8)
	seen := make(map[int32]bool)
	for i, r := range rows {
		assert.Equal(t, int32(i+1), r.SID)
		if r.PID != 0 {
			assert.True(t, seen[r.PID], "parent of %d written first", r.SID)
		}
		seen[r.SID] = true
	}

	assert.Equal(t, persist.ItemRow{SID: 1, Kind: persist.KindInventory, Slot: int32(player.SlotHead), TypeID: 2457, Count: 1}, rows[0])
	gold := rows[3]
	assert.Equal(t, int32(2148), gold.TypeID)
	assert.Equal(t, int32(3), gold.PID)
	assert.Equal(t, int32(0), gold.Slot)
	arrows := rows[4]
	assert.Equal(t, int32(2), arrows.PID)
	assert.Equal(t, int32(1), arrows.Slot, "index inside the backpack")
}

func TestFlatten_RootKinds(t *testing.T) {
	rows := persist.Flatten(itemSnapshot())

	kinds := make(map[persist.ItemKind][]int32)
	for _, r := range rows {
		if r.PID == 0 {
			kinds[r.Kind] = append(kinds[r.Kind], r.Slot)
		}
	}
	assert.Equal(t, []int32{int32(player.SlotHead), int32(player.SlotBackpack)}, kinds[persist.KindInventory])
	assert.Equal(t, []int32{3}, kinds[persist.KindDepot])
	assert.Equal(t, []int32{0}, kinds[persist.KindInbox])
	assert.Equal(t, []int32{1700000100}, kinds[persist.KindReward])
}

func TestUnflatten_RoundTrip(t *testing.T) {
	want := itemSnapshot()

	got := &player.Snapshot{GUID: 1}
	persist.Unflatten(got, persist.Flatten(want))

	assert.Equal(t, want.Inventory, got.Inventory)
	assert.Equal(t, want.DepotChests, got.DepotChests)
	assert.Equal(t, want.Inbox, got.Inbox)
	assert.Equal(t, want.Rewards, got.Rewards)
}

func TestUnflatten_DropsOrphans(t *testing.T) {
	rows := []persist.ItemRow{
		{SID: 1, Kind: persist.KindInventory, Slot: int32(player.SlotRing), TypeID: 2214, Count: 1},
		{SID: 2, PID: 9, Kind: persist.KindInventory, TypeID: 2148, Count: 10},
	}

	s := &player.Snapshot{}
	persist.Unflatten(s, rows)

	require.Len(t, s.Inventory, 1)
	assert.Empty(t, s.Inventory[player.SlotRing].Children)
}

func TestUnflatten_OrdersChildrenByIndex(t *testing.T) {
	rows := []persist.ItemRow{
		{SID: 1, Kind: persist.KindInbox, TypeID: 1988, Count: 1},
		{SID: 2, PID: 1, Slot: 1, Kind: persist.KindInbox, TypeID: 2148, Count: 2},
		{SID: 3, PID: 1, Slot: 0, Kind: persist.KindInbox, TypeID: 2152, Count: 3},
	}

	s := &player.Snapshot{}
	persist.Unflatten(s, rows)

	require.Len(t, s.Inbox, 1)
	require.Len(t, s.Inbox[0].Children, 2)
	assert.Equal(t, uint16(2152), s.Inbox[0].Children[0].TypeID)
	assert.Equal(t, uint16(2148), s.Inbox[0].Children[1].TypeID)
}
