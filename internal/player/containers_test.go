package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

// openBag equips a backpack holding a bag with a pouch inside and opens
// all three under client ids 2, 3 and 4.
func openBag(t *testing.T, w *playertest.World, p *player.Player) (bp, bag, pouch *item.Item) {
	t.Helper()
	bp = equip(t, w, p, player.SlotBackpack, data.ItemBackpack, 1)
	bag = w.Env.Items.Create(data.ItemBag, 1)
	require.True(t, w.Env.Items.Insert(bp.ID(), bag.ID(), item.IndexWherever))
	pouch = w.Env.Items.Create(data.ItemBag, 1)
	require.True(t, w.Env.Items.Insert(bag.ID(), pouch.ID(), item.IndexWherever))
	p.AddContainer(2, bp.ID())
	p.AddContainer(3, bag.ID())
	p.AddContainer(4, pouch.ID())
	require.Equal(t, 3, p.OpenContainerCount())
	return bp, bag, pouch
}

func TestPlayer_PostRemoveNotification_ClosesContainerGivenAway(t *testing.T) {
	w, alice, c := newPlayer(t)
	bob, _ := w.NewPlayer(playertest.Snapshot(2, "Bob", home.Offset(1, 0)))
	bob.OnLogin()
	bp, bag, _ := openBag(t, w, alice)
	bobBp := equip(t, w, bob, player.SlotBackpack, data.ItemBackpack, 1)

	require.True(t, w.Env.Items.Insert(bobBp.ID(), bag.ID(), item.IndexWherever))
	alice.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Equal(t, []uint8{3, 4}, c.Closed)
	assert.Zero(t, alice.ContainerByID(3))
	assert.Zero(t, alice.ContainerByID(4))
	assert.Equal(t, bp.ID(), alice.ContainerByID(2))
	assert.Equal(t, 1, alice.OpenContainerCount())
}

func TestPlayer_PostRemoveNotification_ClosesContainerOnOtherPlayersTile(t *testing.T) {
	w, alice, c := newPlayer(t)
	bob, _ := w.NewPlayer(playertest.Snapshot(2, "Bob", home.Offset(1, 0)))
	bob.OnLogin()
	_, bag, _ := openBag(t, w, alice)

	w.Env.Items.SetParent(bag.ID(), item.Parent{Kind: item.ParentTile, Pos: bob.Position()})
	alice.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Equal(t, []uint8{3, 4}, c.Closed)
	assert.Equal(t, 1, alice.OpenContainerCount())
}

func TestPlayer_PostRemoveNotification_ClosesContainerOutOfReach(t *testing.T) {
	w, p, c := newPlayer(t)
	_, bag, _ := openBag(t, w, p)

	w.Env.Items.SetParent(bag.ID(), item.Parent{Kind: item.ParentTile, Pos: home.Offset(3, 0)})
	p.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Equal(t, []uint8{3, 4}, c.Closed)
}

func TestPlayer_PostRemoveNotification_ClosesReleasedContainer(t *testing.T) {
	w, p, c := newPlayer(t)
	_, bag, _ := openBag(t, w, p)

	w.Env.Items.Release(bag.ID())
	p.PostRemoveNotification(bag, item.Parent{}, 0, player.LinkTopParent)

	assert.Equal(t, []uint8{3, 4}, c.Closed)
	assert.Equal(t, 1, p.OpenContainerCount())
}

func TestPlayer_PostRemoveNotification_KeepsContainerMovedWithinInventory(t *testing.T) {
	w, p, c := newPlayer(t)
	bp, bag, pouch := openBag(t, w, p)
	other := w.Env.Items.Create(data.ItemBag, 1)
	require.True(t, w.Env.Items.Insert(bp.ID(), other.ID(), item.IndexWherever))

	require.True(t, w.Env.Items.Insert(other.ID(), bag.ID(), item.IndexWherever))
	p.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Empty(t, c.Closed)
	assert.Contains(t, c.Opened, uint8(3))
	assert.Equal(t, bag.ID(), p.ContainerByID(3))
	assert.Equal(t, pouch.ID(), p.ContainerByID(4))
}

func TestPlayer_PostRemoveNotification_KeepsContainerInOwnDepot(t *testing.T) {
	w, p, c := newPlayer(t)
	_, bag, _ := openBag(t, w, p)
	p.DepotLocker(1)
	box := p.DepotChest(1, false)
	require.NotZero(t, box)

	require.True(t, w.Env.Items.Insert(box, bag.ID(), item.IndexWherever))
	p.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Empty(t, c.Closed)
	assert.Equal(t, bag.ID(), p.ContainerByID(3))
}

func TestPlayer_PostRemoveNotification_ClosesContainerInForeignDepot(t *testing.T) {
	w, alice, c := newPlayer(t)
	bob, _ := w.NewPlayer(playertest.Snapshot(2, "Bob", home.Offset(1, 0)))
	bob.OnLogin()
	_, bag, _ := openBag(t, w, alice)
	bob.DepotLocker(1)
	box := bob.DepotChest(1, false)
	require.NotZero(t, box)

	require.True(t, w.Env.Items.Insert(box, bag.ID(), item.IndexWherever))
	alice.PostRemoveNotification(bag, bag.Parent(), 0, player.LinkTopParent)

	assert.Equal(t, []uint8{3, 4}, c.Closed)
}

func TestPlayer_AutoCloseContainers_OnlyAffectedWindows(t *testing.T) {
	w, p, c := newPlayer(t)
	bp, _, pouch := openBag(t, w, p)

	p.AutoCloseContainers(pouch.ID())

	assert.Equal(t, []uint8{4}, c.Closed)
	assert.Equal(t, bp.ID(), p.ContainerByID(2))
	assert.Equal(t, 2, p.OpenContainerCount())
}

func TestPlayer_AddContainer_IgnoresHighIDs(t *testing.T) {
	w, p, _ := newPlayer(t)
	bp := equip(t, w, p, player.SlotBackpack, data.ItemBackpack, 1)

	p.AddContainer(player.MaxOpenContainers, bp.ID())

	assert.Zero(t, p.OpenContainerCount())
}
