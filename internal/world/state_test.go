package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

func TestState_PlayerByName_IgnoresCase(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 2, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 1, "Bob", pos(152, 150))

	assert.Same(t, alice, f.State.PlayerByName("ALICE"))
	assert.Same(t, bob, f.State.PlayerByGUID(1))
	assert.Nil(t, f.State.PlayerByName("Carol"))
	assert.Equal(t, []*player.Player{bob, alice}, f.State.Players())
	assert.Equal(t, 2, f.State.PlayerCount())
}

func TestState_NextPlayerID_AboveCreatureIDs(t *testing.T) {
	f := newFixture(t)

	first := f.State.NextPlayerID()

	assert.Greater(t, first, f.State.NextCreatureID())
	assert.Equal(t, first+1, f.State.NextPlayerID())
}

func TestState_Tile_FromMapAreas(t *testing.T) {
	f := newFixture(t)

	temple := f.State.Tile(geo.Position{X: 100, Y: 100, Z: 7})
	require.NotNil(t, temple)
	assert.True(t, temple.HasFlag(player.TileProtectionZone))
	assert.Equal(t, player.ZoneProtection, player.ZoneOf(temple))

	arena := f.State.TileAt(pos(205, 205))
	assert.True(t, arena.HasFlag(player.TilePvPZone))
	assert.True(t, arena.HasFlag(player.TileNoLogout))

	assert.True(t, f.State.TileAt(pos(112, 97)).HasFlag(player.TileDepot))
	assert.Equal(t, uint32(1), f.State.TileAt(pos(122, 97)).HouseID())
	assert.True(t, f.State.TileAt(pos(130, 100)).HasWalkStack())
	assert.Equal(t, player.TileFlag(0), f.State.TileAt(pos(150, 150)).Flags())
}

func TestState_Tile_OutsideMap(t *testing.T) {
	f := newFixture(t)

	assert.Nil(t, f.State.Tile(pos(3000, 10)))
	assert.Nil(t, f.State.TileAt(geo.Position{X: 10, Y: 10, Z: 16}))
}

func TestState_SetTile_KeepsCreatures(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))

	tile := f.State.SetTile(pos(150, 150), player.TileNoLogout)

	assert.True(t, tile.HasFlag(player.TileNoLogout))
	assert.Equal(t, []player.Creature{alice}, tile.Creatures())
}

func TestState_PlaceCreature_ShowsToSpectators(t *testing.T) {
	f := newFixture(t)
	alice, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	_, farClient := f.enter(t, 3, "Far", pos(150, 170))

	bob, bobClient := f.enter(t, 2, "Bob", pos(152, 150))

	assert.Equal(t, []uint32{bob.CreatureID()}, aliceClient.Added)
	assert.NotContains(t, bobClient.Added, bob.CreatureID())
	assert.Empty(t, farClient.Added)
	assert.Same(t, player.Creature(alice), f.State.Creature(alice.CreatureID()))
	assert.Equal(t, 3, f.State.CreatureCount())
}

func TestState_PlaceCreature_Twice(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))

	assert.False(t, f.State.PlaceCreature(alice))
}

func TestState_PlaceCreature_EntersZone(t *testing.T) {
	f := newFixture(t)

	alice, _ := f.enter(t, 1, "Alice", geo.Position{X: 100, Y: 100, Z: 7})

	assert.Equal(t, player.ZoneProtection, alice.Zone())
}

func TestState_Spectators(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 2, "Bob", pos(158, 156))
	f.enter(t, 3, "Upstairs", geo.Position{X: 150, Y: 150, Z: 6})
	f.enter(t, 4, "Far", pos(159, 150))

	got := f.State.Spectators(pos(150, 150), 8, 6, true)

	assert.Equal(t, []player.Creature{alice, bob}, got)
}

func TestState_MoveCreature_NotifiesBothSquares(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	_, bobClient := f.enter(t, 2, "Bob", pos(152, 150))

	rv := f.State.MoveCreature(alice, pos(151, 150), false)

	require.Equal(t, item.RetNoError, rv)
	assert.Equal(t, pos(151, 150), alice.Position())
	assert.Empty(t, f.State.TileAt(pos(150, 150)).Creatures())
	assert.Equal(t, []player.Creature{alice}, f.State.TileAt(pos(151, 150)).Creatures())
	assert.Contains(t, bobClient.Moves, move{ID: alice.CreatureID(), From: pos(150, 150), To: pos(151, 150)})
}

func TestState_MoveCreature_OutsideMap(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(0, 0))

	rv := f.State.MoveCreature(alice, geo.Position{X: 0, Y: 0, Z: 16}, false)

	assert.Equal(t, item.RetNotPossible, rv)
	assert.Equal(t, pos(0, 0), alice.Position())
}

func TestState_MoveCreature_FarSpectatorsAreNotTold(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	_, farClient := f.enter(t, 2, "Far", pos(150, 180))

	f.State.MoveCreature(alice, pos(151, 150), false)

	assert.Empty(t, farClient.Moves)
}

func TestState_InternalTeleport_ChangesZoneAndPacifies(t *testing.T) {
	f := newFixture(t)
	alice, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	temple := geo.Position{X: 100, Y: 100, Z: 7}

	rv := f.State.InternalTeleport(alice, temple)

	require.Equal(t, item.RetNoError, rv)
	assert.Equal(t, temple, alice.Position())
	assert.Equal(t, player.ZoneProtection, alice.Zone())
	assert.True(t, alice.HasCondition(condition.Pacified))
	require.NotEmpty(t, aliceClient.Moves)
	assert.True(t, aliceClient.Moves[len(aliceClient.Moves)-1].Teleport)
}

func TestState_InternalTeleport_OutsideMap(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))

	assert.Equal(t, item.RetNotPossible, f.State.InternalTeleport(alice, pos(5000, 5000)))
}

func TestState_RemoveCreature_Logout(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	_, bobClient := f.enter(t, 2, "Bob", pos(151, 150))

	require.True(t, f.State.RemoveCreature(alice, true))

	assert.True(t, alice.IsRemoved())
	assert.Contains(t, bobClient.Removed, alice.CreatureID())
	assert.Nil(t, f.State.PlayerByGUID(1))
	assert.Nil(t, f.State.Creature(alice.CreatureID()))
	assert.Equal(t, []*player.Player{alice}, f.State.TakeDepartures())
	assert.Empty(t, f.State.TakeDepartures())

	assert.False(t, f.State.RemoveCreature(alice, true))
	assert.Empty(t, f.State.TakeDepartures())
}

func TestState_RemoveCreature_WithoutLogoutIsNotADeparture(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))

	require.True(t, f.State.RemoveCreature(alice, false))

	assert.Empty(t, f.State.TakeDepartures())
}

func TestState_RemoveCreature_ClosesTrade(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, bobClient := f.enter(t, 2, "Bob", pos(151, 150))
	alice.SetTrade(player.TradeInitiated, 0, bob)
	bob.SetTrade(player.TradeAcknowledge, 0, alice)

	f.State.RemoveCreature(alice, true)

	assert.Equal(t, player.TradeNone, bob.TradeState())
	assert.Contains(t, bobClient.Texts(player.MessageFailure), "Trade cancelled.")
	assert.Equal(t, 1, bobClient.ClosedTrades)
}

func TestState_InternalCloseTrade_BothSides(t *testing.T) {
	f := newFixture(t)
	alice, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	bob, bobClient := f.enter(t, 2, "Bob", pos(151, 150))
	alice.SetTrade(player.TradeInitiated, 0, bob)
	bob.SetTrade(player.TradeAcknowledge, 0, alice)

	f.State.InternalCloseTrade(alice)

	assert.Equal(t, player.TradeNone, alice.TradeState())
	assert.Equal(t, player.TradeNone, bob.TradeState())
	assert.Equal(t, 1, aliceClient.ClosedTrades)
	assert.Equal(t, 1, bobClient.ClosedTrades)
}

func TestState_PartnerWalkingAway_ClosesTrade(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 2, "Bob", pos(151, 150))
	alice.SetTrade(player.TradeInitiated, 0, bob)
	bob.SetTrade(player.TradeAcknowledge, 0, alice)

	f.State.MoveCreature(bob, pos(152, 150), false)
	require.Equal(t, player.TradeInitiated, alice.TradeState())
	f.State.MoveCreature(bob, pos(153, 150), false)

	assert.Equal(t, player.TradeNone, alice.TradeState())
	assert.Equal(t, player.TradeNone, bob.TradeState())
}

func TestState_AddMagicEffect_ReachesViewers(t *testing.T) {
	f := newFixture(t)
	_, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	_, farClient := f.enter(t, 2, "Far", pos(150, 190))

	f.State.AddMagicEffect(pos(151, 151), player.MagicEffect(7))

	assert.Contains(t, aliceClient.Effects, player.MagicEffect(7))
	assert.NotContains(t, farClient.Effects, player.MagicEffect(7))
}

func TestState_ChangeSpeed_BroadcastsNewSpeed(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	_, bobClient := f.enter(t, 2, "Bob", pos(151, 150))
	before := alice.Speed()

	f.State.ChangeSpeed(alice, 20)

	assert.Equal(t, before+20, alice.Speed())
	require.NotEmpty(t, bobClient.Speeds)
	assert.Equal(t, alice.Speed(), bobClient.Speeds[len(bobClient.Speeds)-1])
}

func TestState_ReloadCreature(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	_, bobClient := f.enter(t, 2, "Bob", pos(151, 150))

	f.State.ReloadCreature(alice)

	assert.Equal(t, []uint32{alice.CreatureID()}, bobClient.Removed)
	assert.Contains(t, bobClient.Added, alice.CreatureID())
}

func TestState_ProcessFollows_StepsTowardsTarget(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 2, "Bob", pos(154, 150))
	alice.SetFollowCreature(bob)
	f.State.AddToCheckFollow(alice)

	f.State.ProcessFollows()
	assert.Equal(t, pos(151, 150), alice.Position())
	f.State.ProcessFollows()
	f.State.ProcessFollows()

	assert.Equal(t, pos(153, 150), alice.Position())
	f.State.ProcessFollows()
	assert.Equal(t, pos(153, 150), alice.Position())
}

func TestState_ProcessFollows_DropsTargetOutOfView(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 2, "Bob", geo.Position{X: 151, Y: 150, Z: 6})
	alice.SetFollowCreature(bob)
	f.State.AddToCheckFollow(alice)

	f.State.ProcessFollows()

	assert.Nil(t, alice.FollowCreature())
	assert.Equal(t, pos(150, 150), alice.Position())
}
