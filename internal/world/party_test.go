package world_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
	"github.com/l1jgo/playerd/internal/world"
)

func newParty(t *testing.T) (*fixture, *world.Party, *player.Player, *viewClient, *player.Player, *viewClient) {
	t.Helper()
	f := newFixture(t)
	alice, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	bob, bobClient := f.enter(t, 2, "Bob", pos(152, 150))
	party := f.State.Parties.Create(alice)
	require.NotNil(t, party)
	require.True(t, party.Invite(bob))
	require.True(t, party.Join(bob))
	return f, party, alice, aliceClient, bob, bobClient
}

func TestParties_Create_LeaderAlreadyInParty(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	require.NotNil(t, f.State.Parties.Create(alice))

	assert.Nil(t, f.State.Parties.Create(alice))
	assert.Equal(t, 1, f.State.Parties.Count())
}

func TestParty_Invite_Messages(t *testing.T) {
	f := newFixture(t)
	alice, aliceClient := f.enter(t, 1, "Alice", pos(150, 150))
	bob, bobClient := f.enter(t, 2, "Bob", pos(152, 150))
	party := f.State.Parties.Create(alice)

	require.True(t, party.Invite(bob))

	assert.True(t, party.IsInvited(bob))
	assert.Contains(t, aliceClient.Texts(player.MessageInfoDescr),
		"Bob has been invited. Open the party channel to communicate with your members.")
	assert.Contains(t, bobClient.Texts(player.MessageInfoDescr), "Alice has invited you to his party.")
	assert.False(t, party.Invite(bob), "already invited")
}

func TestParty_Join(t *testing.T) {
	_, party, alice, aliceClient, bob, bobClient := newParty(t)

	assert.Equal(t, 2, party.Size())
	assert.Same(t, alice, party.Leader())
	assert.Equal(t, []*player.Player{bob}, party.Members())
	assert.Empty(t, party.Invitees())
	assert.True(t, alice.IsPartner(bob))
	assert.Contains(t, aliceClient.Texts(player.MessageInfoDescr), "Bob has joined the party.")
	assert.Contains(t, bobClient.Texts(player.MessageInfoDescr),
		"You have joined Alice's party. Open the party channel to communicate with your companions.")
	assert.Contains(t, bobClient.Shields, alice.GUID())
}

func TestParty_Join_NotInvited(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, _ := f.enter(t, 2, "Bob", pos(152, 150))
	party := f.State.Parties.Create(alice)

	assert.False(t, party.Join(bob))
	assert.Nil(t, bob.Party())
}

func TestParty_LeaveParty_LastMemberDisbands(t *testing.T) {
	f, party, alice, aliceClient, bob, _ := newParty(t)

	require.True(t, party.LeaveParty(bob))

	assert.Nil(t, bob.Party())
	assert.Nil(t, alice.Party())
	assert.Equal(t, 0, f.State.Parties.Count())
	assert.Contains(t, aliceClient.Texts(player.MessageInfoDescr), "Your party has been disbanded.")
}

func TestParty_LeaveParty_LeaderPassesLeadership(t *testing.T) {
	f, party, alice, _, bob, bobClient := newParty(t)
	carol, _ := f.enter(t, 3, "Carol", pos(151, 151))
	require.True(t, party.Invite(carol))
	require.True(t, party.Join(carol))

	require.True(t, party.LeaveParty(alice))

	assert.Same(t, bob, party.Leader())
	assert.Equal(t, []*player.Player{carol}, party.Members())
	assert.Nil(t, alice.Party())
	assert.Contains(t, bobClient.Texts(player.MessageInfoDescr), "You are now the leader of the party.")
	assert.Equal(t, 1, f.State.Parties.Count())
}

func TestParty_RevokeInvitation_EmptyPartyDisbands(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.enter(t, 1, "Alice", pos(150, 150))
	bob, bobClient := f.enter(t, 2, "Bob", pos(152, 150))
	party := f.State.Parties.Create(alice)
	require.True(t, party.Invite(bob))

	party.RevokeInvitation(bob)

	assert.False(t, party.IsInvited(bob))
	assert.Contains(t, bobClient.Texts(player.MessageInfoDescr), "Alice has revoked his invitation.")
	assert.Equal(t, 0, f.State.Parties.Count())
	assert.Nil(t, alice.Party())
}

func TestParty_PassLeadership_OnlyMembers(t *testing.T) {
	f, party, alice, _, bob, _ := newParty(t)
	carol, _ := f.enter(t, 3, "Carol", pos(151, 151))

	assert.False(t, party.PassLeadership(carol))
	assert.False(t, party.PassLeadership(alice))
	require.True(t, party.PassLeadership(bob))

	assert.Same(t, bob, party.Leader())
	assert.Equal(t, []*player.Player{alice}, party.Members())
}

func TestParty_SharedExperience_NeedsActivity(t *testing.T) {
	f, party, alice, aliceClient, bob, _ := newParty(t)

	assert.False(t, party.SetSharedExperience(bob, true), "only the leader")
	require.True(t, party.SetSharedExperience(alice, true))

	assert.True(t, party.SharedExperienceActive())
	assert.False(t, party.SharedExperienceEnabled())
	assert.Contains(t, aliceClient.Texts(player.MessageInfoDescr),
		"Shared Experience has been activated, but some members of your party are inactive.")

	party.UpdatePlayerTicks(alice, 10)
	party.UpdatePlayerTicks(bob, 10)
	assert.True(t, party.SharedExperienceEnabled())

	f.Clock.Advance(time.Duration(f.Cfg.Game.PzLocked+1000) * time.Millisecond)
	party.UpdateSharedExperience()
	assert.False(t, party.SharedExperienceEnabled())
}

func TestParty_SharedExperience_TooFarAway(t *testing.T) {
	f, party, alice, _, bob, _ := newParty(t)
	require.True(t, party.SetSharedExperience(alice, true))
	party.UpdatePlayerTicks(alice, 10)
	party.UpdatePlayerTicks(bob, 10)
	require.True(t, party.SharedExperienceEnabled())

	f.State.InternalTeleport(bob, pos(190, 150))

	assert.False(t, party.CanUseSharedExperience(bob))
	assert.False(t, party.SharedExperienceEnabled())
}

func TestParty_ShareExperience_SplitsEvenly(t *testing.T) {
	_, party, alice, _, bob, _ := newParty(t)
	aliceBefore, bobBefore := alice.Experience(), bob.Experience()

	party.ShareExperience(100, &playertest.Creature{ID: 900, Label: "rat", Type: player.KindMonster})

	assert.Greater(t, alice.Experience(), aliceBefore)
	assert.Equal(t, alice.Experience()-aliceBefore, bob.Experience()-bobBefore)
}

func TestParty_Logout_LeavesParty(t *testing.T) {
	f, _, alice, _, bob, _ := newParty(t)

	f.State.RemoveCreature(bob, true)

	assert.Nil(t, bob.Party())
	assert.Nil(t, alice.Party())
	assert.Equal(t, 0, f.State.Parties.Count())
}

func TestParty_UpdatePlayerStatus_OtherMembers(t *testing.T) {
	_, party, _, aliceClient, bob, bobClient := newParty(t)
	aliceClient.Statuses, bobClient.Statuses = nil, nil

	party.UpdatePlayerStatus(bob)

	assert.Equal(t, []uint32{bob.GUID()}, aliceClient.Statuses)
	assert.Empty(t, bobClient.Statuses)
}
