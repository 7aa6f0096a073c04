package player_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playermock"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

func newVIPPlayer(t *testing.T) (*playertest.World, *player.Player, *playertest.Client, *playermock.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := playermock.NewMockStore(ctrl)
	w, p, c := newPlayer(t)
	w.Env.Store = store
	return w, p, c, store
}

func TestPlayer_AddVIP_Persists(t *testing.T) {
	_, p, _, store := newVIPPlayer(t)
	ctx := context.Background()
	store.EXPECT().AddVIPEntry(ctx, p.AccountID(), player.VIPEntry{GUID: 7, Name: "Friend"}).Return(nil)

	require.NoError(t, p.AddVIP(ctx, 7, "Friend", player.VIPOnline))

	assert.True(t, p.HasVIP(7))
	assert.Equal(t, 1, p.VIPCount())
}

func TestPlayer_AddVIP_Duplicate(t *testing.T) {
	_, p, c, store := newVIPPlayer(t)
	ctx := context.Background()
	store.EXPECT().AddVIPEntry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	require.NoError(t, p.AddVIP(ctx, 7, "Friend", player.VIPOffline))
	err := p.AddVIP(ctx, 7, "Friend", player.VIPOffline)

	assert.ErrorIs(t, err, player.ErrVIPAlreadyAdded)
	assert.Contains(t, c.Texts(player.MessageFailure), "This player is already in your list.")
}

func TestPlayer_AddVIP_ListFull(t *testing.T) {
	_, p, c, store := newVIPPlayer(t)
	ctx := context.Background()
	require.Equal(t, 20, p.MaxVIPEntries())
	store.EXPECT().AddVIPEntry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(20)

	for guid := uint32(100); guid < 120; guid++ {
		require.NoError(t, p.AddVIP(ctx, guid, "Buddy", player.VIPOffline))
	}
	err := p.AddVIP(ctx, 500, "One Too Many", player.VIPOffline)

	assert.ErrorIs(t, err, player.ErrVIPListFull)
	assert.Contains(t, c.Texts(player.MessageFailure), "You cannot add more buddies.")
}

func TestPlayer_MaxVIPEntries_Premium(t *testing.T) {
	w := playertest.NewWorld(t)
	snap := playertest.Snapshot(1, "Rich", home)
	snap.PremiumDays = 10
	p, _ := w.NewPlayer(snap)

	assert.Equal(t, 100, p.MaxVIPEntries())
}

func TestPlayer_RemoveVIP_StoreError(t *testing.T) {
	_, p, _, store := newVIPPlayer(t)
	ctx := context.Background()
	boom := errors.New("connection reset")
	store.EXPECT().AddVIPEntry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().RemoveVIPEntry(ctx, p.AccountID(), uint32(7)).Return(boom)
	require.NoError(t, p.AddVIP(ctx, 7, "Friend", player.VIPOnline))

	err := p.RemoveVIP(ctx, 7)

	assert.ErrorIs(t, err, boom)
	assert.False(t, p.HasVIP(7))
}

func TestPlayer_EditVIP(t *testing.T) {
	_, p, _, store := newVIPPlayer(t)
	ctx := context.Background()
	entry := player.VIPEntry{GUID: 7, Description: "tank", Icon: 2, Notify: true}
	store.EXPECT().AddVIPEntry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().EditVIPEntry(ctx, p.AccountID(), entry).Return(nil)
	require.NoError(t, p.AddVIP(ctx, 7, "Friend", player.VIPOnline))

	require.NoError(t, p.EditVIP(ctx, entry))
	assert.ErrorIs(t, p.EditVIP(ctx, player.VIPEntry{GUID: 8}), player.ErrVIPNotFound)
}

func TestPlayer_OnLogin_NotifiesVIPWatchers(t *testing.T) {
	w, watcher, c := newPlayer(t)
	require.NoError(t, watcher.AddVIP(context.Background(), 2, "Friend", player.VIPOffline))

	friend, _ := w.NewPlayer(playertest.Snapshot(2, "Friend", home))
	friend.OnLogin()
	friend.OnLogout()

	assert.Equal(t, []playertest.VIPUpdate{
		{GUID: 2, Status: player.VIPOnline},
		{GUID: 2, Status: player.VIPOffline},
	}, c.VIPUpdates)
	assert.Equal(t, []string{"Friend has logged in.", "Friend has logged out."}, c.Texts(player.MessageFailure))
}
