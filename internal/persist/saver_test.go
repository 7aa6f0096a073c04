package persist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playermock"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

func newSaver(t *testing.T) (*persist.Saver, *playermock.MockStore, *player.Player, *observer.ObservedLogs) {
	t.Helper()
	store := playermock.NewMockStore(gomock.NewController(t))
	core, logs := observer.New(zapcore.DebugLevel)
	p, _ := playertest.NewWorld(t).NewPlayer(playertest.Snapshot(5, "Saved", home))
	return persist.NewSaver(store, time.Second, zap.New(core)), store, p, logs
}

func TestSaver_Save_FirstTry(t *testing.T) {
	s, store, p, logs := newSaver(t)
	store.EXPECT().SavePlayer(gomock.Any(), p).Return(nil)

	require.NoError(t, s.Save(context.Background(), p))
	assert.Zero(t, logs.FilterMessage("error while saving player").Len())
}

func TestSaver_Save_RetriesUntilSuccess(t *testing.T) {
	s, store, p, logs := newSaver(t)
	boom := errors.New("deadlock detected")
	gomock.InOrder(
		store.EXPECT().SavePlayer(gomock.Any(), p).Return(boom),
		store.EXPECT().SavePlayer(gomock.Any(), p).Return(boom),
		store.EXPECT().SavePlayer(gomock.Any(), p).Return(nil),
	)

	require.NoError(t, s.Save(context.Background(), p))
	assert.Equal(t, 2, logs.FilterMessage("save attempt failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("player saved after retry").Len())
}

func TestSaver_Save_GivesUpAfterThreeAttempts(t *testing.T) {
	s, store, p, logs := newSaver(t)
	boom := errors.New("connection refused")
	store.EXPECT().SavePlayer(gomock.Any(), p).Return(boom).Times(persist.DefaultSaveRetries)

	err := s.Save(context.Background(), p)

	assert.ErrorIs(t, err, boom)
	entries := logs.FilterMessage("error while saving player").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Saved", fields["name"])
	assert.Equal(t, int64(3), fields["attempts"])
	assert.NotEmpty(t, fields["job"])
}

func TestSaver_Save_StopsWhenCancelled(t *testing.T) {
	s, store, p, _ := newSaver(t)
	ctx, cancel := context.WithCancel(context.Background())
	store.EXPECT().SavePlayer(gomock.Any(), p).DoAndReturn(func(context.Context, *player.Player) error {
		cancel()
		return context.Canceled
	})

	err := s.Save(ctx, p)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaver_SetOnline_LogsFailure(t *testing.T) {
	s, store, p, logs := newSaver(t)
	store.EXPECT().UpdateOnlineStatus(gomock.Any(), uint32(5), true).Return(errors.New("timeout"))

	s.SetOnline(context.Background(), p, true)

	assert.Equal(t, 1, logs.FilterMessage("error while updating online status").Len())
}
