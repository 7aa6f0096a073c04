package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
)

var home = geo.Position{X: 1000, Y: 1000, Z: 7}

func TestToRow_SnapshotRoundTrip(t *testing.T) {
	w := playertest.NewWorld(t)
	p, _ := w.NewPlayer(playertest.Snapshot(7, "Saved", home))
	p.OnLogin()
	p.AddStorageValue(500, 9)
	p.AddOutfit(129, 2)
	p.AddBlessing(3, 1)
	p.AddCondition(condition.New(condition.Poison, condition.IDCombat, 5000, 0))
	p.AddExperience(nil, 2200, false)
	p.SetSkull(player.SkullWhite)
	p.SetSkullTicks(60000)
	want := p.Snapshot()

	row, err := persist.ToRow(want)
	require.NoError(t, err)
	got, err := row.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, want.GUID, got.GUID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Group, got.Group)
	assert.Equal(t, want.Position, got.Position)
	assert.Equal(t, want.Temple, got.Temple)
	assert.Equal(t, want.Level, got.Level)
	assert.Equal(t, want.Experience, got.Experience)
	assert.Equal(t, want.Skills, got.Skills)
	assert.Equal(t, want.Outfit, got.Outfit)
	assert.Equal(t, want.Blessings, got.Blessings)
	assert.Equal(t, want.Storage, got.Storage)
	assert.Equal(t, want.Conditions, got.Conditions)
	assert.Equal(t, want.Skull, got.Skull)
	assert.Equal(t, want.SkullTicks, got.SkullTicks)
	assert.Equal(t, want.Stamina, got.Stamina)

	q, _ := playertest.NewWorld(t).NewPlayer(got)
	q.OnLogin()
	assert.Equal(t, uint32(9), q.Level())
	assert.True(t, q.HasCondition(condition.Poison))
	addons, ok := q.OutfitAddons(129)
	assert.True(t, ok)
	assert.Equal(t, uint8(2), addons)
}

func TestToRow_EmptyDocuments(t *testing.T) {
	row, err := persist.ToRow(&player.Snapshot{GUID: 1, Name: "Bare"})
	require.NoError(t, err)

	assert.Equal(t, int16(1), row.GroupID)
	assert.JSONEq(t, `{}`, string(row.Storage))
	assert.JSONEq(t, `[]`, string(row.Conditions))
	assert.JSONEq(t, `[]`, string(row.Spells))
	assert.JSONEq(t, `{"gift_heal":0,"gift_total":0,"gift_left":0}`, string(row.Wheel))
}

func TestPlayerRow_Snapshot_BadDocument(t *testing.T) {
	row := &persist.PlayerRow{GUID: 3, Storage: []byte(`{"x":`)}

	_, err := row.Snapshot()

	assert.ErrorContains(t, err, "decode player 3")
}
