package system_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
	"github.com/l1jgo/playerd/internal/world"
)

type fixture struct {
	*playertest.World
	State *world.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := playertest.NewWorld(t)
	s := world.NewState(w.Env.Items, w.Env.Tables.Map, zap.NewNop())
	s.Parties.Configure(w.Clock, int64(w.Cfg.Game.PzLocked))
	w.Env.Game = s
	return &fixture{World: w, State: s}
}

func (f *fixture) enter(t *testing.T, guid uint32, name string, at geo.Position) (*player.Player, *playertest.Client) {
	t.Helper()
	p := player.New(f.Env, f.State.NextPlayerID(), playertest.Snapshot(guid, name, at))
	c := &playertest.Client{}
	p.SetClient(c)
	require.True(t, f.State.PlaceCreature(p))
	p.OnLogin()
	return p, c
}

func pos(x, y uint16) geo.Position { return geo.Position{X: x, Y: y, Z: 7} }

type saver struct {
	fail    bool
	saved   []uint32
	offline []uint32
}

func (s *saver) Save(_ context.Context, p *player.Player) error {
	if s.fail {
		return errors.New("database down")
	}
	s.saved = append(s.saved, p.GUID())
	return nil
}

func (s *saver) SetOnline(_ context.Context, p *player.Player, online bool) {
	if !online {
		s.offline = append(s.offline, p.GUID())
	}
}

type deathLog struct {
	entries []persist.DeathEntry
}

func (d *deathLog) RecordDeaths(_ context.Context, deaths []persist.DeathEntry) {
	d.entries = append(d.entries, deaths...)
}

type offline struct {
	guids []uint32
}

func (o *offline) SetOffline(_ context.Context, guid uint32, _ string) error {
	o.guids = append(o.guids, guid)
	return nil
}
