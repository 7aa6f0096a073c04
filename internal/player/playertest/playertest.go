// Package playertest provides in-memory collaborators for driving a
// player in tests: a recording client, a map-backed game façade and
// simple creatures.
package playertest

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/core/clock"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
)

// Epoch is the start time of every manual clock handed out here.
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// DataDir is the bundled YAML table directory.
func DataDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "data", "yaml")
}

// Tables loads the bundled tables once per test.
func Tables(t testing.TB) *data.Tables {
	t.Helper()
	tables, err := data.LoadDir(DataDir())
	require.NoError(t, err)
	return tables
}

// World bundles an Env with its fakes.
type World struct {
	Env   *player.Env
	Clock *clock.Manual
	Game  *Game
	Cfg   *config.Config
}

// NewWorld builds an Env over the bundled tables, a manual clock and a fake
// game. Options run against the config before the Env is built.
func NewWorld(t testing.TB, opts ...func(*config.Config)) *World {
	t.Helper()
	cfg := config.Defaults()
	for _, o := range opts {
		o(cfg)
	}
	clk := clock.NewManual(Epoch)
	env := player.NewEnv(cfg, Tables(t), clk, zap.NewNop())
	g := NewGame()
	env.Game = g
	return &World{Env: env, Clock: clk, Game: g, Cfg: cfg}
}

// Advance moves the clock and runs the scheduler tasks that became due.
func (w *World) Advance(d time.Duration) {
	w.Clock.Advance(d)
	w.Env.Sched.Tick()
}

// Snapshot returns a level 8 knight standing on pos.
func Snapshot(guid uint32, name string, pos geo.Position) *player.Snapshot {
	return &player.Snapshot{
		GUID:       guid,
		AccountID:  guid,
		Name:       name,
		Sex:        data.SexMale,
		Vocation:   4,
		Position:   pos,
		Temple:     geo.Position{X: 100, Y: 100, Z: 7},
		Level:      8,
		Experience: player.ExpForLevel(8),
		Health:     185,
		HealthMax:  185,
		Mana:       90,
		ManaMax:    90,
		Capacity:   47000,
		Soul:       100,
		Stamina:    player.MaxStamina,
		Outfit:     player.Outfit{LookType: 128},
	}
}

// NewPlayer creates a player from snap, registers it with the fake game
// and binds a recording client.
func (w *World) NewPlayer(snap *player.Snapshot) (*player.Player, *Client) {
	p := player.New(w.Env, snap.GUID, snap)
	c := &Client{}
	p.SetClient(c)
	w.Game.AddPlayer(p)
	return p, c
}
