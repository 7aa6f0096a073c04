// Package player is the server-side model of a connected human player:
// equipment and containers, combat math, progression, conditions, social
// state, Wheel of Destiny buffs and the per-tick session driver.
//
// Everything here runs on the game loop. Collaborators outside the package
// (world, protocol, scripting, persistence) are reached through the ports
// declared in ports.go and injected via Env.
package player

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/core/clock"
	"github.com/l1jgo/playerd/internal/core/event"
	"github.com/l1jgo/playerd/internal/core/sched"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/item"
)

// Env is the handle every player shares: configuration, static tables, the
// item arena and the world services.
type Env struct {
	Cfg    *config.Config
	Tables *data.Tables
	Items  *item.Store
	Clock  clock.Clock
	Sched  *sched.Scheduler
	Bus    *event.Bus
	Log    *zap.Logger

	Game    Game
	Hooks   Hooks
	Store   Store
	Weapons Weapons

	Rand *rand.Rand

	// MuteCounts holds repeated-offense severity per player guid.
	MuteCounts map[uint32]uint32
}

// NewEnv builds an Env with pass-through hooks. Game and Store must be set
// before players are created.
func NewEnv(cfg *config.Config, tables *data.Tables, clk clock.Clock, log *zap.Logger) *Env {
	return &Env{
		Cfg:        cfg,
		Tables:     tables,
		Items:      item.NewStore(tables.Items),
		Clock:      clk,
		Sched:      sched.New(clk),
		Bus:        event.NewBus(),
		Log:        log,
		Hooks:      NopHooks{},
		Weapons:    fistOnly{},
		Rand:       rand.New(rand.NewSource(clk.Now().UnixNano())),
		MuteCounts: make(map[uint32]uint32),
	}
}

func (e *Env) now() int64 { return clock.Millis(e.Clock) }

func (e *Env) thinkInterval() int64 {
	return e.Cfg.Network.ThinkEvery.Milliseconds()
}

func (e *Env) worldType() string { return e.Cfg.Game.WorldType }

func ms(n int64) time.Duration { return time.Duration(n) * time.Millisecond }
