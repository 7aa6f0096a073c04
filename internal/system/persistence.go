package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/core/event"
	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/world"
)

// PlayerSaver writes players with retries; persist.Saver implements it.
type PlayerSaver interface {
	Save(ctx context.Context, p *player.Player) error
	SetOnline(ctx context.Context, p *player.Player, online bool)
}

// DeathRecorder appends to the death history; persist.Store implements it.
type DeathRecorder interface {
	RecordDeaths(ctx context.Context, deaths []persist.DeathEntry)
}

// OfflineMarker clears the cross-server online mark; presence.Store
// implements it.
type OfflineMarker interface {
	SetOffline(ctx context.Context, guid uint32, name string) error
}

// PersistenceSystem saves players that left the world, auto-saves everyone
// online on an interval and records deaths. Phase 5 (Persist).
type PersistenceSystem struct {
	world    *world.State
	saver    PlayerSaver
	deaths   DeathRecorder
	presence OfflineMarker
	bus      *event.Bus
	log      *zap.Logger

	interval time.Duration
	elapsed  time.Duration
	pending  []persist.DeathEntry
}

// NewPersistenceSystem subscribes to player deaths on bus. deaths and
// presence may be nil; interval 0 disables auto-saves.
func NewPersistenceSystem(ws *world.State, saver PlayerSaver, deaths DeathRecorder, presence OfflineMarker, bus *event.Bus, interval time.Duration, log *zap.Logger) *PersistenceSystem {
	s := &PersistenceSystem{
		world:    ws,
		saver:    saver,
		deaths:   deaths,
		presence: presence,
		bus:      bus,
		log:      log,
		interval: interval,
	}
	event.Subscribe(bus, func(ev event.PlayerDied) {
		s.pending = append(s.pending, persist.DeathEntry{
			PlayerGUID: ev.PlayerID,
			Time:       ev.Time,
			Level:      ev.Level,
			KilledBy:   ev.KilledBy,
			PvP:        ev.PvPDeath,
			LostExp:    ev.LostExp,
		})
	})
	return s
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(dt time.Duration) {
	s.flushDeaths()
	s.saveDepartures()

	if s.interval <= 0 {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.saveOnline()
}

// SaveAllPlayers persists every online player and everyone who left.
// Called on shutdown.
func (s *PersistenceSystem) SaveAllPlayers() {
	s.flushDeaths()
	s.saveDepartures()
	s.saveOnline()
}

func (s *PersistenceSystem) saveOnline() {
	start := time.Now()
	saved := 0
	for _, p := range s.world.Players() {
		if err := s.saver.Save(context.Background(), p); err == nil {
			saved++
		}
	}
	if saved > 0 {
		s.log.Info("auto-save finished",
			zap.Int("players", saved),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// saveDepartures finishes the logout of every player removed from the
// world since the last tick: save, online flags, event and release.
func (s *PersistenceSystem) saveDepartures() {
	for _, p := range s.world.TakeDepartures() {
		ctx := context.Background()
		start := time.Now()
		err := s.saver.Save(ctx, p)
		s.saver.SetOnline(ctx, p, false)
		if s.presence != nil {
			if perr := s.presence.SetOffline(ctx, p.GUID(), p.Name()); perr != nil {
				s.log.Warn("presence offline failed", zap.String("name", p.Name()), zap.Error(perr))
			}
		}
		event.Emit(s.bus, event.PlayerLoggedOut{PlayerID: p.GUID(), Name: p.Name(), Saved: err == nil})
		s.log.Info("player logged out",
			zap.String("name", p.Name()),
			zap.Uint32("guid", p.GUID()),
			zap.Bool("saved", err == nil),
			zap.Duration("save", time.Since(start)),
		)
		p.Release()
	}
}

func (s *PersistenceSystem) flushDeaths() {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil
	if s.deaths != nil {
		s.deaths.RecordDeaths(context.Background(), batch)
	}
}
