package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/player"
)

// DefaultSaveRetries is how many times a save is attempted before giving up.
const DefaultSaveRetries = 3

// Saver writes players through a player.Store, retrying failed saves.
// Every save gets a job id so the log lines of one attempt chain can be
// correlated.
type Saver struct {
	store   player.Store
	log     *zap.Logger
	retries int
	timeout time.Duration
}

func NewSaver(store player.Store, timeout time.Duration, log *zap.Logger) *Saver {
	return &Saver{store: store, log: log, retries: DefaultSaveRetries, timeout: timeout}
}

// Save persists p, trying up to the retry limit. The final failure is
// logged as a warning and returned.
func (s *Saver) Save(ctx context.Context, p *player.Player) error {
	job := uuid.NewString()
	log := s.log.With(zap.String("job", job), zap.String("name", p.Name()), zap.Uint32("guid", p.GUID()))

	var (
		err      error
		attempts int
	)
	for attempts < s.retries {
		attempts++
		if err = s.saveOnce(ctx, p); err == nil {
			if attempts > 1 {
				log.Info("player saved after retry", zap.Int("attempt", attempts))
			}
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		log.Debug("save attempt failed", zap.Int("attempt", attempts), zap.Error(err))
	}
	log.Warn("error while saving player", zap.Int("attempts", attempts), zap.Error(err))
	return fmt.Errorf("save player %s: %w", p.Name(), err)
}

func (s *Saver) saveOnce(ctx context.Context, p *player.Player) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.store.SavePlayer(ctx, p)
}

// SetOnline records the online flag, logging failures.
func (s *Saver) SetOnline(ctx context.Context, p *player.Player, online bool) {
	if err := s.store.UpdateOnlineStatus(ctx, p.GUID(), online); err != nil {
		s.log.Error("error while updating online status",
			zap.String("name", p.Name()), zap.Bool("online", online), zap.Error(err))
	}
}
