package persist

import (
	"context"
	"fmt"
)

// DeathEntry is one row of a player's death history.
type DeathEntry struct {
	PlayerGUID uint32
	Time       int64 // unix seconds
	Level      uint32
	KilledBy   string
	PvP        bool
	LostExp    uint64
}

type DeathRepo struct {
	db *DB
}

func NewDeathRepo(db *DB) *DeathRepo {
	return &DeathRepo{db: db}
}

// WriteBatch atomically writes a batch of deaths in a single transaction.
func (r *DeathRepo) WriteBatch(ctx context.Context, entries []DeathEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deaths begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO player_deaths (player_guid, time, level, killed_by, pvp, lost_exp)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			int32(e.PlayerGUID), e.Time, int32(e.Level), e.KilledBy, e.PvP, int64(e.LostExp),
		); err != nil {
			return fmt.Errorf("deaths insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Recent returns the latest deaths of a player, newest first.
func (r *DeathRepo) Recent(ctx context.Context, guid uint32, limit int) ([]DeathEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT time, level, killed_by, pvp, lost_exp
		 FROM player_deaths WHERE player_guid = $1
		 ORDER BY time DESC, id DESC LIMIT $2`, int32(guid), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent deaths of %d: %w", guid, err)
	}
	defer rows.Close()

	var result []DeathEntry
	for rows.Next() {
		var (
			e       DeathEntry
			level   int32
			lostExp int64
		)
		if err := rows.Scan(&e.Time, &level, &e.KilledBy, &e.PvP, &lostExp); err != nil {
			return nil, err
		}
		e.PlayerGUID = guid
		e.Level = uint32(level)
		e.LostExp = uint64(lostExp)
		result = append(result, e)
	}
	return result, rows.Err()
}
