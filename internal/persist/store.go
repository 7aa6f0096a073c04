package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/player"
)

// Store is the Postgres-backed player.Store. It also loads players for
// the login path.
type Store struct {
	db      *DB
	Players *PlayerRepo
	Items   *ItemRepo
	VIP     *VIPRepo
	Deaths  *DeathRepo
	Guilds  *GuildRepo
	log     *zap.Logger
}

func NewStore(db *DB, log *zap.Logger) *Store {
	return &Store{
		db:      db,
		Players: NewPlayerRepo(db),
		Items:   NewItemRepo(db),
		VIP:     NewVIPRepo(db),
		Deaths:  NewDeathRepo(db),
		Guilds:  NewGuildRepo(db),
		log:     log,
	}
}

// LoadPlayer reads the full snapshot of the named player together with
// the VIP list of its account.
func (s *Store) LoadPlayer(ctx context.Context, name string) (*player.Snapshot, []player.VIPEntry, error) {
	row, err := s.Players.LoadByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if row == nil {
		return nil, nil, fmt.Errorf("load player %q: %w", name, ErrPlayerNotFound)
	}
	snap, err := row.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	items, err := s.Items.LoadByPlayer(ctx, snap.GUID)
	if err != nil {
		return nil, nil, err
	}
	Unflatten(snap, items)

	vip, err := s.VIP.List(ctx, snap.AccountID)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range vip {
		snap.VIP = append(snap.VIP, e.GUID)
	}
	return snap, vip, nil
}

// SavePlayer snapshots p and writes it. Call it from the game loop.
func (s *Store) SavePlayer(ctx context.Context, p *player.Player) error {
	return s.SaveSnapshot(ctx, p.Snapshot())
}

// SaveSnapshot writes the player row and replaces its items in one
// transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap *player.Snapshot) error {
	row, err := ToRow(snap)
	if err != nil {
		return err
	}
	items := Flatten(snap)
	return s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.Players.Save(ctx, tx, row); err != nil {
			return err
		}
		return s.Items.Save(ctx, tx, snap.GUID, items)
	})
}

func (s *Store) UpdateOnlineStatus(ctx context.Context, guid uint32, online bool) error {
	if err := s.Players.SetOnline(ctx, guid, online); err != nil {
		return fmt.Errorf("update online status of %d: %w", guid, err)
	}
	return nil
}

func (s *Store) AddVIPEntry(ctx context.Context, accountID uint32, e player.VIPEntry) error {
	return s.VIP.Add(ctx, accountID, e)
}

func (s *Store) EditVIPEntry(ctx context.Context, accountID uint32, e player.VIPEntry) error {
	return s.VIP.Edit(ctx, accountID, e)
}

func (s *Store) RemoveVIPEntry(ctx context.Context, accountID, guid uint32) error {
	return s.VIP.Remove(ctx, accountID, guid)
}

// GUIDByName resolves a player name for VIP lists.
func (s *Store) GUIDByName(ctx context.Context, name string) (uint32, string, error) {
	return s.Players.GUIDByName(ctx, name)
}

// MembershipOf returns the guild membership of guid, or nil.
func (s *Store) MembershipOf(ctx context.Context, guid uint32) (*Membership, error) {
	return s.Guilds.MembershipOf(ctx, guid)
}

// RecordDeaths appends deaths to the history, logging instead of failing.
func (s *Store) RecordDeaths(ctx context.Context, deaths []DeathEntry) {
	if err := s.Deaths.WriteBatch(ctx, deaths); err != nil {
		s.log.Error("error while recording deaths", zap.Int("count", len(deaths)), zap.Error(err))
	}
}
