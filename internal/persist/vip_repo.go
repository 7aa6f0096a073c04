package persist

import (
	"context"
	"fmt"

	"github.com/l1jgo/playerd/internal/player"
)

type VIPRepo struct {
	db *DB
}

func NewVIPRepo(db *DB) *VIPRepo {
	return &VIPRepo{db: db}
}

// List returns the VIP list of an account with the current player names.
func (r *VIPRepo) List(ctx context.Context, accountID uint32) ([]player.VIPEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT v.player_guid, p.name, v.description, v.icon, v.notify
		 FROM account_vip v JOIN players p ON p.guid = v.player_guid
		 WHERE v.account_id = $1
		 ORDER BY p.name`, int32(accountID),
	)
	if err != nil {
		return nil, fmt.Errorf("list vip of account %d: %w", accountID, err)
	}
	defer rows.Close()

	var result []player.VIPEntry
	for rows.Next() {
		var (
			guid, icon int32
			e          player.VIPEntry
		)
		if err := rows.Scan(&guid, &e.Name, &e.Description, &icon, &e.Notify); err != nil {
			return nil, err
		}
		e.GUID = uint32(guid)
		e.Icon = uint32(icon)
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *VIPRepo) Add(ctx context.Context, accountID uint32, e player.VIPEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO account_vip (account_id, player_guid, description, icon, notify)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (account_id, player_guid) DO NOTHING`,
		int32(accountID), int32(e.GUID), e.Description, int32(e.Icon), e.Notify,
	)
	if err != nil {
		return fmt.Errorf("add vip %d to account %d: %w", e.GUID, accountID, err)
	}
	return nil
}

func (r *VIPRepo) Edit(ctx context.Context, accountID uint32, e player.VIPEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE account_vip SET description = $3, icon = $4, notify = $5
		 WHERE account_id = $1 AND player_guid = $2`,
		int32(accountID), int32(e.GUID), e.Description, int32(e.Icon), e.Notify,
	)
	if err != nil {
		return fmt.Errorf("edit vip %d of account %d: %w", e.GUID, accountID, err)
	}
	return nil
}

func (r *VIPRepo) Remove(ctx context.Context, accountID, guid uint32) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM account_vip WHERE account_id = $1 AND player_guid = $2`,
		int32(accountID), int32(guid),
	)
	if err != nil {
		return fmt.Errorf("remove vip %d from account %d: %w", guid, accountID, err)
	}
	return nil
}
