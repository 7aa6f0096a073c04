package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GuildRow represents a row from the guilds table.
type GuildRow struct {
	ID   uint32
	Name string
	MOTD string
}

// GuildWarRow is one pair of guilds at war, stored with GuildA < GuildB.
type GuildWarRow struct {
	GuildA uint32
	GuildB uint32
}

// Membership is the guild a player belongs to.
type Membership struct {
	GuildID uint32
	Rank    string
	Nick    string
}

// GuildRepo handles all guild-related database operations.
type GuildRepo struct {
	db *DB
}

func NewGuildRepo(db *DB) *GuildRepo {
	return &GuildRepo{db: db}
}

// LoadAll loads all guilds and the wars between them. Called at server
// startup.
func (r *GuildRepo) LoadAll(ctx context.Context) ([]GuildRow, []GuildWarRow, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, motd FROM guilds ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("load guilds: %w", err)
	}
	defer rows.Close()

	var guilds []GuildRow
	for rows.Next() {
		var (
			id int32
			g  GuildRow
		)
		if err := rows.Scan(&id, &g.Name, &g.MOTD); err != nil {
			return nil, nil, err
		}
		g.ID = uint32(id)
		guilds = append(guilds, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	warRows, err := r.db.Pool.Query(ctx, `SELECT guild_a, guild_b FROM guild_wars ORDER BY guild_a, guild_b`)
	if err != nil {
		return nil, nil, fmt.Errorf("load guild wars: %w", err)
	}
	defer warRows.Close()

	var wars []GuildWarRow
	for warRows.Next() {
		var a, b int32
		if err := warRows.Scan(&a, &b); err != nil {
			return nil, nil, err
		}
		wars = append(wars, GuildWarRow{GuildA: uint32(a), GuildB: uint32(b)})
	}
	return guilds, wars, warRows.Err()
}

// Create inserts a guild and returns its id.
func (r *GuildRepo) Create(ctx context.Context, name, motd string) (uint32, error) {
	var id int32
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO guilds (name, motd) VALUES ($1, $2) RETURNING id`, name, motd,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create guild %q: %w", name, err)
	}
	return uint32(id), nil
}

// MembershipOf returns the guild of a player, or nil when it has none.
func (r *GuildRepo) MembershipOf(ctx context.Context, guid uint32) (*Membership, error) {
	var (
		gid int32
		m   Membership
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT guild_id, rank, nick FROM guild_membership WHERE player_guid = $1`, int32(guid),
	).Scan(&gid, &m.Rank, &m.Nick)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("membership of %d: %w", guid, err)
	}
	m.GuildID = uint32(gid)
	return &m, nil
}

// SetMembership puts a player into a guild, replacing any previous one.
func (r *GuildRepo) SetMembership(ctx context.Context, guid uint32, m Membership) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO guild_membership (player_guid, guild_id, rank, nick)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (player_guid) DO UPDATE
		 SET guild_id = EXCLUDED.guild_id, rank = EXCLUDED.rank, nick = EXCLUDED.nick`,
		int32(guid), int32(m.GuildID), m.Rank, m.Nick,
	)
	if err != nil {
		return fmt.Errorf("set membership of %d: %w", guid, err)
	}
	return nil
}

// SetWar records or ends the war between two guilds.
func (r *GuildRepo) SetWar(ctx context.Context, a, b uint32, atWar bool) error {
	if a > b {
		a, b = b, a
	}
	var err error
	if atWar {
		_, err = r.db.Pool.Exec(ctx,
			`INSERT INTO guild_wars (guild_a, guild_b) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			int32(a), int32(b))
	} else {
		_, err = r.db.Pool.Exec(ctx,
			`DELETE FROM guild_wars WHERE guild_a = $1 AND guild_b = $2`, int32(a), int32(b))
	}
	if err != nil {
		return fmt.Errorf("set war %d/%d: %w", a, b, err)
	}
	return nil
}
