package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/playerd/internal/condition"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/player"
)

// ErrPlayerNotFound is returned when no player matches a name or guid.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerRow mirrors one row of the players table joined with its group.
type PlayerRow struct {
	GUID                 int32
	AccountID            int32
	Name                 string
	GroupID              int16
	GroupName            string
	GroupAccess          bool
	GroupFlags           int64
	GroupMaxDepotItems   int32
	GroupMaxVIPEntries   int32
	Sex                  int16
	Vocation             int16
	PosX, PosY           int32
	PosZ                 int16
	TempleX, TempleY     int32
	TempleZ              int16
	Level                int32
	Experience           int64
	MagLevel             int32
	ManaSpent            int64
	Health, HealthMax    int32
	Mana, ManaMax        int32
	Soul                 int16
	Capacity             int32
	PremiumDays          int16
	Stamina              int16
	Skull                int16
	SkullTicks           int64
	OfflineTrainingTime  int32
	OfflineTrainingSkill int16
	LastLogin            int64
	LastLogout           int64
	Online               bool

	Outfit      []byte
	Skills      []byte
	Blessings   []byte
	UnjustKills []byte
	Storage     []byte
	Spells      []byte
	Conditions  []byte
	Prey        []byte
	TaskHunting []byte
	Wheel       []byte
}

// wheelState is the JSON document stored in players.wheel.
type wheelState struct {
	Stages    map[player.WheelStage]uint8 `json:"stages,omitempty"`
	Instants  []player.WheelInstant       `json:"instants,omitempty"`
	Resists   map[data.CombatType]int32   `json:"resists,omitempty"`
	GiftHeal  int32                       `json:"gift_heal"`
	GiftTotal int32                       `json:"gift_total"`
	GiftLeft  int32                       `json:"gift_left"`
}

const playerColumns = `p.guid, p.account_id, p.name,
		p.group_id, g.name, g.access, g.flags, g.max_depot_items, g.max_vip_entries,
		p.sex, p.vocation, p.pos_x, p.pos_y, p.pos_z, p.temple_x, p.temple_y, p.temple_z,
		p.level, p.experience, p.mag_level, p.mana_spent,
		p.health, p.health_max, p.mana, p.mana_max, p.soul, p.capacity,
		p.premium_days, p.stamina, p.skull, p.skull_ticks,
		p.offline_training_time, p.offline_training_skill,
		p.last_login, p.last_logout, p.online,
		p.outfit, p.skills, p.blessings, p.unjust_kills, p.storage, p.spells,
		p.conditions, p.prey, p.task_hunting, p.wheel`

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func scanPlayer(row pgx.Row) (*PlayerRow, error) {
	var r PlayerRow
	err := row.Scan(
		&r.GUID, &r.AccountID, &r.Name,
		&r.GroupID, &r.GroupName, &r.GroupAccess, &r.GroupFlags, &r.GroupMaxDepotItems, &r.GroupMaxVIPEntries,
		&r.Sex, &r.Vocation, &r.PosX, &r.PosY, &r.PosZ, &r.TempleX, &r.TempleY, &r.TempleZ,
		&r.Level, &r.Experience, &r.MagLevel, &r.ManaSpent,
		&r.Health, &r.HealthMax, &r.Mana, &r.ManaMax, &r.Soul, &r.Capacity,
		&r.PremiumDays, &r.Stamina, &r.Skull, &r.SkullTicks,
		&r.OfflineTrainingTime, &r.OfflineTrainingSkill,
		&r.LastLogin, &r.LastLogout, &r.Online,
		&r.Outfit, &r.Skills, &r.Blessings, &r.UnjustKills, &r.Storage, &r.Spells,
		&r.Conditions, &r.Prey, &r.TaskHunting, &r.Wheel,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadByName finds a player by name, ignoring case. Returns (nil, nil)
// when no player has that name.
func (r *PlayerRepo) LoadByName(ctx context.Context, name string) (*PlayerRow, error) {
	row, err := scanPlayer(r.db.Pool.QueryRow(ctx,
		`SELECT `+playerColumns+`
		 FROM players p JOIN player_groups g ON g.id = p.group_id
		 WHERE lower(p.name) = lower($1)`, name,
	))
	if err != nil {
		return nil, fmt.Errorf("load player %q: %w", name, err)
	}
	return row, nil
}

func (r *PlayerRepo) LoadByGUID(ctx context.Context, guid uint32) (*PlayerRow, error) {
	row, err := scanPlayer(r.db.Pool.QueryRow(ctx,
		`SELECT `+playerColumns+`
		 FROM players p JOIN player_groups g ON g.id = p.group_id
		 WHERE p.guid = $1`, int32(guid),
	))
	if err != nil {
		return nil, fmt.Errorf("load player %d: %w", guid, err)
	}
	return row, nil
}

// Create inserts a fresh player and returns its guid.
func (r *PlayerRepo) Create(ctx context.Context, accountID uint32, name string, vocation uint16, pos geo.Position) (uint32, error) {
	var guid int32
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO players (account_id, name, vocation, pos_x, pos_y, pos_z, temple_x, temple_y, temple_z)
		 VALUES ($1, $2, $3, $4, $5, $6, $4, $5, $6)
		 RETURNING guid`,
		int32(accountID), name, int16(vocation), int32(pos.X), int32(pos.Y), int16(pos.Z),
	).Scan(&guid)
	if err != nil {
		return 0, fmt.Errorf("create player %q: %w", name, err)
	}
	return uint32(guid), nil
}

// NameExists reports whether a player with this name exists, ignoring case.
func (r *PlayerRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM players WHERE lower(name) = lower($1))`, name,
	).Scan(&exists)
	return exists, err
}

// Save writes every column of the player row inside tx.
func (r *PlayerRepo) Save(ctx context.Context, tx pgx.Tx, row *PlayerRow) error {
	tag, err := tx.Exec(ctx,
		`UPDATE players SET
			group_id = $2, sex = $3, vocation = $4,
			pos_x = $5, pos_y = $6, pos_z = $7, temple_x = $8, temple_y = $9, temple_z = $10,
			level = $11, experience = $12, mag_level = $13, mana_spent = $14,
			health = $15, health_max = $16, mana = $17, mana_max = $18, soul = $19, capacity = $20,
			premium_days = $21, stamina = $22, skull = $23, skull_ticks = $24,
			offline_training_time = $25, offline_training_skill = $26,
			last_login = $27, last_logout = $28,
			outfit = $29, skills = $30, blessings = $31, unjust_kills = $32, storage = $33,
			spells = $34, conditions = $35, prey = $36, task_hunting = $37, wheel = $38
		 WHERE guid = $1`,
		row.GUID,
		row.GroupID, row.Sex, row.Vocation,
		row.PosX, row.PosY, row.PosZ, row.TempleX, row.TempleY, row.TempleZ,
		row.Level, row.Experience, row.MagLevel, row.ManaSpent,
		row.Health, row.HealthMax, row.Mana, row.ManaMax, row.Soul, row.Capacity,
		row.PremiumDays, row.Stamina, row.Skull, row.SkullTicks,
		row.OfflineTrainingTime, row.OfflineTrainingSkill,
		row.LastLogin, row.LastLogout,
		string(row.Outfit), string(row.Skills), string(row.Blessings), string(row.UnjustKills), string(row.Storage),
		string(row.Spells), string(row.Conditions), string(row.Prey), string(row.TaskHunting), string(row.Wheel),
	)
	if err != nil {
		return fmt.Errorf("save player %d: %w", row.GUID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save player %d: %w", row.GUID, ErrPlayerNotFound)
	}
	return nil
}

func (r *PlayerRepo) SetOnline(ctx context.Context, guid uint32, online bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE players SET online = $2 WHERE guid = $1`, int32(guid), online,
	)
	return err
}

// ClearOnline resets every online flag, used at boot after a crash.
func (r *PlayerRepo) ClearOnline(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE players SET online = FALSE WHERE online`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// NameByGUID returns the player name, or "" when the guid is unknown.
func (r *PlayerRepo) NameByGUID(ctx context.Context, guid uint32) (string, error) {
	var name string
	err := r.db.Pool.QueryRow(ctx, `SELECT name FROM players WHERE guid = $1`, int32(guid)).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return name, err
}

// GUIDByName resolves a player name case-insensitively. It returns 0 when
// no player has the name.
func (r *PlayerRepo) GUIDByName(ctx context.Context, name string) (uint32, string, error) {
	var (
		guid  int32
		exact string
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT guid, name FROM players WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&guid, &exact)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return uint32(guid), exact, nil
}

// ToRow converts a snapshot into its table row, encoding the nested state
// as JSON documents.
func ToRow(s *player.Snapshot) (*PlayerRow, error) {
	row := &PlayerRow{
		GUID:                 int32(s.GUID),
		AccountID:            int32(s.AccountID),
		Name:                 s.Name,
		GroupID:              1,
		Sex:                  int16(s.Sex),
		Vocation:             int16(s.Vocation),
		PosX:                 int32(s.Position.X),
		PosY:                 int32(s.Position.Y),
		PosZ:                 int16(s.Position.Z),
		TempleX:              int32(s.Temple.X),
		TempleY:              int32(s.Temple.Y),
		TempleZ:              int16(s.Temple.Z),
		Level:                int32(s.Level),
		Experience:           int64(s.Experience),
		MagLevel:             int32(s.MagLevel),
		ManaSpent:            int64(s.ManaSpent),
		Health:               s.Health,
		HealthMax:            s.HealthMax,
		Mana:                 s.Mana,
		ManaMax:              s.ManaMax,
		Soul:                 int16(s.Soul),
		Capacity:             int32(s.Capacity),
		PremiumDays:          int16(s.PremiumDays),
		Stamina:              int16(s.Stamina),
		Skull:                int16(s.Skull),
		SkullTicks:           s.SkullTicks,
		OfflineTrainingTime:  s.OfflineTrainingTime,
		OfflineTrainingSkill: int16(s.OfflineTrainingSkill),
		LastLogin:            s.LastLogin,
		LastLogout:           s.LastLogout,
	}
	if g := s.Group; g != nil {
		row.GroupID = int16(g.ID)
		row.GroupName = g.Name
		row.GroupAccess = g.Access
		row.GroupFlags = int64(g.Flags)
		row.GroupMaxDepotItems = int32(g.MaxDepotItems)
		row.GroupMaxVIPEntries = int32(g.MaxVIPEntries)
	}

	wheel := wheelState{
		Stages:    s.WheelStages,
		Instants:  s.WheelInstants,
		Resists:   s.WheelResists,
		GiftHeal:  s.GiftOfLifeHeal,
		GiftTotal: s.GiftOfLifeTotal,
		GiftLeft:  s.GiftOfLifeLeft,
	}
	docs := []struct {
		dst *[]byte
		v   any
		def string
	}{
		{&row.Outfit, s.Outfit, "{}"},
		{&row.Skills, s.Skills, "[]"},
		{&row.Blessings, s.Blessings, "[]"},
		{&row.UnjustKills, s.UnjustifiedKills, "[]"},
		{&row.Storage, s.Storage, "{}"},
		{&row.Spells, s.LearnedSpells, "[]"},
		{&row.Conditions, s.Conditions, "[]"},
		{&row.Prey, s.Prey, "[]"},
		{&row.TaskHunting, s.TaskHunting, "[]"},
		{&row.Wheel, wheel, "{}"},
	}
	for _, d := range docs {
		b, err := json.Marshal(d.v)
		if err != nil {
			return nil, fmt.Errorf("encode player %d: %w", s.GUID, err)
		}
		if string(b) == "null" {
			b = []byte(d.def)
		}
		*d.dst = b
	}
	return row, nil
}

// Snapshot decodes the row back into the state a player is created from.
// Items and VIP entries are filled in by the Store.
func (row *PlayerRow) Snapshot() (*player.Snapshot, error) {
	s := &player.Snapshot{
		GUID:      uint32(row.GUID),
		AccountID: uint32(row.AccountID),
		Name:      row.Name,
		Group: &player.Group{
			ID:            uint16(row.GroupID),
			Name:          row.GroupName,
			Access:        row.GroupAccess,
			Flags:         player.Flag(row.GroupFlags),
			MaxDepotItems: uint32(row.GroupMaxDepotItems),
			MaxVIPEntries: uint32(row.GroupMaxVIPEntries),
		},
		Sex:                  data.Sex(row.Sex),
		Vocation:             uint16(row.Vocation),
		Position:             geo.Position{X: uint16(row.PosX), Y: uint16(row.PosY), Z: uint8(row.PosZ)},
		Temple:               geo.Position{X: uint16(row.TempleX), Y: uint16(row.TempleY), Z: uint8(row.TempleZ)},
		Level:                uint32(row.Level),
		Experience:           uint64(row.Experience),
		MagLevel:             uint32(row.MagLevel),
		ManaSpent:            uint64(row.ManaSpent),
		Health:               row.Health,
		HealthMax:            row.HealthMax,
		Mana:                 row.Mana,
		ManaMax:              row.ManaMax,
		Soul:                 uint8(row.Soul),
		Capacity:             uint32(row.Capacity),
		PremiumDays:          uint16(row.PremiumDays),
		Stamina:              uint16(row.Stamina),
		Skull:                player.Skull(row.Skull),
		SkullTicks:           row.SkullTicks,
		OfflineTrainingTime:  row.OfflineTrainingTime,
		OfflineTrainingSkill: int8(row.OfflineTrainingSkill),
		LastLogin:            row.LastLogin,
		LastLogout:           row.LastLogout,
	}

	var (
		wheel      wheelState
		conditions []*condition.Condition
	)
	docs := []struct {
		src []byte
		v   any
	}{
		{row.Outfit, &s.Outfit},
		{row.Skills, &s.Skills},
		{row.Blessings, &s.Blessings},
		{row.UnjustKills, &s.UnjustifiedKills},
		{row.Storage, &s.Storage},
		{row.Spells, &s.LearnedSpells},
		{row.Conditions, &conditions},
		{row.Prey, &s.Prey},
		{row.TaskHunting, &s.TaskHunting},
		{row.Wheel, &wheel},
	}
	for _, d := range docs {
		if len(d.src) == 0 {
			continue
		}
		if err := json.Unmarshal(d.src, d.v); err != nil {
			return nil, fmt.Errorf("decode player %d: %w", row.GUID, err)
		}
	}
	for _, c := range conditions {
		if c != nil {
			s.Conditions = append(s.Conditions, c)
		}
	}
	s.WheelStages = wheel.Stages
	s.WheelInstants = wheel.Instants
	s.WheelResists = wheel.Resists
	s.GiftOfLifeHeal = wheel.GiftHeal
	s.GiftOfLifeTotal = wheel.GiftTotal
	s.GiftOfLifeLeft = wheel.GiftLeft
	return s, nil
}
