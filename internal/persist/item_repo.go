package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/playerd/internal/item"
	"github.com/l1jgo/playerd/internal/player"
)

// ItemKind tells which store a root item row belongs to.
type ItemKind int16

const (
	KindInventory ItemKind = iota
	KindDepot
	KindInbox
	KindReward
)

// ItemRow represents a persisted item. Roots have PID 0 and Slot is the
// body slot, depot id or reward id; children point at their container and
// Slot is their index inside it.
type ItemRow struct {
	SID            int32
	PID            int32
	Kind           ItemKind
	Slot           int32
	TypeID         int32
	Count          int32
	Charges        int64
	Date           int64
	OpenContainer  int16
	QuickLootFlags int64
	Imbuements     []item.ImbuementSlot
}

var itemColumns = []string{
	"player_guid", "sid", "pid", "kind", "slot", "type_id", "count",
	"charges", "date", "open_container", "quick_loot_flags", "imbuements",
}

type ItemRepo struct {
	db *DB
}

func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// LoadByPlayer returns all item rows of a player ordered by sid.
func (r *ItemRepo) LoadByPlayer(ctx context.Context, guid uint32) ([]ItemRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT sid, pid, kind, slot, type_id, count, charges, date, open_container, quick_loot_flags, imbuements
		 FROM player_items WHERE player_guid = $1 ORDER BY sid`, int32(guid),
	)
	if err != nil {
		return nil, fmt.Errorf("load items of %d: %w", guid, err)
	}
	defer rows.Close()

	var result []ItemRow
	for rows.Next() {
		var (
			it   ItemRow
			kind int16
			imbu []byte
		)
		if err := rows.Scan(
			&it.SID, &it.PID, &kind, &it.Slot, &it.TypeID, &it.Count,
			&it.Charges, &it.Date, &it.OpenContainer, &it.QuickLootFlags, &imbu,
		); err != nil {
			return nil, fmt.Errorf("scan item of %d: %w", guid, err)
		}
		it.Kind = ItemKind(kind)
		if len(imbu) > 0 {
			if err := json.Unmarshal(imbu, &it.Imbuements); err != nil {
				return nil, fmt.Errorf("decode imbuements of %d/%d: %w", guid, it.SID, err)
			}
		}
		if len(it.Imbuements) == 0 {
			it.Imbuements = nil
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// Save replaces all items of a player (delete + bulk copy) inside tx.
func (r *ItemRepo) Save(ctx context.Context, tx pgx.Tx, guid uint32, items []ItemRow) error {
	if _, err := tx.Exec(ctx, `DELETE FROM player_items WHERE player_guid = $1`, int32(guid)); err != nil {
		return fmt.Errorf("delete items of %d: %w", guid, err)
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(items))
	for _, it := range items {
		imbu := "[]"
		if len(it.Imbuements) > 0 {
			b, err := json.Marshal(it.Imbuements)
			if err != nil {
				return fmt.Errorf("encode imbuements of %d/%d: %w", guid, it.SID, err)
			}
			imbu = string(b)
		}
		rows = append(rows, []any{
			int32(guid), it.SID, it.PID, int16(it.Kind), it.Slot, it.TypeID, it.Count,
			it.Charges, it.Date, it.OpenContainer, it.QuickLootFlags, imbu,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"player_items"}, itemColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy items of %d: %w", guid, err)
	}
	return nil
}

// Flatten numbers every item of the snapshot depth-first and returns the
// rows in sid order. Parents always come before their children.
func Flatten(s *player.Snapshot) []ItemRow {
	var (
		out []ItemRow
		sid int32
	)
	var walk func(rec player.ItemRecord, pid int32, kind ItemKind, slot int32)
	walk = func(rec player.ItemRecord, pid int32, kind ItemKind, slot int32) {
		sid++
		self := sid
		out = append(out, ItemRow{
			SID:            self,
			PID:            pid,
			Kind:           kind,
			Slot:           slot,
			TypeID:         int32(rec.TypeID),
			Count:          int32(rec.Count),
			Charges:        int64(rec.Charges),
			Date:           rec.Date,
			OpenContainer:  int16(rec.OpenContainer),
			QuickLootFlags: int64(rec.QuickLootFlags),
			Imbuements:     rec.Imbuements,
		})
		for i, child := range rec.Children {
			walk(child, self, kind, int32(i))
		}
	}

	slots := make([]player.Slot, 0, len(s.Inventory))
	for slot := range s.Inventory {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	for _, slot := range slots {
		walk(s.Inventory[slot], 0, KindInventory, int32(slot))
	}
	for _, id := range sortedKeys(s.DepotChests) {
		for _, rec := range s.DepotChests[id] {
			walk(rec, 0, KindDepot, int32(id))
		}
	}
	for _, rec := range s.Inbox {
		walk(rec, 0, KindInbox, 0)
	}
	for _, id := range sortedKeys(s.Rewards) {
		for _, rec := range s.Rewards[id] {
			walk(rec, 0, KindReward, int32(id))
		}
	}
	return out
}

// Unflatten rebuilds the item trees of rows into s. Rows whose parent is
// missing are dropped along with their subtree.
func Unflatten(s *player.Snapshot, rows []ItemRow) {
	type node struct {
		row      ItemRow
		children []int32
	}
	nodes := make(map[int32]*node, len(rows))
	var roots []int32
	for _, r := range rows {
		nodes[r.SID] = &node{row: r}
	}
	for _, r := range rows {
		if r.PID == 0 {
			roots = append(roots, r.SID)
			continue
		}
		if parent, ok := nodes[r.PID]; ok {
			parent.children = append(parent.children, r.SID)
		}
	}

	var build func(sid int32) player.ItemRecord
	build = func(sid int32) player.ItemRecord {
		n := nodes[sid]
		sort.Slice(n.children, func(i, j int) bool {
			return nodes[n.children[i]].row.Slot < nodes[n.children[j]].row.Slot
		})
		rec := player.ItemRecord{
			TypeID:         uint16(n.row.TypeID),
			Count:          uint16(n.row.Count),
			Charges:        uint32(n.row.Charges),
			Date:           n.row.Date,
			OpenContainer:  uint8(n.row.OpenContainer),
			QuickLootFlags: uint32(n.row.QuickLootFlags),
			Imbuements:     n.row.Imbuements,
		}
		for _, c := range n.children {
			rec.Children = append(rec.Children, build(c))
		}
		return rec
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	for _, sid := range roots {
		n := nodes[sid]
		rec := build(sid)
		switch n.row.Kind {
		case KindInventory:
			if s.Inventory == nil {
				s.Inventory = make(map[player.Slot]player.ItemRecord)
			}
			s.Inventory[player.Slot(n.row.Slot)] = rec
		case KindDepot:
			if s.DepotChests == nil {
				s.DepotChests = make(map[uint32][]player.ItemRecord)
			}
			id := uint32(n.row.Slot)
			s.DepotChests[id] = append(s.DepotChests[id], rec)
		case KindInbox:
			s.Inbox = append(s.Inbox, rec)
		case KindReward:
			if s.Rewards == nil {
				s.Rewards = make(map[uint32][]player.ItemRecord)
			}
			id := uint32(n.row.Slot)
			s.Rewards[id] = append(s.Rewards[id], rec)
		}
	}
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
