package player

import (
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/core/event"
)

// Reserved storage key ranges. Keys inside them are decoded into outfits,
// mounts and familiars instead of being stored as plain values. Range ends
// are inclusive.
const (
	StorageReservedStart  uint32 = 10000000
	StorageReservedSize   uint32 = 10000000
	StorageOutfitsStart          = StorageReservedStart + 1000
	StorageOutfitsSize    uint32 = 500
	StorageMountsStart           = StorageReservedStart + 2001
	StorageMountsSize     uint32 = 10
	StorageCurrentMount          = StorageMountsStart + 10
	StorageFamiliarsStart        = StorageReservedStart + 3000
	StorageFamiliarsSize  uint32 = 500
)

func inKeyRange(key, start, size uint32) bool {
	return key >= start && key <= start+size
}

// StorageValue returns the value stored under key. Missing keys read as
// -1.
func (p *Player) StorageValue(key uint32) (int32, bool) {
	v, ok := p.storage[key]
	if !ok {
		return -1, false
	}
	return v, true
}

// AddStorageValue stores value under key; -1 deletes the key. Updates
// are published to scripts and the event bus.
func (p *Player) AddStorageValue(key uint32, value int32) {
	p.setStorageValue(key, value, false)
}

func (p *Player) setStorageValue(key uint32, value int32, isLogin bool) {
	if inKeyRange(key, StorageReservedStart, StorageReservedSize) {
		switch {
		case inKeyRange(key, StorageOutfitsStart, StorageOutfitsSize):
			p.outfits = append(p.outfits, OutfitEntry{LookType: uint16(value >> 16), Addons: uint8(value & 0xFF)})
			return
		case inKeyRange(key, StorageMountsStart, StorageMountsSize):
			// mount buckets and the current mount are plain values
		case inKeyRange(key, StorageFamiliarsStart, StorageFamiliarsSize):
			p.familiars = append(p.familiars, uint16(value>>16))
			return
		default:
			p.env.Log.Warn("unknown reserved storage key",
				zap.Uint32("key", key),
				zap.String("name", p.name))
			return
		}
	}

	if value == -1 {
		delete(p.storage, key)
		return
	}
	old, hadOld := p.StorageValue(key)
	p.storage[key] = value
	if isLogin {
		return
	}
	p.env.Hooks.OnStorageUpdate(p, key, value, old, hadOld)
	event.Emit(p.env.Bus, event.StorageUpdated{
		PlayerID: p.guid,
		Key:      key,
		Value:    value,
		OldValue: old,
		HadOld:   hadOld,
	})
}

// reservedStorage encodes outfits and familiars back into their reserved
// key ranges for saving.
func (p *Player) reservedStorage() map[uint32]int32 {
	out := make(map[uint32]int32, len(p.outfits)+len(p.familiars))
	key := StorageOutfitsStart
	for _, o := range p.outfits {
		key++
		out[key] = int32(o.LookType)<<16 | int32(o.Addons)
	}
	key = StorageFamiliarsStart
	for _, f := range p.familiars {
		key++
		out[key] = int32(f) << 16
	}
	return out
}
