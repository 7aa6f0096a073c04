package system

import (
	"time"

	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/presence"
	"github.com/l1jgo/playerd/internal/world"
)

// maxRemotePerTick bounds how many remote status changes one tick applies.
const maxRemotePerTick = 256

// PresenceSystem applies login and logout announcements from other
// servers to the VIP lists of local players. Phase 0 (Input).
type PresenceSystem struct {
	world   *world.State
	changes <-chan presence.StatusChange
}

// NewPresenceSystem reads changes, typically from presence.Store.Subscribe.
func NewPresenceSystem(ws *world.State, changes <-chan presence.StatusChange) *PresenceSystem {
	return &PresenceSystem{world: ws, changes: changes}
}

func (s *PresenceSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *PresenceSystem) Update(_ time.Duration) {
	for i := 0; i < maxRemotePerTick; i++ {
		select {
		case sc, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.apply(sc)
		default:
			return
		}
	}
}

func (s *PresenceSystem) apply(sc presence.StatusChange) {
	status := player.VIPOffline
	if sc.Online {
		status = player.VIPOnline
	}
	for _, p := range s.world.Players() {
		if p.GUID() != sc.GUID {
			p.NotifyVIPStatus(sc.GUID, sc.Name, status, true)
		}
	}
}
