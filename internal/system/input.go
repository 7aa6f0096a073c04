package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/world"
)

// InputSystem drains packet queues from all sessions and dispatches them
// through the packet registry. Phase 0 (Input).
type InputSystem struct {
	netServer  *net.Server
	registry   *packet.Registry
	store      *net.SessionStore
	world      *world.State
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(netServer *net.Server, registry *packet.Registry, store *net.SessionStore, ws *world.State, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		netServer:  netServer,
		registry:   registry,
		store:      store,
		world:      ws,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	if s.netServer != nil {
		s.acceptNew()
		s.reapDead()
	}

	s.store.ForEach(func(sess *net.Session) {
		s.drain(sess)
		if sess.IsClosed() {
			sess.FlushOutput()
			s.handleDisconnect(sess)
			s.store.Remove(sess.ID)
		}
	})

	// Early flush so movement broadcasts reach the writers while the
	// remaining phases run.
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}

func (s *InputSystem) acceptNew() {
	for {
		select {
		case sess := <-s.netServer.NewSessions():
			s.store.Add(sess)
		default:
			return
		}
	}
}

func (s *InputSystem) reapDead() {
	for {
		select {
		case id := <-s.netServer.DeadSessions():
			if sess := s.store.Get(id); sess != nil {
				s.drain(sess)
				s.handleDisconnect(sess)
				s.store.Remove(id)
			}
		default:
			return
		}
	}
}

// drain dispatches up to maxPerTick queued packets of sess. Packets that
// arrived just before a disconnect are still handled.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("packet dispatch failed",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			return
		}
	}
}

// handleDisconnect detaches the player of a closed session. A player who
// may log out leaves the world at once; one who may not stays behind
// without a client until the ping timeout removes it.
func (s *InputSystem) handleDisconnect(sess *net.Session) {
	p := sess.Player
	if p == nil || p.IsRemoved() {
		return
	}
	sess.Player = nil
	p.SetClient(nil)
	if p.CanLogout() {
		s.world.RemoveCreature(p, true)
		return
	}
	s.log.Info("player stays after connection loss",
		zap.String("name", p.Name()),
		zap.Uint32("guid", p.GUID()),
	)
}

// SessionCount returns the current number of active sessions.
func (s *InputSystem) SessionCount() int {
	return s.store.Len()
}
