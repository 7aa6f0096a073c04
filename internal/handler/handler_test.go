package handler_test

import (
	"context"
	"fmt"
	stdnet "net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/geo"
	"github.com/l1jgo/playerd/internal/handler"
	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/player/playertest"
	"github.com/l1jgo/playerd/internal/world"
)

type loader struct {
	players     map[string]*player.Snapshot
	vip         map[string][]player.VIPEntry
	memberships map[uint32]*persist.Membership
}

func (l *loader) LoadPlayer(_ context.Context, name string) (*player.Snapshot, []player.VIPEntry, error) {
	snap, ok := l.players[strings.ToLower(name)]
	if !ok {
		return nil, nil, fmt.Errorf("load player %q: %w", name, persist.ErrPlayerNotFound)
	}
	cp := *snap
	return &cp, l.vip[strings.ToLower(name)], nil
}

func (l *loader) GUIDByName(_ context.Context, name string) (uint32, string, error) {
	if snap, ok := l.players[strings.ToLower(name)]; ok {
		return snap.GUID, snap.Name, nil
	}
	return 0, "", nil
}

func (l *loader) MembershipOf(_ context.Context, guid uint32) (*persist.Membership, error) {
	return l.memberships[guid], nil
}

type presence struct {
	online map[uint32]string
}

func (p *presence) SetOnline(_ context.Context, guid uint32, name string) error {
	p.online[guid] = name
	return nil
}

func (p *presence) IsOnline(_ context.Context, guid uint32) (bool, error) {
	_, ok := p.online[guid]
	return ok, nil
}

type fixture struct {
	*playertest.World
	State    *world.State
	Loader   *loader
	Presence *presence
	Deps     *handler.Deps
	nextSess uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := playertest.NewWorld(t)
	s := world.NewState(w.Env.Items, w.Env.Tables.Map, zap.NewNop())
	s.Parties.Configure(w.Clock, int64(w.Cfg.Game.PzLocked))
	w.Env.Game = s

	l := &loader{
		players:     make(map[string]*player.Snapshot),
		vip:         make(map[string][]player.VIPEntry),
		memberships: make(map[uint32]*persist.Membership),
	}
	pr := &presence{online: make(map[uint32]string)}
	return &fixture{
		World:    w,
		State:    s,
		Loader:   l,
		Presence: pr,
		Deps: &handler.Deps{
			Config:   w.Cfg,
			Log:      zap.NewNop(),
			World:    s,
			Env:      w.Env,
			Players:  l,
			Presence: pr,
		},
	}
}

func (f *fixture) character(guid uint32, name string, pos geo.Position) {
	f.Loader.players[strings.ToLower(name)] = playertest.Snapshot(guid, name, pos)
}

// session returns an unstarted session whose packets stay in OutQueue.
func (f *fixture) session(t *testing.T) *net.Session {
	t.Helper()
	server, client := stdnet.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	f.nextSess++
	return net.NewSession(server, f.nextSess, net.SessionOptions{InQueueSize: 8, OutQueueSize: 4096}, zap.NewNop())
}

// enter runs the version and enter-world handlers for name.
func (f *fixture) enter(t *testing.T, guid uint32, name string) (*net.Session, *player.Player) {
	t.Helper()
	sess := f.session(t)
	handler.HandleVersion(sess, versionPacket(packet.ProtocolVersion), f.Deps)
	handler.HandleEnterWorld(sess, enterPacket(guid, name), f.Deps)
	require.Equal(t, packet.StateInWorld, sess.State())
	require.NotNil(t, sess.Player)
	drain(sess)
	return sess, sess.Player
}

func versionPacket(v uint16) *packet.Reader {
	w := packet.NewWriterWithOpcode(packet.CVersion)
	w.WriteH(v)
	return packet.NewReader(w.Bytes())
}

func enterPacket(account uint32, name string) *packet.Reader {
	w := packet.NewWriterWithOpcode(packet.CEnterWorld)
	w.WriteD(account)
	w.WriteS(name)
	return packet.NewReader(w.Bytes())
}

func reader(op byte, fn func(w *packet.Writer)) *packet.Reader {
	w := packet.NewWriterWithOpcode(op)
	if fn != nil {
		fn(w)
	}
	return packet.NewReader(w.Bytes())
}

// drain flushes the session and returns the packets it sent.
func drain(sess *net.Session) [][]byte {
	sess.FlushOutput()
	var out [][]byte
	for {
		select {
		case data := <-sess.OutQueue:
			if data != nil {
				out = append(out, data)
			}
		default:
			return out
		}
	}
}

func opcodes(pkts [][]byte) []byte {
	out := make([]byte, 0, len(pkts))
	for _, p := range pkts {
		out = append(out, p[0])
	}
	return out
}

func textMessages(pkts [][]byte) []string {
	var out []string
	for _, p := range pkts {
		if p[0] != packet.STextMessage {
			continue
		}
		r := packet.NewReader(p)
		r.ReadC()
		out = append(out, r.ReadS())
	}
	return out
}

func pos(x, y uint16) geo.Position { return geo.Position{X: x, Y: y, Z: 7} }
