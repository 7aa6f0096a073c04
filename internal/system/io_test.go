package system_test

import (
	stdnet "net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/system"
)

func newSession(t *testing.T, id uint64) *net.Session {
	t.Helper()
	server, client := stdnet.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return net.NewSession(server, id, net.SessionOptions{InQueueSize: 8, OutQueueSize: 16}, zap.NewNop())
}

// bind puts a player in the world behind sess.
func (f *fixture) bind(t *testing.T, sess *net.Session, guid uint32, name string, x, y uint16) *player.Player {
	t.Helper()
	p, _ := f.enter(t, guid, name, pos(x, y))
	sess.Bind(p, f.State, f.Env.Items)
	p.SetClient(sess)
	sess.SetState(packet.StateInWorld)
	return p
}

func TestInputSystem_Update_DispatchesQueuedPackets(t *testing.T) {
	f := newFixture(t)
	store := net.NewSessionStore()
	sess := newSession(t, 1)
	store.Add(sess)

	reg := packet.NewRegistry(zap.NewNop())
	var got []byte
	reg.Register(0x42, []packet.SessionState{packet.StateHandshake}, func(_ any, r *packet.Reader) {
		got = append(got, r.ReadC())
	})
	sys := system.NewInputSystem(nil, reg, store, f.State, 2, zap.NewNop())

	sess.InQueue <- []byte{0x42, 1}
	sess.InQueue <- []byte{0x42, 2}
	sess.InQueue <- []byte{0x42, 3}
	sys.Update(0)
	assert.Equal(t, []byte{1, 2}, got)

	sys.Update(0)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 1, sys.SessionCount())
}

func TestInputSystem_Update_ClosedSessionLeavesWorld(t *testing.T) {
	f := newFixture(t)
	store := net.NewSessionStore()
	sess := newSession(t, 1)
	store.Add(sess)
	p := f.bind(t, sess, 1, "Alice", 150, 150)
	sys := system.NewInputSystem(nil, packet.NewRegistry(zap.NewNop()), store, f.State, 8, zap.NewNop())

	sess.Close()
	sys.Update(0)

	assert.Zero(t, store.Len())
	assert.True(t, p.IsRemoved())
	assert.Nil(t, f.State.PlayerByGUID(1))
	assert.Equal(t, []*player.Player{p}, f.State.TakeDepartures())
}

func TestInputSystem_Update_PlayerStaysWhereLogoutIsForbidden(t *testing.T) {
	f := newFixture(t)
	store := net.NewSessionStore()
	sess := newSession(t, 1)
	store.Add(sess)
	p := f.bind(t, sess, 1, "Alice", 210, 210)
	sys := system.NewInputSystem(nil, packet.NewRegistry(zap.NewNop()), store, f.State, 8, zap.NewNop())

	sess.Close()
	sys.Update(0)

	assert.Zero(t, store.Len())
	assert.False(t, p.IsRemoved())
	assert.False(t, p.IsOnline())
	assert.Same(t, p, f.State.PlayerByGUID(1))
	assert.Empty(t, f.State.TakeDepartures())
}

func TestOutputSystem_Update_FlushesSessions(t *testing.T) {
	store := net.NewSessionStore()
	a, b := newSession(t, 1), newSession(t, 2)
	store.Add(a)
	store.Add(b)
	a.Send([]byte{0x01, 0xAA})
	b.Send([]byte{0x02})
	b.Send([]byte{0x03})

	system.NewOutputSystem(store).Update(50 * time.Millisecond)

	require.Len(t, a.OutQueue, 1)
	require.Len(t, b.OutQueue, 2)
	assert.Equal(t, []byte{0x01, 0xAA}, <-a.OutQueue)
	assert.Equal(t, []byte{0x02}, <-b.OutQueue)
}
