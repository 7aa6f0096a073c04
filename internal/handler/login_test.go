package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/handler"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
)

func TestHandleVersion_Accepted(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)

	handler.HandleVersion(sess, versionPacket(packet.ProtocolVersion), f.Deps)

	assert.Equal(t, packet.StateVersionOK, sess.State())
	assert.Empty(t, drain(sess))
}

func TestHandleVersion_Rejected(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)

	handler.HandleVersion(sess, versionPacket(1098), f.Deps)

	assert.Equal(t, packet.StateDisconnecting, sess.State())
	assert.Equal(t, []byte{packet.SLoginError}, opcodes(drain(sess)))
}

func TestHandleEnterWorld_PlacesPlayer(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	sess := f.session(t)
	handler.HandleVersion(sess, versionPacket(packet.ProtocolVersion), f.Deps)

	handler.HandleEnterWorld(sess, enterPacket(1, "alice"), f.Deps)

	require.Equal(t, packet.StateInWorld, sess.State())
	p := f.State.PlayerByGUID(1)
	require.NotNil(t, p)
	assert.Same(t, p, sess.Player)
	assert.Equal(t, uint32(1), sess.AccountID)
	assert.Equal(t, pos(150, 150), p.Position())
	assert.Same(t, sess, p.Client())
	assert.Equal(t, "Alice", f.Presence.online[1])

	ops := opcodes(drain(sess))
	require.NotEmpty(t, ops)
	assert.Equal(t, packet.SLoginOK, ops[0])
	assert.Contains(t, ops, packet.SStats)
	assert.Contains(t, ops, packet.SSkills)
}

func TestHandleEnterWorld_UnknownCharacter(t *testing.T) {
	f := newFixture(t)
	sess := f.session(t)

	handler.HandleEnterWorld(sess, enterPacket(1, "Nobody"), f.Deps)

	assert.Nil(t, sess.Player)
	assert.Equal(t, packet.StateDisconnecting, sess.State())
	assert.Equal(t, []byte{packet.SLoginError}, opcodes(drain(sess)))
}

func TestHandleEnterWorld_AccountMismatch(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	sess := f.session(t)

	handler.HandleEnterWorld(sess, enterPacket(2, "Alice"), f.Deps)

	assert.Nil(t, f.State.PlayerByGUID(1))
	assert.Equal(t, []byte{packet.SLoginError}, opcodes(drain(sess)))
}

func TestHandleEnterWorld_AlreadyOnline(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	_, first := f.enter(t, 1, "Alice")
	sess := f.session(t)

	handler.HandleEnterWorld(sess, enterPacket(1, "Alice"), f.Deps)

	pkts := drain(sess)
	require.Len(t, pkts, 1)
	r := packet.NewReader(pkts[0])
	assert.Equal(t, packet.SLoginError, r.Opcode())
	assert.Equal(t, "You are already logged in.", r.ReadS())
	assert.Same(t, first, f.State.PlayerByGUID(1))
}

func TestHandleEnterWorld_AppliesGuildMembership(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	g, err := f.State.Guilds.Add(7, "Red Rose", "")
	require.NoError(t, err)
	f.Loader.memberships[1] = &persist.Membership{GuildID: 7, Rank: "Leader", Nick: "Boss"}

	_, p := f.enter(t, 1, "Alice")

	require.NotNil(t, p.Guild())
	assert.Equal(t, uint32(7), p.Guild().ID())
	assert.Equal(t, "Leader", p.GuildRank())
	assert.Equal(t, "Boss", p.GuildNick())
	assert.Equal(t, []*player.Player{p}, g.OnlineMembers())
}

func TestHandleEnterWorld_SendsVIPList(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	f.character(2, "Bob", pos(152, 150))
	f.character(3, "Carol", pos(154, 150))
	f.Loader.vip["alice"] = []player.VIPEntry{{GUID: 2, Name: "Bob"}, {GUID: 3, Name: "Carol"}}
	f.Presence.online[3] = "Carol"
	f.enter(t, 2, "Bob")

	sess := f.session(t)
	handler.HandleVersion(sess, versionPacket(packet.ProtocolVersion), f.Deps)
	handler.HandleEnterWorld(sess, enterPacket(1, "Alice"), f.Deps)

	status := map[uint32]byte{}
	for _, pkt := range drain(sess) {
		if pkt[0] != packet.SVIP {
			continue
		}
		r := packet.NewReader(pkt)
		guid := r.ReadD()
		r.ReadS()
		r.ReadS()
		r.ReadD()
		r.ReadBool()
		status[guid] = r.ReadC()
	}
	assert.Equal(t, map[uint32]byte{2: byte(player.VIPOnline), 3: byte(player.VIPOnline)}, status)
}

func TestRegisterAll_GatesByState(t *testing.T) {
	f := newFixture(t)
	f.character(1, "Alice", pos(150, 150))
	reg := packet.NewRegistry(zap.NewNop())
	handler.RegisterAll(reg, f.Deps)
	sess := f.session(t)

	assert.Error(t, reg.Dispatch(sess, sess.State(), []byte{packet.CMove, 2}))

	v := packet.NewWriterWithOpcode(packet.CVersion)
	v.WriteH(packet.ProtocolVersion)
	require.NoError(t, reg.Dispatch(sess, sess.State(), v.Bytes()))
	e := packet.NewWriterWithOpcode(packet.CEnterWorld)
	e.WriteD(1)
	e.WriteS("Alice")
	require.NoError(t, reg.Dispatch(sess, sess.State(), e.Bytes()))
	require.NoError(t, reg.Dispatch(sess, sess.State(), []byte{packet.CMove, 2}))

	assert.Equal(t, pos(151, 150), sess.Player.Position())
}
