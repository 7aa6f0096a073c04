package presence_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/presence"
)

type StoreSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	store *presence.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.store = presence.New(s.rdb, "test:", "alpha", zap.NewNop())
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	_ = s.rdb.Close()
	s.mr.Close()
}

func (s *StoreSuite) other(server string) *presence.Store {
	rdb := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { _ = rdb.Close() })
	return presence.New(rdb, "test:", server, zap.NewNop())
}

func (s *StoreSuite) TestSetOnline_MarksHash() {
	s.Require().NoError(s.store.SetOnline(s.ctx, 7, "Knight"))

	s.Equal("alpha", s.mr.HGet("test:online", "7"))
	online, err := s.store.IsOnline(s.ctx, 7)
	s.Require().NoError(err)
	s.True(online)
}

func (s *StoreSuite) TestSetOffline_ClearsHash() {
	s.Require().NoError(s.store.SetOnline(s.ctx, 7, "Knight"))
	s.Require().NoError(s.store.SetOffline(s.ctx, 7, "Knight"))

	online, err := s.store.IsOnline(s.ctx, 7)
	s.Require().NoError(err)
	s.False(online)
}

func (s *StoreSuite) TestOnline_ListsServers() {
	s.Require().NoError(s.store.SetOnline(s.ctx, 1, "A"))
	s.Require().NoError(s.other("beta").SetOnline(s.ctx, 2, "B"))
	s.mr.HSet("test:online", "junk", "alpha")

	all, err := s.store.Online(s.ctx)

	s.Require().NoError(err)
	s.Equal(map[uint32]string{1: "alpha", 2: "beta"}, all)
}

func (s *StoreSuite) TestClearServer_OnlyOwnEntries() {
	s.Require().NoError(s.store.SetOnline(s.ctx, 1, "A"))
	s.Require().NoError(s.store.SetOnline(s.ctx, 3, "C"))
	s.Require().NoError(s.other("beta").SetOnline(s.ctx, 2, "B"))

	n, err := s.store.ClearServer(s.ctx)

	s.Require().NoError(err)
	s.Equal(2, n)
	all, err := s.store.Online(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[uint32]string{2: "beta"}, all)
}

func (s *StoreSuite) TestSubscribe_SkipsOwnServer() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	changes, err := s.store.Subscribe(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.store.SetOnline(s.ctx, 1, "Local"))
	s.Require().NoError(s.other("beta").SetOnline(s.ctx, 2, "Remote"))

	select {
	case sc := <-changes:
		s.Equal(presence.StatusChange{GUID: 2, Name: "Remote", Online: true, Server: "beta"}, sc)
	case <-time.After(2 * time.Second):
		s.Fail("no status change received")
	}
}

func (s *StoreSuite) TestSubscribe_ClosesOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	changes, err := s.store.Subscribe(ctx)
	s.Require().NoError(err)

	cancel()

	s.Eventually(func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
