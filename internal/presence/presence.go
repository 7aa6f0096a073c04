// Package presence shares which players are online across server
// processes through Redis, and fans VIP status changes out over pub/sub.
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/config"
)

// StatusChange is the message published when a player logs in or out.
type StatusChange struct {
	GUID   uint32 `json:"guid"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
	Server string `json:"server"`
}

// Store keeps an online hash (guid -> server) and a status channel under
// a key prefix.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
	server string
	log    *zap.Logger
}

func New(rdb redis.UniversalClient, prefix, server string, log *zap.Logger) *Store {
	return &Store{rdb: rdb, prefix: prefix, server: server, log: log}
}

// Dial connects to cfg.Addr and verifies the connection.
func Dial(ctx context.Context, cfg config.RedisConfig, server string, log *zap.Logger) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("presence: redis addr is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return New(rdb, cfg.KeyPrefix, server, log), nil
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) onlineKey() string { return s.prefix + "online" }

func (s *Store) channel() string { return s.prefix + "vip" }

// SetOnline marks the player online on this server and announces it.
func (s *Store) SetOnline(ctx context.Context, guid uint32, name string) error {
	if err := s.rdb.HSet(ctx, s.onlineKey(), strconv.FormatUint(uint64(guid), 10), s.server).Err(); err != nil {
		return fmt.Errorf("set %d online: %w", guid, err)
	}
	return s.publish(ctx, StatusChange{GUID: guid, Name: name, Online: true, Server: s.server})
}

// SetOffline clears the online mark and announces it.
func (s *Store) SetOffline(ctx context.Context, guid uint32, name string) error {
	if err := s.rdb.HDel(ctx, s.onlineKey(), strconv.FormatUint(uint64(guid), 10)).Err(); err != nil {
		return fmt.Errorf("set %d offline: %w", guid, err)
	}
	return s.publish(ctx, StatusChange{GUID: guid, Name: name, Online: false, Server: s.server})
}

func (s *Store) publish(ctx context.Context, msg StatusChange) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.rdb.Publish(ctx, s.channel(), b).Err(); err != nil {
		return fmt.Errorf("publish status of %d: %w", msg.GUID, err)
	}
	return nil
}

func (s *Store) IsOnline(ctx context.Context, guid uint32) (bool, error) {
	ok, err := s.rdb.HExists(ctx, s.onlineKey(), strconv.FormatUint(uint64(guid), 10)).Result()
	if err != nil {
		return false, fmt.Errorf("check %d online: %w", guid, err)
	}
	return ok, nil
}

// Online returns every online guid with the server it is on.
func (s *Store) Online(ctx context.Context) (map[uint32]string, error) {
	all, err := s.rdb.HGetAll(ctx, s.onlineKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list online: %w", err)
	}
	out := make(map[uint32]string, len(all))
	for k, server := range all {
		guid, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			s.log.Warn("bad online key", zap.String("key", k))
			continue
		}
		out[uint32(guid)] = server
	}
	return out, nil
}

// ClearServer removes the online marks this server left behind, used at
// boot after a crash.
func (s *Store) ClearServer(ctx context.Context) (int, error) {
	all, err := s.Online(ctx)
	if err != nil {
		return 0, err
	}
	var stale []string
	for guid, server := range all {
		if server == s.server {
			stale = append(stale, strconv.FormatUint(uint64(guid), 10))
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.rdb.HDel(ctx, s.onlineKey(), stale...).Err(); err != nil {
		return 0, fmt.Errorf("clear server %s: %w", s.server, err)
	}
	return len(stale), nil
}

// Subscribe delivers status changes published by other servers until ctx
// is done. The returned channel is closed when the subscription ends.
func (s *Store) Subscribe(ctx context.Context) (<-chan StatusChange, error) {
	sub := s.rdb.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel(), err)
	}

	out := make(chan StatusChange, 64)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var sc StatusChange
				if err := json.Unmarshal([]byte(m.Payload), &sc); err != nil {
					s.log.Warn("bad status message", zap.String("payload", m.Payload), zap.Error(err))
					continue
				}
				if sc.Server == s.server {
					continue
				}
				select {
				case out <- sc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
