package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rps_arena/internal/game"

	redis "github.com/redis/go-redis/v9"
)

// RedisMatchStore keeps matches as JSON strings. The open set and the
// per-account sets are sorted sets scored by a global sequence so listings
// come back in insertion order.
//
// key layout: <prefix>match:<pin>, <prefix>open, <prefix>account:<account>, <prefix>seq
type RedisMatchStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisMatchStore(rdb *redis.Client, prefix string) *RedisMatchStore {
	if prefix == "" {
		prefix = "rps:"
	}
	return &RedisMatchStore{rdb: rdb, prefix: prefix}
}

func (s *RedisMatchStore) matchKey(id string) string        { return s.prefix + "match:" + id }
func (s *RedisMatchStore) openKey() string                  { return s.prefix + "open" }
func (s *RedisMatchStore) accountKey(account string) string { return s.prefix + "account:" + account }
func (s *RedisMatchStore) seqKey() string                   { return s.prefix + "seq" }

func (s *RedisMatchStore) Get(ctx context.Context, id string) (*game.Match, error) {
	raw, err := s.rdb.Get(ctx, s.matchKey(id)).Bytes()
	if err == redis.Nil {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	var m game.Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", id, err)
	}
	return &m, nil
}

func (s *RedisMatchStore) Insert(ctx context.Context, m *game.Match) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	key := s.matchKey(m.ID)
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return game.ErrDuplicateID
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			pipe.ZAdd(ctx, s.openKey(), redis.Z{Score: float64(seq), Member: m.ID})
			pipe.ZAdd(ctx, s.accountKey(m.PlayerOne), redis.Z{Score: float64(seq), Member: m.ID})
			return nil
		})
		return err
	}, key)
	if errors.Is(err, game.ErrDuplicateID) {
		return err
	}
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

func (s *RedisMatchStore) Join(ctx context.Context, m *game.Match) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.matchKey(m.ID), raw, redis.KeepTTL)
		pipe.ZRem(ctx, s.openKey(), m.ID)
		pipe.ZAdd(ctx, s.accountKey(m.PlayerTwo), redis.Z{Score: float64(seq), Member: m.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("join match %s: %w", m.ID, err)
	}
	return nil
}

func (s *RedisMatchStore) Save(ctx context.Context, m *game.Match) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetXX(ctx, s.matchKey(m.ID), raw, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	if !ok {
		return game.ErrNotFound
	}
	return nil
}

func (s *RedisMatchStore) ListOpen(ctx context.Context) ([]*game.Match, error) {
	return s.listSet(ctx, s.openKey())
}

func (s *RedisMatchStore) ListByAccount(ctx context.Context, account string) ([]*game.Match, error) {
	return s.listSet(ctx, s.accountKey(account))
}

func (s *RedisMatchStore) listSet(ctx context.Context, setKey string) ([]*game.Match, error) {
	ids, err := s.rdb.ZRange(ctx, setKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", setKey, err)
	}
	res := make([]*game.Match, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.matchKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", setKey, err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var m game.Match
		if err := json.Unmarshal([]byte(str), &m); err != nil {
			return nil, fmt.Errorf("decode match %s: %w", ids[i], err)
		}
		res = append(res, &m)
	}
	return res, nil
}
