package repository

import (
	"context"

	"rps_arena/internal/game"

	lru "github.com/hashicorp/golang-lru"
)

// CachedMatchStore puts an LRU read cache in front of another MatchStore.
// Writes go to the backend first and refresh the cache only on success, so a
// failed write never leaves a cached value the backend does not have.
// Listings always hit the backend.
type CachedMatchStore struct {
	next  MatchStore
	cache *lru.Cache
}

func NewCachedMatchStore(next MatchStore, size int) (*CachedMatchStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedMatchStore{next: next, cache: cache}, nil
}

func (s *CachedMatchStore) Get(ctx context.Context, id string) (*game.Match, error) {
	if v, ok := s.cache.Get(id); ok {
		return v.(*game.Match).Clone(), nil
	}
	m, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, m.Clone())
	return m, nil
}

func (s *CachedMatchStore) Insert(ctx context.Context, m *game.Match) error {
	if err := s.next.Insert(ctx, m); err != nil {
		return err
	}
	s.cache.Add(m.ID, m.Clone())
	return nil
}

func (s *CachedMatchStore) Join(ctx context.Context, m *game.Match) error {
	return s.write(m, s.next.Join(ctx, m))
}

func (s *CachedMatchStore) Save(ctx context.Context, m *game.Match) error {
	return s.write(m, s.next.Save(ctx, m))
}

func (s *CachedMatchStore) write(m *game.Match, err error) error {
	if err != nil {
		s.cache.Remove(m.ID)
		return err
	}
	s.cache.Add(m.ID, m.Clone())
	return nil
}

func (s *CachedMatchStore) ListOpen(ctx context.Context) ([]*game.Match, error) {
	return s.next.ListOpen(ctx)
}

func (s *CachedMatchStore) ListByAccount(ctx context.Context, account string) ([]*game.Match, error) {
	return s.next.ListByAccount(ctx, account)
}
