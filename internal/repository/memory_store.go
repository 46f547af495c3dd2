package repository

import (
	"context"
	"sync"

	"rps_arena/internal/game"
)

// MemoryMatchStore keeps everything in process memory. Used when no database
// is configured and in tests.
type MemoryMatchStore struct {
	mu       sync.RWMutex
	matches  map[string]*game.Match
	open     []string
	accounts map[string][]string
}

func NewMemoryMatchStore() *MemoryMatchStore {
	return &MemoryMatchStore{
		matches:  make(map[string]*game.Match),
		accounts: make(map[string][]string),
	}
}

func (s *MemoryMatchStore) Get(ctx context.Context, id string) (*game.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryMatchStore) Insert(ctx context.Context, m *game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.ID]; ok {
		return game.ErrDuplicateID
	}
	s.matches[m.ID] = m.Clone()
	s.open = append(s.open, m.ID)
	s.addParticipant(m.PlayerOne, m.ID)
	return nil
}

func (s *MemoryMatchStore) Join(ctx context.Context, m *game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.ID]; !ok {
		return game.ErrNotFound
	}
	s.matches[m.ID] = m.Clone()
	for i, id := range s.open {
		if id == m.ID {
			s.open = append(s.open[:i], s.open[i+1:]...)
			break
		}
	}
	s.addParticipant(m.PlayerTwo, m.ID)
	return nil
}

func (s *MemoryMatchStore) Save(ctx context.Context, m *game.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.ID]; !ok {
		return game.ErrNotFound
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MemoryMatchStore) ListOpen(ctx context.Context) ([]*game.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.open), nil
}

func (s *MemoryMatchStore) ListByAccount(ctx context.Context, account string) ([]*game.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.accounts[account]), nil
}

func (s *MemoryMatchStore) addParticipant(account, id string) {
	for _, existing := range s.accounts[account] {
		if existing == id {
			return
		}
	}
	s.accounts[account] = append(s.accounts[account], id)
}

func (s *MemoryMatchStore) collect(ids []string) []*game.Match {
	res := make([]*game.Match, 0, len(ids))
	for _, id := range ids {
		res = append(res, s.matches[id].Clone())
	}
	return res
}
