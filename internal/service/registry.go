package service

import (
	"context"
	"time"

	"rps_arena/internal/events"
	"rps_arena/internal/game"
	"rps_arena/internal/repository"
)

// Registry owns every match keyed by pin, the set of matches still open for
// joining and the per-account participation sets. Matches are never deleted.
type Registry struct {
	store repository.MatchStore
	sink  events.Sink
	now   func() time.Time
}

func NewRegistry(store repository.MatchStore, sink events.Sink) *Registry {
	return &Registry{
		store: store,
		sink:  sink,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a new open match owned by creator.
func (r *Registry) Create(ctx context.Context, id, creator string, stake uint64) (*game.Match, error) {
	if id == "" {
		return nil, game.InvalidArgument("pin is required")
	}
	if creator == "" {
		return nil, game.InvalidArgument("account is required")
	}

	m := game.NewMatch(id, creator, stake)
	m.CreatedAt = r.now()
	m.UpdatedAt = m.CreatedAt
	if err := r.store.Insert(ctx, m); err != nil {
		return nil, err
	}

	r.sink.Notify(ctx, events.GameCreated{Pin: id, Stake: stake})
	return m, nil
}

func (r *Registry) Get(ctx context.Context, id string) (*game.Match, error) {
	if id == "" {
		return nil, game.InvalidArgument("pin is required")
	}
	return r.store.Get(ctx, id)
}

// ListOpen returns every match still waiting for an opponent, oldest first.
func (r *Registry) ListOpen(ctx context.Context) ([]*game.Match, error) {
	return r.store.ListOpen(ctx)
}

// ListByAccount returns the matches account takes part in. An account with
// no matches gets an empty slice.
func (r *Registry) ListByAccount(ctx context.Context, account string) ([]*game.Match, error) {
	if account == "" {
		return nil, game.InvalidArgument("account is required")
	}
	return r.store.ListByAccount(ctx, account)
}

// Save overwrites the stored record after a transition.
func (r *Registry) Save(ctx context.Context, m *game.Match) error {
	m.UpdatedAt = r.now()
	return r.store.Save(ctx, m)
}

// Join persists a match that just received its second player. The record,
// the open set and the joiner's participation change together.
func (r *Registry) Join(ctx context.Context, m *game.Match) error {
	m.UpdatedAt = r.now()
	return r.store.Join(ctx, m)
}
