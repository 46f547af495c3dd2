package repository

import (
	"context"

	"rps_arena/internal/game"
)

// MatchStore persists matches together with the open set and the per-account
// participation sets. Insert and Join touch all three and must be atomic.
//
// Implementations return game.ErrNotFound and game.ErrDuplicateID for the
// corresponding conditions and never hand out pointers they keep.
type MatchStore interface {
	Get(ctx context.Context, id string) (*game.Match, error)
	// Insert stores a new match, marks it open and registers it for its creator.
	Insert(ctx context.Context, m *game.Match) error
	// Join stores a match that just received its second player, removes it
	// from the open set and registers it for the joiner.
	Join(ctx context.Context, m *game.Match) error
	// Save overwrites the record.
	Save(ctx context.Context, m *game.Match) error
	// ListOpen returns open matches, oldest first.
	ListOpen(ctx context.Context) ([]*game.Match, error)
	// ListByAccount returns the matches account plays in, oldest first.
	ListByAccount(ctx context.Context, account string) ([]*game.Match, error)
}
