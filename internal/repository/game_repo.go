package repository

import (
	"context"
	"errors"
	"fmt"

	"rps_arena/internal/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository is the PostgreSQL MatchStore. Open status lives in the
// is_open column; participation lives in match_participants.
type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `pin, player_one, player_two, stake, commitment_one, commitment_two,
	reveal_one, reveal_two, winner, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*game.Match, error) {
	var (
		m     game.Match
		stake int64
	)
	err := row.Scan(&m.ID, &m.PlayerOne, &m.PlayerTwo, &stake, &m.CommitmentOne, &m.CommitmentTwo,
		&m.RevealOne, &m.RevealTwo, &m.Winner, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Stake = uint64(stake)
	return &m, nil
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*game.Match, error) {
	m, err := scanMatch(r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE pin = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, game.ErrNotFound
		}
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return m, nil
}

func (r *MatchRepository) Insert(ctx context.Context, m *game.Match) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`INSERT INTO matches (pin, player_one, player_two, stake, commitment_one, commitment_two,
		                      reveal_one, reveal_two, winner, is_open, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, $11)
		 ON CONFLICT (pin) DO NOTHING`,
		m.ID, m.PlayerOne, m.PlayerTwo, int64(m.Stake), m.CommitmentOne, m.CommitmentTwo,
		m.RevealOne, m.RevealTwo, string(m.Winner), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrDuplicateID
	}

	if err := addParticipant(ctx, tx, m.PlayerOne, m.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MatchRepository) Join(ctx context.Context, m *game.Match) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateMatch(ctx, tx, m, false); err != nil {
		return err
	}
	if err := addParticipant(ctx, tx, m.PlayerTwo, m.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MatchRepository) Save(ctx context.Context, m *game.Match) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := updateMatch(ctx, tx, m, m.Open()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MatchRepository) ListOpen(ctx context.Context) ([]*game.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE is_open ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *MatchRepository) ListByAccount(ctx context.Context, account string) ([]*game.Match, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.pin, m.player_one, m.player_two, m.stake, m.commitment_one, m.commitment_two,
		        m.reveal_one, m.reveal_two, m.winner, m.created_at, m.updated_at
		 FROM match_participants p
		 JOIN matches m ON m.pin = p.pin
		 WHERE p.account = $1
		 ORDER BY p.seq`,
		account,
	)
	if err != nil {
		return nil, fmt.Errorf("list matches of %s: %w", account, err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func updateMatch(ctx context.Context, tx pgx.Tx, m *game.Match, open bool) error {
	tag, err := tx.Exec(ctx,
		`UPDATE matches
		 SET player_two = $2, commitment_one = $3, commitment_two = $4,
		     reveal_one = $5, reveal_two = $6, winner = $7, is_open = $8, updated_at = $9
		 WHERE pin = $1`,
		m.ID, m.PlayerTwo, m.CommitmentOne, m.CommitmentTwo,
		m.RevealOne, m.RevealTwo, string(m.Winner), open, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return game.ErrNotFound
	}
	return nil
}

func addParticipant(ctx context.Context, tx pgx.Tx, account, pin string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO match_participants (account, pin) VALUES ($1, $2)
		 ON CONFLICT (account, pin) DO NOTHING`,
		account, pin,
	)
	if err != nil {
		return fmt.Errorf("add participant %s to %s: %w", account, pin, err)
	}
	return nil
}

func scanMatches(rows pgx.Rows) ([]*game.Match, error) {
	res := make([]*game.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
