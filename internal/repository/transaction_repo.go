package repository

import (
	"context"
	"encoding/json"
	"time"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByAccount returns recent transactions for an account
func (r *TransactionRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, account, type, amount, ref, meta, created_at
		 FROM transactions
		 WHERE account = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// CreateWithTx inserts a transaction using an existing database transaction.
// It reports false when a transaction with the same ref already exists.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, tx *domain.Transaction) (bool, error) {
	metaJSON, err := json.Marshal(tx.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	err = dbTx.QueryRow(ctx,
		`INSERT INTO transactions (account, type, amount, ref, meta)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ref) DO NOTHING
		 RETURNING id, created_at`,
		tx.Account, tx.Type, tx.Amount, tx.Ref, metaJSON,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Helper to scan rows into Transaction slice
func (r *TransactionRepository) scanRows(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction

	for rows.Next() {
		var (
			tx        domain.Transaction
			metaJSON  []byte
			createdAt time.Time
		)

		if err := rows.Scan(&tx.ID, &tx.Account, &tx.Type, &tx.Amount, &tx.Ref, &metaJSON, &createdAt); err != nil {
			return nil, err
		}

		tx.CreatedAt = createdAt
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &tx.Meta)
		}

		result = append(result, &tx)
	}

	return result, rows.Err()
}
