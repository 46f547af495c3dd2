package service

import (
	"context"
	"errors"
	"math"

	"rps_arena/internal/domain"
	"rps_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

// BalanceService is the ledger-backed Payout. Every credit is recorded in
// transactions under a unique ref, which makes Pay idempotent per ref.
type BalanceService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(db *pgxpool.Pool) *BalanceService {
	return &BalanceService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// GetBalance returns the account's current balance, zero for unknown accounts.
func (s *BalanceService) GetBalance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT amount FROM balances WHERE account = $1`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

// Pay credits amount to account once per ref.
func (s *BalanceService) Pay(ctx context.Context, account string, amount uint64, ref string) error {
	if amount == 0 || amount > math.MaxInt64 {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Record transaction first; a known ref means this payout already happened
	transaction := &domain.Transaction{
		Account: account,
		Type:    domain.TxTypePayout,
		Amount:  int64(amount),
		Ref:     ref,
		Meta:    map[string]interface{}{"match": ref},
	}
	created, err := s.transactionRepo.CreateWithTx(ctx, tx, transaction)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	// Credit
	_, err = tx.Exec(ctx,
		`INSERT INTO balances (account, amount) VALUES ($1, $2)
		 ON CONFLICT (account) DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = now()`,
		account, int64(amount),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetTransactionHistory returns the account's transaction history
func (s *BalanceService) GetTransactionHistory(ctx context.Context, account string, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByAccount(ctx, account, limit)
}
