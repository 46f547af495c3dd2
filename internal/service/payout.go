package service

import (
	"context"
	"sync"

	"rps_arena/internal/domain"
)

// Payout moves staked funds to an account. Implementations must treat a
// repeated ref as already paid.
type Payout interface {
	Pay(ctx context.Context, account string, amount uint64, ref string) error
}

// PayoutHistory lists the ledger entries credited to an account, newest first.
type PayoutHistory interface {
	GetTransactionHistory(ctx context.Context, account string, limit int) ([]*domain.Transaction, error)
}

var _ PayoutHistory = (*BalanceService)(nil)

// PayoutRecord is one request seen by MemoryPayout.
type PayoutRecord struct {
	Account string
	Amount  uint64
	Ref     string
}

// MemoryPayout records payouts in memory. Used when no database is configured and in tests.
type MemoryPayout struct {
	mu       sync.Mutex
	payments []PayoutRecord
	seen     map[string]struct{}
}

func NewMemoryPayout() *MemoryPayout {
	return &MemoryPayout{seen: make(map[string]struct{})}
}

func (p *MemoryPayout) Pay(ctx context.Context, account string, amount uint64, ref string) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[ref]; ok {
		return nil
	}
	p.seen[ref] = struct{}{}
	p.payments = append(p.payments, PayoutRecord{Account: account, Amount: amount, Ref: ref})
	return nil
}

// Payments returns a copy of every recorded payout in order.
func (p *MemoryPayout) Payments() []PayoutRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PayoutRecord(nil), p.payments...)
}
