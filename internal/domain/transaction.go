package domain

import "time"

// Transaction types written to the ledger.
const (
	TxTypePayout = "rps_payout"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	Account   string                 `db:"account" json:"account"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Ref       string                 `db:"ref" json:"ref"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
