package domain

import "time"

// AuditLog is one persisted game notification.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	Pin       string                 `db:"pin" json:"pin"`
	Account   string                 `db:"account" json:"account,omitempty"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
