package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"rps_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil || log.Details == nil {
		detailsJSON = []byte("{}")
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (pin, account, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, log.Pin, log.Account, log.Action, detailsJSON).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// GetByPin returns the audit trail of one match, oldest first
func (r *AuditRepository) GetByPin(ctx context.Context, pin string) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, pin, account, action, details, created_at
		FROM audit_logs
		WHERE pin = $1
		ORDER BY id
	`, pin)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// GetByAccount returns the most recent audit logs naming an account
func (r *AuditRepository) GetByAccount(ctx context.Context, account string, limit int) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, pin, account, action, details, created_at
		FROM audit_logs
		WHERE account = $1
		ORDER BY id DESC
		LIMIT $2
	`, account, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	logs := []*domain.AuditLog{}
	for rows.Next() {
		var log domain.AuditLog
		var detailsJSON []byte
		if err := rows.Scan(&log.ID, &log.Pin, &log.Account, &log.Action, &detailsJSON, &log.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
