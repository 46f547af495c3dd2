package service

import (
	"context"
	"encoding/json"

	"rps_arena/internal/domain"
	"rps_arena/internal/events"
	"rps_arena/internal/logger"
	"rps_arena/internal/repository"
)

// AuditStore persists and reads audit entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByPin(ctx context.Context, pin string) ([]*domain.AuditLog, error)
}

var _ AuditStore = (*repository.AuditRepository)(nil)

// AuditService keeps a durable trail of every game notification. It is an
// events.Sink, so it sees exactly what observers see.
type AuditService struct {
	repo AuditStore
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Notify records e. Failures are logged and never reach the game.
func (s *AuditService) Notify(ctx context.Context, e events.Event) {
	entry := &domain.AuditLog{
		Pin:     e.MatchID(),
		Account: accountOf(e),
		Action:  e.Name(),
		Details: detailsOf(e),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", entry.Action, "pin", entry.Pin)
	}
}

// GetGameHistory returns the trail of one match, oldest first
func (s *AuditService) GetGameHistory(ctx context.Context, pin string) ([]*domain.AuditLog, error) {
	return s.repo.GetByPin(ctx, pin)
}

func accountOf(e events.Event) string {
	switch ev := e.(type) {
	case events.GameJoined:
		return ev.Player
	case events.WinnerDecided:
		return ev.Account
	default:
		return ""
	}
}

func detailsOf(e events.Event) map[string]interface{} {
	details := make(map[string]interface{})
	b, err := json.Marshal(e)
	if err != nil {
		return details
	}
	_ = json.Unmarshal(b, &details)
	return details
}
