package handlers

import (
	"rps_arena/internal/http/middleware"
	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games *service.GameService
	// nil unless a database is configured
	Audit   *service.AuditService
	Payouts service.PayoutHistory
}

func NewHandler(games *service.GameService) *Handler {
	return &Handler{Games: games}
}

// NewHandlerWithAudit also serves the persisted audit trail.
func NewHandlerWithAudit(games *service.GameService, audit *service.AuditService) *Handler {
	return &Handler{Games: games, Audit: audit}
}

// getAccount returns the account the JWT middleware stored on the context
func getAccount(c *gin.Context) (string, bool) {
	return middleware.Account(c)
}
