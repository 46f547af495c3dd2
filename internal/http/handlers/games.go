package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rps_arena/internal/domain"
	"rps_arena/internal/game"
	"rps_arena/internal/logger"
	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	ID    string `json:"id"`
	Stake uint64 `json:"stake"`
}

type joinGameRequest struct {
	Stake uint64 `json:"stake"`
}

type playRequest struct {
	Commitment string `json:"commitment"`
}

type revealRequest struct {
	Move string `json:"move"`
}

// MatchResponse is the public view of a match.
type MatchResponse struct {
	*game.Match
	Phase game.Phase `json:"phase"`
	Open  bool       `json:"open"`
}

func toResponse(m *game.Match) MatchResponse {
	return MatchResponse{Match: m, Phase: m.Phase(), Open: m.Open()}
}

func toResponses(ms []*game.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toResponse(m))
	}
	return out
}

var statusByCode = map[string]int{
	"not_found":           http.StatusNotFound,
	"invalid_argument":    http.StatusBadRequest,
	"duplicate_id":        http.StatusConflict,
	"already_full":        http.StatusConflict,
	"already_played":      http.StatusConflict,
	"already_revealed":    http.StatusConflict,
	"already_resolved":    http.StatusConflict,
	"reveal_too_early":    http.StatusConflict,
	"self_play":           http.StatusUnprocessableEntity,
	"stake_mismatch":      http.StatusUnprocessableEntity,
	"commitment_mismatch": http.StatusUnprocessableEntity,
	"invalid_move":        http.StatusUnprocessableEntity,
	"not_a_participant":   http.StatusForbidden,
}

// writeError renders a service error as {"error": code, "message": text}.
// Typed errors add their details; an invalid move also carries the saved match.
func writeError(c *gin.Context, err error, m *game.Match) {
	code := game.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
		return
	}

	body := gin.H{"error": code, "message": err.Error()}

	var sm *game.StakeMismatchError
	if errors.As(err, &sm) {
		body["expected"] = sm.Expected
		body["actual"] = sm.Actual
	}
	var im *game.InvalidMoveError
	if errors.As(err, &im) {
		body["role"] = im.Role
		body["label"] = im.Label
		if m != nil {
			body["game"] = toResponse(m)
		}
	}

	c.JSON(status, body)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_argument", "message": "invalid request body"})
		return false
	}
	return true
}

func caller(c *gin.Context, stake uint64) (service.Caller, bool) {
	account, ok := getAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "account required"})
		return service.Caller{}, false
	}
	return service.Caller{Account: account, Stake: stake}, true
}

// CreateGame POST /games
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := caller(c, req.Stake)
	if !ok {
		return
	}

	m, err := h.Games.CreateGame(c.Request.Context(), who, req.ID)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, toResponse(m))
}

// JoinGame POST /games/:id/join
func (h *Handler) JoinGame(c *gin.Context) {
	var req joinGameRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := caller(c, req.Stake)
	if !ok {
		return
	}

	m, err := h.Games.JoinGame(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(m))
}

// ListOpenGames GET /games/open
func (h *Handler) ListOpenGames(c *gin.Context) {
	ms, err := h.Games.ListOpenGames(c.Request.Context())
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": toResponses(ms)})
}

// ListAccountGames GET /accounts/:account/games
func (h *Handler) ListAccountGames(c *gin.Context) {
	ms, err := h.Games.ListMyGames(c.Request.Context(), c.Param("account"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": toResponses(ms)})
}

// GetGame GET /games/:id
func (h *Handler) GetGame(c *gin.Context) {
	m, err := h.Games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(m))
}

// Play POST /games/:id/play
func (h *Handler) Play(c *gin.Context) {
	var req playRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := caller(c, 0)
	if !ok {
		return
	}

	m, err := h.Games.Play(c.Request.Context(), who, c.Param("id"), req.Commitment)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toResponse(m))
}

// Reveal POST /games/:id/reveal
func (h *Handler) Reveal(c *gin.Context) {
	var req revealRequest
	if !bindJSON(c, &req) {
		return
	}
	who, ok := caller(c, 0)
	if !ok {
		return
	}

	m, err := h.Games.Reveal(c.Request.Context(), who, c.Param("id"), req.Move)
	if err != nil {
		writeError(c, err, m)
		return
	}
	c.JSON(http.StatusOK, toResponse(m))
}

// NewPin GET /pins/new
func (h *Handler) NewPin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pin": game.NewPin()})
}

// GameLimits GET /games/limits
func (h *Handler) GameLimits(c *gin.Context) {
	limits := h.Games.GetLimits()
	c.JSON(http.StatusOK, gin.H{
		"min_stake": limits.MinStake,
		"max_stake": limits.MaxStake,
	})
}

// GameHistory GET /games/:id/history
func (h *Handler) GameHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Games.GetGame(c.Request.Context(), id); err != nil {
		writeError(c, err, nil)
		return
	}

	trail, err := h.Audit.GetGameHistory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": trail})
}

const (
	defaultPayoutLimit = 50
	maxPayoutLimit     = 100
)

// AccountPayouts GET /accounts/:account/payouts?limit=N
func (h *Handler) AccountPayouts(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		writeError(c, game.InvalidArgument("account is required"), nil)
		return
	}

	limit := defaultPayoutLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, game.InvalidArgument("limit must be a positive integer"), nil)
			return
		}
		limit = min(n, maxPayoutLimit)
	}

	txs, err := h.Payouts.GetTransactionHistory(c.Request.Context(), account, limit)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	c.JSON(http.StatusOK, gin.H{"payouts": txs})
}
