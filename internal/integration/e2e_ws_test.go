package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rps_arena/internal/events"
	"rps_arena/internal/game"
	httpserver "rps_arena/internal/http"
	"rps_arena/internal/http/handlers"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full stack on Postgres: HTTP calls drive a game, the ledger pays the
// winner, the audit trail and the websocket stream see every event.
func TestE2E_WS_Match(t *testing.T) {
	db := connect(t)
	gin.SetMode(gin.TestMode)
	service.InitJWT("e2e-secret")

	ledger := service.NewBalanceService(db)
	audit := service.NewAuditService(repository.NewAuditRepository(db))
	hub := ws.NewHub()
	defer hub.Close()
	sinks := events.Multi{hub, audit}

	store, err := repository.NewCachedMatchStore(repository.NewMatchRepository(db), 16)
	require.NoError(t, err)
	games := service.NewGameService(service.NewRegistry(store, sinks), ledger, sinks)

	h := handlers.NewHandlerWithAudit(games, audit)
	h.Payouts = ledger

	r := gin.New()
	httpserver.RegisterRoutes(r, httpserver.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler("e2e", map[string]handlers.Check{"database": db.Ping}),
		Hub:     hub,
		Limits: httpserver.Limits{
			APIRateLimit:   1000,
			APIRateWindow:  time.Minute,
			GameRateLimit:  1000,
			GameRateWindow: time.Minute,
		},
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	pin := game.NewPin()
	alice, bob := "alice-"+pin, "bob-"+pin
	tokenA, err := service.GenerateJWT(alice, time.Hour)
	require.NoError(t, err)
	tokenB, err := service.GenerateJWT(bob, time.Hour)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tokenA + "&pin=" + pin
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ready ws.ReplyMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, ws.MsgReady, ready.Type)

	post := func(path, token string, body any) int {
		b, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1"+path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}

	rawA, commitA := game.Commit(game.Paper, "a")
	rawB, commitB := game.Commit(game.Scissors, "b")

	require.Equal(t, http.StatusCreated, post("/games", tokenA, map[string]any{"id": pin, "stake": 25}))
	require.Equal(t, http.StatusOK, post("/games/"+pin+"/join", tokenB, map[string]any{"stake": 25}))
	require.Equal(t, http.StatusOK, post("/games/"+pin+"/play", tokenA, map[string]any{"commitment": commitA}))
	require.Equal(t, http.StatusOK, post("/games/"+pin+"/play", tokenB, map[string]any{"commitment": commitB}))
	require.Equal(t, http.StatusOK, post("/games/"+pin+"/reveal", tokenA, map[string]any{"move": rawA}))
	require.Equal(t, http.StatusOK, post("/games/"+pin+"/reveal", tokenB, map[string]any{"move": rawB}))

	var streamed []string
	for i := 0; i < 4; i++ {
		var env map[string]any
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		require.NoError(t, conn.ReadJSON(&env))
		streamed = append(streamed, env["event"].(string))
	}
	assert.Equal(t, []string{"create_game", "join_game", "ready_for_reveal", "winner_decided"}, streamed)

	ctx := context.Background()
	balance, err := ledger.GetBalance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	res, err := http.Get(srv.URL + "/api/v1/accounts/" + bob + "/payouts")
	require.NoError(t, err)
	var payouts struct {
		Payouts []struct {
			Ref    string `json:"ref"`
			Amount int64  `json:"amount"`
		} `json:"payouts"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payouts))
	res.Body.Close()
	require.Len(t, payouts.Payouts, 1)
	assert.Equal(t, pin, payouts.Payouts[0].Ref)
	assert.Equal(t, int64(50), payouts.Payouts[0].Amount)

	trail, err := audit.GetGameHistory(ctx, pin)
	require.NoError(t, err)
	assert.Len(t, trail, 4)

	stored, err := games.GetGame(ctx, pin)
	require.NoError(t, err)
	assert.Equal(t, game.WinnerTwo, stored.Winner)
	assert.Equal(t, game.PhaseResolved, stored.Phase())
}
