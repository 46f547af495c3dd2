// Command ws_smoke plays one full game against a running server over HTTP
// while watching the /ws event stream, and prints every event it receives.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"rps_arena/internal/game"
	"rps_arena/internal/logger"
	"rps_arena/internal/service"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "http://127.0.0.1:" + port + "/api/v1"

	service.InitJWT(secret)
	tokenA := mustToken("smoke-a")
	tokenB := mustToken("smoke-b")

	pin := game.NewPin()
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s&pin=%s", port, tokenA, pin), nil)
	if err != nil {
		logger.Fatal("dial ws", "error", err)
	}
	defer conn.Close()

	rawA, commitA := game.Commit(game.Rock, "smoke-a-nonce")
	rawB, commitB := game.Commit(game.Scissors, "smoke-b-nonce")

	post(base+"/games", tokenA, map[string]any{"id": pin, "stake": 10})
	post(base+"/games/"+pin+"/join", tokenB, map[string]any{"stake": 10})
	post(base+"/games/"+pin+"/play", tokenA, map[string]any{"commitment": commitA})
	post(base+"/games/"+pin+"/play", tokenB, map[string]any{"commitment": commitB})
	post(base+"/games/"+pin+"/reveal", tokenA, map[string]any{"move": rawA})
	post(base+"/games/"+pin+"/reveal", tokenB, map[string]any{"move": rawB})

	// ready + create_game, join_game, ready_for_reveal, winner_decided
	for i := 0; i < 5; i++ {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("ws read", "error", err)
			break
		}
		fmt.Println(string(msg))
	}

	logger.Info("smoke test finished", "pin", pin)
}

func mustToken(account string) string {
	token, err := service.GenerateJWT(account, time.Hour)
	if err != nil {
		logger.Fatal("generate token", "account", account, "error", err)
	}
	return token
}

func post(url, token string, body any) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		logger.Fatal("build request", "url", url, "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request failed", "url", url, "error", err)
	}
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		logger.Fatal("unexpected status", "url", url, "status", res.StatusCode, "body", string(out))
	}
	logger.Info("ok", "url", url, "status", res.StatusCode)
}
