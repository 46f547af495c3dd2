// Command token mints a bearer token for an account, for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rps_arena/internal/logger"
	"rps_arena/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	account := flag.String("account", "", "account id to put in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}
	if *account == "" {
		logger.Fatal("-account is required")
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(*account, *ttl)
	if err != nil {
		logger.Fatal("generate token", "error", err)
	}
	fmt.Println(token)
}
