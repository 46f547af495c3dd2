package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"rps_arena/internal/logger"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	StoreBackend   string
	MatchCacheSize int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventsChannel string

	// Stake limits
	MinStake uint64
	MaxStake uint64

	APIRateLimit  int
	APIRateWindow time.Duration
	// per account, mutating game calls only
	GameRateLimit  int
	GameRateWindow time.Duration

	AllowedOrigin string
	LogLevel      string
	LogJSON       bool
}

// Load reads .env (if present) and the environment
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	cfg := &Config{
		AppPort:        envString("APP_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      jwtSecret,
		StoreBackend:   strings.ToLower(os.Getenv("STORE_BACKEND")),
		MatchCacheSize: envInt("MATCH_CACHE_SIZE", 1024),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		EventsChannel:  envString("EVENTS_CHANNEL", "rps:events"),
		MinStake:       envUint("MIN_STAKE", 0),
		MaxStake:       envUint("MAX_STAKE", 0),
		APIRateLimit:   envInt("API_RATE_LIMIT", 120),
		APIRateWindow:  time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		GameRateLimit:  envInt("GAME_RATE_LIMIT", 60),
		GameRateWindow: time.Duration(envInt("GAME_RATE_WINDOW", 60)) * time.Second,
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:       envString("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}

	// pick the backend from what is configured when not set explicitly
	if cfg.StoreBackend == "" {
		switch {
		case cfg.DatabaseURL != "":
			cfg.StoreBackend = StorePostgres
		case cfg.RedisAddr != "":
			cfg.StoreBackend = StoreRedis
		default:
			cfg.StoreBackend = StoreMemory
		}
	}
	if cfg.StoreBackend == StorePostgres && cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	if cfg.StoreBackend == StoreRedis && cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is not set")
	}

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envUint(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
