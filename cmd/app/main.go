package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rps_arena/internal/config"
	"rps_arena/internal/db"
	"rps_arena/internal/events"
	httpServer "rps_arena/internal/http"
	"rps_arena/internal/http/handlers"
	"rps_arena/internal/http/middleware"
	"rps_arena/internal/logger"
	"rps_arena/internal/repository"
	"rps_arena/internal/service"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	var (
		dbPool *pgxpool.Pool
		rdb    *redis.Client
	)
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
	}
	if cfg.RedisAddr != "" {
		rdb = db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if rdb != nil {
			defer rdb.Close()
		}
	}
	middleware.UseRedis(rdb)

	store := buildStore(cfg, dbPool, rdb)

	hub := ws.NewHub()
	defer hub.Close()
	sinks := events.Multi{events.LogSink{}, hub}
	if rdb != nil {
		sinks = append(sinks, events.NewRedisSink(rdb, cfg.EventsChannel))
	}

	var (
		payout service.Payout = service.NewMemoryPayout()
		ledger *service.BalanceService
		audit  *service.AuditService
	)
	if dbPool != nil {
		ledger = service.NewBalanceService(dbPool)
		payout = ledger
		audit = service.NewAuditService(repository.NewAuditRepository(dbPool))
		sinks = append(sinks, audit)
	}

	registry := service.NewRegistry(store, sinks)
	games := service.NewGameServiceWithLimits(registry, payout, sinks, service.StakeLimits{
		MinStake: cfg.MinStake,
		MaxStake: cfg.MaxStake,
	})

	checks := map[string]handlers.Check{}
	if dbPool != nil {
		checks["database"] = dbPool.Ping
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())

	// CORS for frontends on a different domain
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandlerWithAudit(games, audit)
	if ledger != nil {
		h.Payouts = ledger
	}

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Handler:       h,
		Health:        handlers.NewHealthHandler(version, checks),
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
		Limits: httpServer.Limits{
			APIRateLimit:   cfg.APIRateLimit,
			APIRateWindow:  cfg.APIRateWindow,
			GameRateLimit:  cfg.GameRateLimit,
			GameRateWindow: cfg.GameRateWindow,
		},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreBackend, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// buildStore picks the match store for the configured backend and puts the
// LRU cache in front of it when MATCH_CACHE_SIZE > 0.
func buildStore(cfg *config.Config, dbPool *pgxpool.Pool, rdb *redis.Client) repository.MatchStore {
	var store repository.MatchStore
	switch cfg.StoreBackend {
	case config.StorePostgres:
		store = repository.NewMatchRepository(dbPool)
	case config.StoreRedis:
		if rdb == nil {
			logger.Fatal("redis store selected but redis is unavailable", "addr", cfg.RedisAddr)
		}
		store = repository.NewRedisMatchStore(rdb, "")
	default:
		// in-memory matches cannot be shared, so caching them adds nothing
		return repository.NewMemoryMatchStore()
	}

	if cfg.MatchCacheSize <= 0 {
		return store
	}
	cached, err := repository.NewCachedMatchStore(store, cfg.MatchCacheSize)
	if err != nil {
		logger.Fatal("failed to create match cache", "error", err)
	}
	return cached
}
