package http

import (
	"time"

	"rps_arena/internal/http/handlers"
	"rps_arena/internal/http/middleware"
	"rps_arena/internal/ws"

	"github.com/gin-gonic/gin"
)

// Limits configures the rate limiters in front of the API.
type Limits struct {
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

// DefaultLimits mirrors the config defaults.
var DefaultLimits = Limits{
	APIRateLimit:   120,
	APIRateWindow:  time.Minute,
	GameRateLimit:  60,
	GameRateWindow: time.Minute,
}

// Deps are the handlers and hub the router dispatches to.
type Deps struct {
	Handler       *handlers.Handler
	Health        *handlers.HealthHandler
	Hub           *ws.Hub
	AllowedOrigin string
	Limits        Limits
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	limits := d.Limits
	if limits.APIRateLimit <= 0 || limits.APIRateWindow <= 0 {
		limits.APIRateLimit, limits.APIRateWindow = DefaultLimits.APIRateLimit, DefaultLimits.APIRateWindow
	}
	if limits.GameRateLimit <= 0 || limits.GameRateWindow <= 0 {
		limits.GameRateLimit, limits.GameRateWindow = DefaultLimits.GameRateLimit, DefaultLimits.GameRateWindow
	}

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(limits.APIRateLimit, limits.APIRateWindow))
	registerAPIRoutes(v1, d.Handler, limits)

	// Event stream
	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, d.AllowedOrigin))
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, limits Limits) {
	// Game rate limiter middleware (per account, not per IP)
	gameRL := middleware.GameRateLimit(limits.GameRateLimit, limits.GameRateWindow)

	api.GET("/pins/new", h.NewPin)

	games := api.Group("/games")
	{
		games.GET("/open", h.ListOpenGames)
		games.GET("/limits", h.GameLimits)
		games.GET("/:id", h.GetGame)
		if h.Audit != nil {
			games.GET("/:id/history", h.GameHistory)
		}

		games.POST("", middleware.JWT(), gameRL, h.CreateGame)
		games.POST("/:id/join", middleware.JWT(), gameRL, h.JoinGame)
		games.POST("/:id/play", middleware.JWT(), gameRL, h.Play)
		games.POST("/:id/reveal", middleware.JWT(), gameRL, h.Reveal)
	}

	api.GET("/accounts/:account/games", h.ListAccountGames)
	if h.Payouts != nil {
		api.GET("/accounts/:account/payouts", h.AccountPayouts)
	}
}
