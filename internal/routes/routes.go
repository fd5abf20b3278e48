package routes

import (
	"net/http"

	"github.com/templui/golfjournal/internal/app"
	"github.com/templui/golfjournal/internal/handler"
	"github.com/templui/golfjournal/internal/metrics"
	"github.com/templui/golfjournal/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.LiveHub, app.Cfg)
	rounds := handler.NewRoundHandler(app.RoundService, app.ExportService)
	stats := handler.NewStatsHandler(app.JournalService)
	goal := handler.NewGoalHandler(app.GoalService, app.JournalService, app.PracticeService)
	live := handler.NewLiveHandler(app.JournalService, app.LiveHub)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", handler.Home)
	mux.HandleFunc("GET /healthz", handler.Healthz(app.DB))
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Auth - sign-in flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("GET /auth", middleware.RequireGuest(auth.AuthPage))
	mux.HandleFunc("POST /auth/anonymous", rateLimiter(middleware.RequireGuest(auth.Anonymous)))

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("GET /auth/github", rateLimiter(middleware.RequireGuest(auth.GitHubAuth)))
	mux.HandleFunc("GET /auth/github/callback", rateLimiter(auth.GitHubCallback))

	// Pre-issued sign-in tokens
	mux.HandleFunc("POST /auth/token", rateLimiter(middleware.RequireGuest(auth.SendToken)))
	mux.HandleFunc("GET /auth/token/{token}", rateLimiter(auth.RedeemToken))

	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Rounds
	mux.HandleFunc("GET /app/rounds/new", middleware.RequireAuth(rounds.NewRoundPage))
	mux.HandleFunc("POST /app/rounds", middleware.RequireAuth(rounds.Create))
	mux.HandleFunc("GET /app/rounds", middleware.RequireAuth(rounds.History))
	mux.HandleFunc("GET /app/rounds/export.xlsx", middleware.RequireAuth(rounds.Export))
	mux.HandleFunc("POST /app/rounds/export/archive", middleware.RequireAuth(rounds.Archive))

	// Statistics
	mux.HandleFunc("GET /app/stats", middleware.RequireAuth(stats.StatsPage))
	mux.HandleFunc("GET /app/stats/trend.png", middleware.RequireAuth(stats.TrendPNG))

	// Goals
	mux.HandleFunc("GET /app/goals", middleware.RequireAuth(goal.GoalsPage))
	mux.HandleFunc("PATCH /app/goals/target", middleware.RequireAuth(goal.SetTarget))
	mux.HandleFunc("POST /app/goals/target", middleware.RequireAuth(goal.SetTarget))
	mux.HandleFunc("POST /app/goals/practice", middleware.RequireAuth(goal.AddPractice))
	mux.HandleFunc("POST /app/goals/practice/{id}/toggle", middleware.RequireAuth(goal.TogglePractice))
	mux.HandleFunc("POST /app/goals/practice/{id}/delete", middleware.RequireAuth(goal.DeletePractice))

	// Live feed
	mux.HandleFunc("GET /app/live", middleware.RequireAuth(live.Live))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	// metrics sit next to the mux, which sets the route pattern on the
	// request it is given
	return middleware.Chain(
		metrics.InstrumentHandler(mux),
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
		middleware.WithURLPath,
	)
}
