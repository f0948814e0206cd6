package routes

import (
	"net/http"

	"github.com/fittrack/fittrack/internal/app"
	"github.com/fittrack/fittrack/internal/handler"
	"github.com/fittrack/fittrack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.AppURL)
	oauth := handler.NewOAuthHandler(auth, app.Cfg)
	profile := handler.NewProfileHandler(app.ProfileService)
	dashboard := handler.NewDashboardHandler(app.DashboardService, app.AnalyticsService)
	workouts := handler.NewWorkoutHandler(app.WorkoutService)
	nutrition := handler.NewNutritionHandler(app.NutritionService)
	progress := handler.NewProgressHandler(app.ProgressService)
	goals := handler.NewGoalHandler(app.GoalService)
	search := handler.NewSearchHandler(app.FoodSearch)
	upload := handler.NewUploadHandler(app.FileService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /api/csrf", auth.CSRFToken)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /api/auth/verify", auth.VerifyEmail)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(oauth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(oauth.GoogleCallback))
	mux.HandleFunc("GET /auth/github", rateLimiter(oauth.GitHubAuth))
	mux.HandleFunc("GET /auth/github/callback", rateLimiter(oauth.GitHubCallback))

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Profile & dashboard
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Show))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboard.Summary))
	mux.HandleFunc("GET /api/analytics", middleware.RequireAuth(dashboard.Analytics))

	// Workouts
	mux.HandleFunc("GET /api/workouts", middleware.RequireAuth(workouts.List))
	mux.HandleFunc("POST /api/workouts", middleware.RequireAuth(workouts.Create))
	mux.HandleFunc("PUT /api/workouts", middleware.RequireAuth(workouts.Update))
	mux.HandleFunc("PUT /api/workouts/{id}", middleware.RequireAuth(workouts.Update))
	mux.HandleFunc("DELETE /api/workouts", middleware.RequireAuth(workouts.Delete))
	mux.HandleFunc("DELETE /api/workouts/{id}", middleware.RequireAuth(workouts.Delete))

	// Nutrition
	mux.HandleFunc("GET /api/nutrition", middleware.RequireAuth(nutrition.List))
	mux.HandleFunc("POST /api/nutrition", middleware.RequireAuth(nutrition.Create))
	mux.HandleFunc("PUT /api/nutrition", middleware.RequireAuth(nutrition.Update))
	mux.HandleFunc("PUT /api/nutrition/{id}", middleware.RequireAuth(nutrition.Update))
	mux.HandleFunc("DELETE /api/nutrition", middleware.RequireAuth(nutrition.Delete))
	mux.HandleFunc("DELETE /api/nutrition/{id}", middleware.RequireAuth(nutrition.Delete))
	mux.HandleFunc("POST /api/nutrition/search", middleware.RequireAuth(search.Search))

	// Progress
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progress.List))
	mux.HandleFunc("POST /api/progress", middleware.RequireAuth(progress.Create))
	mux.HandleFunc("PUT /api/progress", middleware.RequireAuth(progress.Update))
	mux.HandleFunc("PUT /api/progress/{id}", middleware.RequireAuth(progress.Update))
	mux.HandleFunc("DELETE /api/progress", middleware.RequireAuth(progress.Delete))
	mux.HandleFunc("DELETE /api/progress/{id}", middleware.RequireAuth(progress.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goals.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goals.Create))
	mux.HandleFunc("PUT /api/goals", middleware.RequireAuth(goals.Update))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goals.Update))
	mux.HandleFunc("DELETE /api/goals", middleware.RequireAuth(goals.Delete))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goals.Delete))

	// Uploads
	mux.HandleFunc("POST /api/upload", middleware.RequireAuth(upload.Upload))
	mux.HandleFunc("GET /api/files", middleware.RequireAuth(upload.List))
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RequireAuth(upload.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.Config(app.Cfg), // before SecurityHeaders and CSRF, which read it
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.CSRFProtection(app.Cfg), // after auth: only cookie sessions are checked
	)
}
