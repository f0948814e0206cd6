package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/fittrack/fittrack/internal/nutritionix"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/storage"
	"github.com/jmoiron/sqlx"
)

// FoodSearcher looks up nutrition facts for a free-text query.
type FoodSearcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// Deps are the external collaborators. Storage may be nil.
type Deps struct {
	Mailer     service.Mailer
	Storage    storage.Storage
	FoodSearch FoodSearcher
}

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	FoodSearch       FoodSearcher
	AuthService      *service.AuthService
	UserService      *service.UserService
	ProfileService   *service.ProfileService
	FileService      *service.FileService
	WorkoutService   *service.WorkoutService
	NutritionService *service.NutritionService
	ProgressService  *service.ProgressService
	GoalService      *service.GoalService
	AnalyticsService *service.AnalyticsService
	DashboardService *service.DashboardService
}

// New opens the database, applies migrations when configured to, and wires
// the production collaborators.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBMigrateOnStart {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps := Deps{
		Mailer: service.NewEmailService(
			cfg.ResendAPIKey,
			cfg.EmailFrom,
			cfg.AppURL,
			cfg.AppName,
			cfg.IsDevelopment(),
		),
		Storage:    fileStorage,
		FoodSearch: nutritionix.NewClient(cfg.NutritionixBaseURL, cfg.NutritionixAppID, cfg.NutritionixAPIKey),
	}

	return Build(cfg, database, deps), nil
}

// Build wires repositories and services over an open database.
func Build(cfg *config.Config, database *sqlx.DB, deps Deps) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	workoutRepository := repository.NewWorkoutRepository(database)
	nutritionRepository := repository.NewNutritionRepository(database)
	progressRepository := repository.NewProgressRepository(database)
	goalRepository := repository.NewGoalRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		deps.Mailer,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenEmailVerifyExpiry,
	)
	workoutService := service.NewWorkoutService(workoutRepository)
	nutritionService := service.NewNutritionService(nutritionRepository)
	progressService := service.NewProgressService(progressRepository)
	goalService := service.NewGoalService(goalRepository)

	return &App{
		Cfg:              cfg,
		DB:               database,
		FoodSearch:       deps.FoodSearch,
		AuthService:      authService,
		UserService:      service.NewUserService(userRepository),
		ProfileService:   service.NewProfileService(profileRepository),
		FileService:      service.NewFileService(fileRepository, deps.Storage, cfg.S3KeyPrefix),
		WorkoutService:   workoutService,
		NutritionService: nutritionService,
		ProgressService:  progressService,
		GoalService:      goalService,
		AnalyticsService: service.NewAnalyticsService(workoutRepository, nutritionRepository),
		DashboardService: service.NewDashboardService(profileRepository, workoutService, nutritionService, progressService, goalService),
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
