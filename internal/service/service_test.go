package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/jmoiron/sqlx"
)

type sentEmail struct {
	kind  string
	to    string
	token string
	name  string
}

// fakeMailer records outgoing emails instead of sending them.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, email, token, name string, expiry time.Duration) error {
	m.record(sentEmail{kind: "verify", to: email, token: token, name: name})
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, email, name string) error {
	m.record(sentEmail{kind: "welcome", to: email, name: name})
	return nil
}

func (m *fakeMailer) SendPasswordAddedEmail(ctx context.Context, email, name string) error {
	m.record(sentEmail{kind: "password_added", to: email, name: name})
	return nil
}

func (m *fakeMailer) record(e sentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
}

func (m *fakeMailer) last(kind string) (sentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i], true
		}
	}
	return sentEmail{}, false
}

type testEnv struct {
	db        *sqlx.DB
	mailer    *fakeMailer
	auth      *AuthService
	profiles  *ProfileService
	workouts  *WorkoutService
	nutrition *NutritionService
	progress  *ProgressService
	goals     *GoalService
	analytics *AnalyticsService
	dashboard *DashboardService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := dbtest.New(t)
	mailer := &fakeMailer{}

	userRepo := repository.NewUserRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	workoutRepo := repository.NewWorkoutRepository(database)
	nutritionRepo := repository.NewNutritionRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	goalRepo := repository.NewGoalRepository(database)

	env := &testEnv{
		db:        database,
		mailer:    mailer,
		auth:      NewAuthService(userRepo, profileRepo, tokenRepo, mailer, "test-secret", false, time.Hour, 24*time.Hour),
		profiles:  NewProfileService(profileRepo),
		workouts:  NewWorkoutService(workoutRepo),
		nutrition: NewNutritionService(nutritionRepo),
		progress:  NewProgressService(progressRepo),
		goals:     NewGoalService(goalRepo),
		analytics: NewAnalyticsService(workoutRepo, nutritionRepo),
	}
	env.dashboard = NewDashboardService(profileRepo, env.workouts, env.nutrition, env.progress, env.goals)

	return env
}

// newVerifiedUser registers an account and verifies it, returning its id.
func (env *testEnv) newVerifiedUser(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	user, _, err := env.auth.Register(ctx, RegisterInput{Email: email, Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}

	err = env.auth.MarkVerified(ctx, user)
	if err != nil {
		t.Fatalf("verify %s: %v", email, err)
	}

	return user.ID
}
