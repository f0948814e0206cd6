package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"maps"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fittrack/fittrack/internal/app"
	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/storage"
	"github.com/google/go-cmp/cmp"
)

const password = "correct-horse-battery"

type fakeMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, email, token, name string, expiry time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[email] = token
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, email, name string) error { return nil }

func (m *fakeMailer) SendPasswordAddedEmail(ctx context.Context, email, name string) error {
	return nil
}

func (m *fakeMailer) token(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[email]
}

type fakeSearch struct {
	foods json.RawMessage
	err   error
	query string
}

func (f *fakeSearch) Search(ctx context.Context, query string) (json.RawMessage, error) {
	f.query = query
	return f.foods, f.err
}

type testServer struct {
	app     *app.App
	handler http.Handler
	mailer  *fakeMailer
	search  *fakeSearch
	store   *storage.Memory
}

func newTestServer(t *testing.T, withStorage bool) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:                "FitTrack",
		AppEnv:                 "development",
		AppURL:                 "http://app.test",
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		TokenEmailVerifyExpiry: time.Hour,
		S3KeyPrefix:            "fitness-tracker",
	}

	ts := &testServer{
		mailer: &fakeMailer{tokens: map[string]string{}},
		search: &fakeSearch{foods: json.RawMessage(`[{"food_name":"apple"}]`)},
	}

	deps := app.Deps{Mailer: ts.mailer, FoodSearch: ts.search}
	if withStorage {
		ts.store = storage.NewMemory("https://cdn.test")
		deps.Storage = ts.store
	}

	ts.app = app.Build(cfg, dbtest.New(t), deps)
	ts.handler = SetupRoutes(ts.app)
	return ts
}

// signUp creates a verified account through the services and returns a bearer token.
func (ts *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	user, _, err := ts.app.AuthService.Register(ctx, service.RegisterInput{Email: email, Password: password})
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.app.AuthService.MarkVerified(ctx, user); err != nil {
		t.Fatal(err)
	}

	token, err := ts.app.AuthService.GenerateJWT(user)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterVerifyLogin(t *testing.T) {
	ts := newTestServer(t, false)
	creds := map[string]string{"email": "sam@example.com", "password": password}

	rec := ts.do(t, http.MethodPost, "/api/auth/register", creds, "")
	expect(t, rec, http.StatusCreated)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "User registered successfully" {
		t.Errorf("message = %q", msg)
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/register", creds, "")
	expect(t, rec, http.StatusBadRequest)
	if msg := decode[map[string]string](t, rec)["error"]; msg != "Email already registered" {
		t.Errorf("error = %q", msg)
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/login", creds, "")
	expect(t, rec, http.StatusUnauthorized)

	token := ts.mailer.token("sam@example.com")
	rec = ts.do(t, http.MethodGet, "/api/auth/verify?token="+token, nil, "")
	expect(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "http://app.test/auth/verify-success" {
		t.Errorf("redirect = %q", loc)
	}

	rec = ts.do(t, http.MethodGet, "/api/auth/verify?token="+token, nil, "")
	expect(t, rec, http.StatusBadRequest)
	if msg := decode[map[string]string](t, rec)["error"]; msg != "Invalid verification token" {
		t.Errorf("error = %q", msg)
	}

	rec = ts.do(t, http.MethodPost, "/api/auth/login", creds, "")
	expect(t, rec, http.StatusOK)
	jwt := decode[map[string]any](t, rec)["token"].(string)
	if c := cookieNamed(rec, service.AuthCookieName); c == nil || c.Value != jwt {
		t.Errorf("session cookie = %+v, want the returned token", c)
	}

	rec = ts.do(t, http.MethodGet, "/api/auth/me", nil, jwt)
	expect(t, rec, http.StatusOK)
	if email := decode[map[string]any](t, rec)["email"]; email != "sam@example.com" {
		t.Errorf("me email = %v", email)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@example.com"}, "")
	expect(t, rec, http.StatusBadRequest)

	rec = ts.do(t, http.MethodGet, "/api/auth/verify", nil, "")
	expect(t, rec, http.StatusBadRequest)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t, false)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/workouts"},
		{http.MethodPost, "/api/nutrition"},
		{http.MethodPut, "/api/progress/abc"},
		{http.MethodDelete, "/api/goals/abc"},
		{http.MethodGet, "/api/analytics"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodPost, "/api/nutrition/search"},
		{http.MethodPost, "/api/upload"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := ts.do(t, rt.method, rt.path, "{}", "")
			expect(t, rec, http.StatusUnauthorized)
			if msg := decode[map[string]string](t, rec)["error"]; msg != "Unauthorized" {
				t.Errorf("error = %q", msg)
			}
		})
	}

	rec := ts.do(t, http.MethodGet, "/api/workouts", nil, "not-a-jwt")
	expect(t, rec, http.StatusUnauthorized)
}

func TestWorkoutCRUD(t *testing.T) {
	ts := newTestServer(t, false)
	owner := ts.signUp(t, "owner@example.com")
	other := ts.signUp(t, "other@example.com")

	workout := map[string]any{
		"title": "Legs",
		"date":  "2024-01-15",
		"exercises": []map[string]any{
			{"name": "Squat", "sets": 5, "reps": 5, "weight": 100},
		},
	}

	rec := ts.do(t, http.MethodPost, "/api/workouts", workout, owner)
	expect(t, rec, http.StatusCreated)
	created := decode[map[string]any](t, rec)
	id, _ := created["id"].(string)
	if id == "" || created["title"] != "Legs" {
		t.Fatalf("created = %v", created)
	}

	rec = ts.do(t, http.MethodPost, "/api/workouts", map[string]any{"date": "2024-01-15", "exercises": workout["exercises"]}, owner)
	expect(t, rec, http.StatusBadRequest)
	if msg := decode[map[string]string](t, rec)["error"]; msg != "title is required" {
		t.Errorf("error = %q", msg)
	}

	rec = ts.do(t, http.MethodPost, "/api/workouts", "{not json", owner)
	expect(t, rec, http.StatusBadRequest)

	workout["title"] = "Hacked"
	rec = ts.do(t, http.MethodPut, "/api/workouts/"+id, workout, other)
	expect(t, rec, http.StatusNotFound)
	if msg := decode[map[string]string](t, rec)["error"]; msg != "Workout not found or unauthorized" {
		t.Errorf("error = %q", msg)
	}

	rec = ts.do(t, http.MethodDelete, "/api/workouts/"+id, nil, other)
	expect(t, rec, http.StatusNotFound)

	workout["title"] = "Legs v2"
	rec = ts.do(t, http.MethodPut, "/api/workouts/"+id, workout, owner)
	expect(t, rec, http.StatusOK)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Workout updated successfully" {
		t.Errorf("message = %q", msg)
	}

	workout["id"] = id
	workout["title"] = "Legs v3"
	rec = ts.do(t, http.MethodPut, "/api/workouts", workout, owner)
	expect(t, rec, http.StatusOK)

	rec = ts.do(t, http.MethodGet, "/api/workouts", nil, owner)
	expect(t, rec, http.StatusOK)
	list := decode[[]map[string]any](t, rec)
	if len(list) != 1 || list[0]["title"] != "Legs v3" {
		t.Fatalf("list = %v", list)
	}

	rec = ts.do(t, http.MethodGet, "/api/workouts", nil, other)
	expect(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("other user's list = %s, want []", got)
	}

	rec = ts.do(t, http.MethodDelete, "/api/workouts", nil, owner)
	expect(t, rec, http.StatusBadRequest)

	rec = ts.do(t, http.MethodDelete, "/api/workouts?id="+id, nil, owner)
	expect(t, rec, http.StatusOK)

	rec = ts.do(t, http.MethodDelete, "/api/workouts/"+id, nil, owner)
	expect(t, rec, http.StatusNotFound)
}

func TestRecordsOwnerScoping(t *testing.T) {
	tests := []struct {
		path string
		noun string
		body map[string]any
	}{
		{"/api/nutrition", "Nutrition entry", map[string]any{
			"date":  "2024-02-03",
			"meals": []map[string]any{{"name": "oats", "calories": 100}},
		}},
		{"/api/progress", "Progress entry", map[string]any{
			"date":   "2024-02-03",
			"weight": 80.5,
		}},
		{"/api/goals", "Goal", map[string]any{
			"title":       "Bench 100",
			"category":    "Strength",
			"targetDate":  "2024-12-31",
			"targetValue": 100,
			"unit":        "kg",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ts := newTestServer(t, false)
			owner := ts.signUp(t, "owner@example.com")
			other := ts.signUp(t, "other@example.com")

			rec := ts.do(t, http.MethodPost, tt.path, tt.body, owner)
			expect(t, rec, http.StatusCreated)
			id, _ := decode[map[string]any](t, rec)["id"].(string)

			rec = ts.do(t, http.MethodGet, tt.path, nil, owner)
			expect(t, rec, http.StatusOK)
			before := rec.Body.String()

			hijack := maps.Clone(tt.body)
			for _, key := range []string{"date", "targetDate"} {
				if _, ok := hijack[key]; ok {
					hijack[key] = "2025-01-01"
				}
			}
			for _, req := range []struct{ method, path string }{
				{http.MethodPut, tt.path + "/" + id},
				{http.MethodDelete, tt.path + "?id=" + id},
				{http.MethodDelete, tt.path + "/" + id},
			} {
				rec = ts.do(t, req.method, req.path, hijack, other)
				expect(t, rec, http.StatusNotFound)
				if msg := decode[map[string]string](t, rec)["error"]; msg != tt.noun+" not found or unauthorized" {
					t.Errorf("%s %s: error = %q", req.method, req.path, msg)
				}
			}

			rec = ts.do(t, http.MethodGet, tt.path, nil, owner)
			expect(t, rec, http.StatusOK)
			if diff := cmp.Diff(before, rec.Body.String()); diff != "" {
				t.Errorf("owner's record changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestGoalResponseIncludesProgress(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.signUp(t, "g@example.com")

	goal := map[string]any{
		"title":        "Deadlift 200",
		"category":     "Strength",
		"targetDate":   "2024-12-31",
		"targetValue":  200,
		"currentValue": 250,
		"unit":         "kg",
		"completed":    true,
	}
	rec := ts.do(t, http.MethodPost, "/api/goals", goal, token)
	expect(t, rec, http.StatusCreated)

	created := decode[map[string]any](t, rec)
	if created["currentValue"] != float64(0) || created["completed"] != false || created["progressPercent"] != float64(0) {
		t.Errorf("created = %v, want progress reset", created)
	}

	id, _ := created["id"].(string)
	rec = ts.do(t, http.MethodPut, "/api/goals/"+id, goal, token)
	expect(t, rec, http.StatusOK)

	rec = ts.do(t, http.MethodGet, "/api/goals", nil, token)
	expect(t, rec, http.StatusOK)
	goals := decode[[]map[string]any](t, rec)
	if len(goals) != 1 || goals[0]["progressPercent"] != float64(100) || goals[0]["progress"] != float64(1) {
		t.Errorf("goals = %v, want progress capped at 100", goals)
	}
}

func TestAnalyticsAndDashboard(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.signUp(t, "a@example.com")

	rec := ts.do(t, http.MethodGet, "/api/analytics", nil, token)
	expect(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"workoutStats":[],"nutritionStats":[]}` {
		t.Errorf("empty analytics = %s", got)
	}

	rec = ts.do(t, http.MethodPost, "/api/nutrition", map[string]any{
		"date":          "2024-02-03",
		"meals":         []map[string]any{{"name": "oats", "calories": 100}, {"name": "eggs", "calories": 200}},
		"totalCalories": 300,
	}, token)
	expect(t, rec, http.StatusCreated)

	rec = ts.do(t, http.MethodGet, "/api/analytics", nil, token)
	expect(t, rec, http.StatusOK)
	report := decode[map[string][]map[string]any](t, rec)
	if len(report["nutritionStats"]) != 1 || report["nutritionStats"][0]["month"] != "2024-02" || report["nutritionStats"][0]["averageCalories"] != float64(300) {
		t.Errorf("report = %v", report)
	}

	rec = ts.do(t, http.MethodGet, "/api/dashboard", nil, token)
	expect(t, rec, http.StatusOK)
	summary := decode[map[string]any](t, rec)
	if summary["name"] != "a" || summary["nutritionEntries"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
}

func TestNutritionSearch(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.signUp(t, "s@example.com")

	rec := ts.do(t, http.MethodPost, "/api/nutrition/search", map[string]string{"query": "1 apple"}, token)
	expect(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != `[{"food_name":"apple"}]` {
		t.Errorf("foods = %s", got)
	}
	if ts.search.query != "1 apple" {
		t.Errorf("forwarded query = %q", ts.search.query)
	}

	rec = ts.do(t, http.MethodPost, "/api/nutrition/search", map[string]string{"query": ""}, token)
	expect(t, rec, http.StatusBadRequest)

	ts.search.err = errors.New("upstream down")
	rec = ts.do(t, http.MethodPost, "/api/nutrition/search", map[string]string{"query": "rice"}, token)
	expect(t, rec, http.StatusInternalServerError)
}

func uploadRequest(t *testing.T, token string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "progress.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	t.Run("stored", func(t *testing.T) {
		ts := newTestServer(t, true)
		token := ts.signUp(t, "up@example.com")

		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, uploadRequest(t, token, png))
		expect(t, rec, http.StatusOK)

		resp := decode[map[string]string](t, rec)
		if !strings.HasPrefix(resp["publicId"], "fitness-tracker/") || resp["url"] != "https://cdn.test/"+resp["publicId"] {
			t.Errorf("response = %v", resp)
		}
		if _, ok := ts.store.Objects[resp["publicId"]]; !ok {
			t.Error("object not stored")
		}
	})

	t.Run("storage disabled", func(t *testing.T) {
		ts := newTestServer(t, false)
		token := ts.signUp(t, "up@example.com")

		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, uploadRequest(t, token, png))
		expect(t, rec, http.StatusInternalServerError)
		if msg := decode[map[string]string](t, rec)["error"]; msg != "storage not configured" {
			t.Errorf("error = %q", msg)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		ts := newTestServer(t, true)
		token := ts.signUp(t, "up@example.com")

		rec := ts.do(t, http.MethodPost, "/api/upload", "{}", token)
		expect(t, rec, http.StatusBadRequest)
	})
}

func TestCookieSessionNeedsCSRFToken(t *testing.T) {
	ts := newTestServer(t, false)
	jwt := ts.signUp(t, "c@example.com")
	session := &http.Cookie{Name: service.AuthCookieName, Value: jwt}

	// Fetch a CSRF token; the response sets the matching cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/csrf", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	expect(t, rec, http.StatusOK)

	csrfToken := decode[map[string]string](t, rec)["csrfToken"]
	csrfCookie := cookieNamed(rec, "csrf_token")
	if csrfToken == "" || csrfCookie == nil {
		t.Fatalf("csrf token %q cookie %+v", csrfToken, csrfCookie)
	}

	goal := `{"title":"Run","category":"Endurance","targetDate":"2024-09-01","targetValue":10,"unit":"kilometers"}`

	req = httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(goal))
	req.AddCookie(session)
	req.AddCookie(csrfCookie)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	expect(t, rec, http.StatusForbidden)

	req = httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(goal))
	req.AddCookie(session)
	req.AddCookie(csrfCookie)
	req.Header.Set("X-CSRF-Token", csrfToken)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	expect(t, rec, http.StatusCreated)
}

func TestInvalidSessionCookieIsUnauthorized(t *testing.T) {
	ts := newTestServer(t, false)
	goal := `{"title":"Run","category":"Endurance","targetDate":"2024-09-01","targetValue":10,"unit":"kilometers"}`

	for _, value := range []string{"garbage.jwt.value", ""} {
		req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(goal))
		req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: value})
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)

		expect(t, rec, http.StatusUnauthorized)
		if msg := decode[map[string]string](t, rec)["error"]; msg != "Unauthorized" {
			t.Errorf("cookie %q: error = %q", value, msg)
		}
	}

	// A validly signed session for an account this server does not have.
	other := newTestServer(t, false)
	forged := other.signUp(t, "forged@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/api/goals/abc", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: forged})
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	expect(t, rec, http.StatusUnauthorized)
}

func TestHealthAndFallback(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodGet, "/healthz", nil, "")
	expect(t, rec, http.StatusOK)
	if status := decode[map[string]string](t, rec)["status"]; status != "ok" {
		t.Errorf("status = %q", status)
	}

	rec = ts.do(t, http.MethodGet, "/nope", nil, "")
	expect(t, rec, http.StatusNotFound)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}
