package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/validation"
	"golang.org/x/oauth2"
)

type nopMailer struct{}

func (nopMailer) SendVerificationEmail(ctx context.Context, email, token, name string, expiry time.Duration) error {
	return nil
}
func (nopMailer) SendWelcomeEmail(ctx context.Context, email, name string) error { return nil }
func (nopMailer) SendPasswordAddedEmail(ctx context.Context, email, name string) error { return nil }

func newAuthHandler(t *testing.T) (*AuthHandler, repository.UserRepository) {
	t.Helper()
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)

	authService := service.NewAuthService(
		users,
		repository.NewProfileRepository(database),
		repository.NewTokenRepository(database),
		nopMailer{},
		"test-secret",
		false,
		time.Hour,
		time.Hour,
	)
	return NewAuthHandler(authService, "http://app.test/"), users
}

// tokenServer answers every token exchange with a fixed bearer token.
func tokenServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func callbackRequest(state, cookieState, code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code="+code, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: cookieState})
	}
	return req
}

func TestOAuthCallback(t *testing.T) {
	auth, users := newAuthHandler(t)
	srv := tokenServer(t)

	h := &OAuthHandler{
		auth: auth,
		google: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		},
		googleUserFn: func(ctx context.Context, client *http.Client) (oauthIdentity, error) {
			return oauthIdentity{Email: "Oauth@Example.com", Name: "O Auth"}, nil
		},
	}

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, callbackRequest("abc", "abc", "code"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "http://app.test/dashboard" {
		t.Errorf("redirect = %q", loc)
	}
	if !strings.Contains(fmt.Sprint(rec.Header().Values("Set-Cookie")), service.AuthCookieName+"=") {
		t.Error("session cookie not set")
	}

	user, err := users.ByEmail(context.Background(), "oauth@example.com")
	if err != nil {
		t.Fatalf("oauth user not stored: %v", err)
	}
	if user.EmailVerifiedAt == nil || user.PasswordHash != nil {
		t.Errorf("oauth user = %+v, want verified and passwordless", user)
	}
}

func TestOAuthCallbackRejects(t *testing.T) {
	auth, _ := newAuthHandler(t)
	srv := tokenServer(t)

	failing := func(ctx context.Context, client *http.Client) (oauthIdentity, error) {
		return oauthIdentity{}, errNoEmail
	}
	h := &OAuthHandler{
		auth: auth,
		github: &oauth2.Config{
			ClientID: "id",
			Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/token"},
		},
		githubUserFn: failing,
	}

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no state cookie", callbackRequest("abc", "", "code")},
		{"state mismatch", callbackRequest("abc", "xyz", "code")},
		{"missing code", callbackRequest("abc", "abc", "")},
		{"provider without email", callbackRequest("abc", "abc", "code")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.GitHubCallback(rec, tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestOAuthUnconfiguredProvider(t *testing.T) {
	auth, _ := newAuthHandler(t)
	h := &OAuthHandler{auth: auth, google: &oauth2.Config{}}

	rec := httptest.NewRecorder()
	h.GoogleAuth(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", &validation.Error{Field: "title", Message: "title is required"}, http.StatusBadRequest, `{"error":"title is required"}`},
		{"bad json", fmt.Errorf("%w: eof", errInvalidJSON), http.StatusBadRequest, `{"error":"Invalid request body"}`},
		{"not found", fmt.Errorf("update: %w", repository.ErrGoalNotFound), http.StatusNotFound, `{"error":"Goal not found or unauthorized"}`},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodPut, "/api/goals/1", nil), tt.err, "Goal not found or unauthorized")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
		})
	}
}
