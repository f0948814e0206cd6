package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

var errNoEmail = errors.New("provider returned no email")

// oauthIdentity is what a provider tells us about the signed-in account.
type oauthIdentity struct {
	Email string
	Name  string
}

type OAuthHandler struct {
	auth         *AuthHandler
	google       *oauth2.Config
	github       *oauth2.Config
	googleUserFn func(ctx context.Context, client *http.Client) (oauthIdentity, error)
	githubUserFn func(ctx context.Context, client *http.Client) (oauthIdentity, error)
}

func NewOAuthHandler(auth *AuthHandler, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		auth: auth,
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		github: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		googleUserFn: googleUser,
		githubUserFn: githubUser,
	}
}

func (h *OAuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.google)
}

func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, "google", h.google, h.googleUserFn)
}

func (h *OAuthHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.github)
}

func (h *OAuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, "github", h.github, h.githubUserFn)
}

func (h *OAuthHandler) redirectToProvider(w http.ResponseWriter, r *http.Request, conf *oauth2.Config) {
	if conf.ClientID == "" {
		writeError(w, http.StatusNotFound, "OAuth provider not configured")
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, conf.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) callback(
	w http.ResponseWriter,
	r *http.Request,
	provider string,
	conf *oauth2.Config,
	userFn func(ctx context.Context, client *http.Client) (oauthIdentity, error),
) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", provider, "error", err)
		writeError(w, http.StatusBadRequest, "OAuth authentication failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", provider)
		writeError(w, http.StatusBadRequest, "OAuth authentication failed")
		return
	}

	token, err := conf.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", provider, "error", err)
		writeError(w, http.StatusBadRequest, "OAuth authentication failed")
		return
	}

	identity, err := userFn(r.Context(), conf.Client(r.Context(), token))
	if err != nil {
		slog.Error("failed to get oauth user info", "provider", provider, "error", err)
		writeError(w, http.StatusBadRequest, "OAuth authentication failed")
		return
	}

	user, err := h.auth.authService.AuthenticateOAuth(r.Context(), identity.Email, identity.Name, provider)
	if err != nil {
		slog.Error("oauth authentication failed", "provider", provider, "error", err)
		writeError(w, http.StatusBadRequest, "Authentication failed")
		return
	}

	_, err = h.auth.startSession(w, user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user logged in with oauth", "provider", provider, "user_id", user.ID)
	http.Redirect(w, r, h.auth.appURL+"/dashboard", http.StatusSeeOther)
}

func googleUser(ctx context.Context, client *http.Client) (oauthIdentity, error) {
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info)
	if err != nil {
		return oauthIdentity{}, err
	}
	if info.Email == "" {
		return oauthIdentity{}, errNoEmail
	}
	return oauthIdentity{Email: info.Email, Name: info.Name}, nil
}

// githubUser falls back to /user/emails when the profile email is private.
func githubUser(ctx context.Context, client *http.Client) (oauthIdentity, error) {
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &info)
	if err != nil {
		return oauthIdentity{}, err
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	if info.Email != "" {
		return oauthIdentity{Email: info.Email, Name: name}, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
	if err != nil {
		return oauthIdentity{}, err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return oauthIdentity{Email: e.Email, Name: name}, nil
		}
	}

	return oauthIdentity{}, errNoEmail
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
