package middleware

import (
	"crypto/sha256"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/gorilla/csrf"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

// CSRFProtection checks X-CSRF-Token on state-changing requests whose user
// came from the session cookie. Bearer-token clients and anonymous requests
// skip the check. It must run after AuthMiddleware.
//
// Every checked request carries the masked token in the context for GET /api/csrf.
func CSRFProtection(cfg *config.Config) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + cfg.JWTSecret))

	protect := csrf.Protect(key[:],
		csrf.CookieName(csrfCookieName),
		csrf.RequestHeader(csrfHeader),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.Secure(cfg.IsProduction()),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.MaxAge(86400*7), // 7 days
		csrf.TrustedOrigins(trustedOrigins(cfg.AppURL)),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)

	return func(next http.Handler) http.Handler {
		checked := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithCSRFToken(r.Context(), csrf.Token(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		}))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isSafeMethod(r.Method) && !ctxkeys.CookieSession(r.Context()) {
				r = csrf.UnsafeSkipCheck(r)
			}
			// Behind a TLS-terminating proxy the forwarded proto keeps the strict referer check.
			if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
				r = csrf.PlaintextHTTPRequest(r)
			}
			checked.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	slog.Warn("csrf validation failed",
		"path", r.URL.Path,
		"method", r.Method,
		"ip", getClientIP(r),
		"reason", csrf.FailureReason(r),
	)
	jsonError(w, http.StatusForbidden, "Invalid CSRF token")
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// trustedOrigins lets the web client served from APP_URL post cross-origin.
func trustedOrigins(appURL string) []string {
	u, err := url.Parse(appURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
