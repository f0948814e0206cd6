package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	appURL      string
}

func NewAuthHandler(authService *service.AuthService, appURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		appURL:      strings.TrimSuffix(appURL, "/"),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, outcome, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			writeError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "Invalid email address")
		case errors.Is(err, validation.ErrPasswordTooShort),
			errors.Is(err, validation.ErrPasswordTooLong),
			errors.Is(err, validation.ErrPasswordCommon):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if outcome == service.RegisterPasswordAdded {
		writeMessage(w, http.StatusOK, "Password added successfully")
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// VerifyEmail consumes the link from the verification email and sends the
// browser to the client's success page.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Missing verification token")
		return
	}

	_, err := h.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "Invalid verification token")
			return
		}
		slog.Error("email verification failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.Redirect(w, r, h.appURL+"/auth/verify-success", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrEmailNotVerified):
			writeError(w, http.StatusUnauthorized, "Please verify your email before signing in")
		default:
			slog.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := h.startSession(w, user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

// CSRFToken hands cookie-session clients the token to echo in X-CSRF-Token.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": ctxkeys.CSRFToken(r.Context())})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User) (string, error) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		return "", err
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))
	return token, nil
}
