package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidToken       = errors.New("invalid verification token")
)

// RegisterOutcome tells the caller which registration branch ran.
type RegisterOutcome int

const (
	RegisterCreated RegisterOutcome = iota + 1
	RegisterPasswordAdded
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthService struct {
	userRepository         repository.UserRepository
	profileRepository      repository.ProfileRepository
	tokenRepository        repository.TokenRepository
	mailer                 Mailer
	jwtSecret              string
	isProduction           bool
	jwtExpiry              time.Duration
	tokenEmailVerifyExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	mailer Mailer,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenEmailVerifyExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:         userRepository,
		profileRepository:      profileRepository,
		tokenRepository:        tokenRepository,
		mailer:                 mailer,
		jwtSecret:              jwtSecret,
		isProduction:           isProduction,
		jwtExpiry:              jwtExpiry,
		tokenEmailVerifyExpiry: tokenEmailVerifyExpiry,
	}
}

// Register creates a password account, or attaches a password to an
// existing passwordless (OAuth) account with the same email.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, RegisterOutcome, error) {
	email := validation.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, 0, ErrMissingCredentials
	}

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, 0, ErrInvalidEmail
	}

	err = validation.ValidatePassword(input.Password)
	if err != nil {
		return nil, 0, err
	}

	existing, err := s.userRepository.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, 0, fmt.Errorf("failed to lookup user: %w", err)
	}

	if existing != nil {
		if existing.HasPassword() {
			return nil, 0, ErrEmailAlreadyExists
		}
		return s.addPassword(ctx, existing, input.Password)
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, 0, ErrEmailAlreadyExists
		}
		return nil, 0, fmt.Errorf("failed to create user: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = validation.LocalPart(email)
	}

	err = s.profileRepository.Create(ctx, &model.Profile{
		UserID:    user.ID,
		Name:      name,
		CreatedAt: now,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.sendVerification(ctx, user, name)
	if err != nil {
		// The account exists; the user can still verify via OAuth or a resend.
		slog.Error("failed to send verification email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, RegisterCreated, nil
}

func (s *AuthService) addPassword(ctx context.Context, user *model.User, password string) (*model.User, RegisterOutcome, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hash
	user.UpdatedAt = time.Now().UTC()

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to set password: %w", err)
	}

	err = s.mailer.SendPasswordAddedEmail(ctx, user.Email, s.displayName(ctx, user))
	if err != nil {
		slog.Warn("failed to send password added email", "error", err, "user_id", user.ID)
	}

	slog.Info("password added to passwordless account", "user_id", user.ID)
	return user, RegisterPasswordAdded, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *model.User, name string) error {
	err := s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypeEmailVerify)
	if err != nil {
		slog.Warn("failed to delete old verification tokens", "error", err, "user_id", user.ID)
	}

	value, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailVerify,
		Token:     value,
		ExpiresAt: time.Now().Add(s.tokenEmailVerifyExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	return s.mailer.SendVerificationEmail(ctx, user.Email, value, name, s.tokenEmailVerifyExpiry)
}

// VerifyEmail consumes an email_verify token and marks the owner verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	t, err := s.tokenRepository.ConsumeToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	if t.Type != model.TokenTypeEmailVerify {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified() {
		return user, nil
	}

	now := time.Now().UTC()
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	err = s.mailer.SendWelcomeEmail(ctx, user.Email, s.displayName(ctx, user))
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("email verified", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

// AuthenticateOAuth finds or creates a verified, passwordless account for an
// email the provider has already verified.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, name, provider string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := time.Now().UTC()
		user = &model.User{
			ID:              uuid.New().String(),
			Email:           email,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err = s.userRepository.Create(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			name = validation.LocalPart(email)
		}

		err = s.profileRepository.Create(ctx, &model.Profile{
			UserID:    user.ID,
			Name:      name,
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}

		err = s.mailer.SendWelcomeEmail(ctx, email, name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}

		slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
		return user, nil
	}

	// The provider vouches for the address.
	if !user.IsVerified() {
		now := time.Now().UTC()
		user.EmailVerifiedAt = &now
		user.UpdatedAt = now
		err = s.userRepository.Update(ctx, user)
		if err != nil {
			slog.Warn("failed to mark email as verified", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
	return user, nil
}

// MarkVerified is used by operator tooling to skip the email round trip.
func (s *AuthService) MarkVerified(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now
	return s.userRepository.Update(ctx, user)
}

func (s *AuthService) displayName(ctx context.Context, user *model.User) string {
	profile, err := s.profileRepository.ByUserID(ctx, user.ID)
	if err == nil && profile.Name != "" {
		return profile.Name
	}
	return validation.LocalPart(user.Email)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
