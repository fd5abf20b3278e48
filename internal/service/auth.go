package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/golfjournal/internal/metrics"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/validation"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidSignInToken = errors.New("invalid or expired sign-in link")
	ErrInvalidSession     = errors.New("invalid session")
)

type AuthService struct {
	userRepository    repository.UserRepository
	tokenRepository   repository.TokenRepository
	emailService      *EmailService
	jwtSecret         string
	isProduction      bool
	jwtExpiry         time.Duration
	tokenSignInExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenSignInExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		tokenRepository:   tokenRepository,
		emailService:      emailService,
		jwtSecret:         jwtSecret,
		isProduction:      isProduction,
		jwtExpiry:         jwtExpiry,
		tokenSignInExpiry: tokenSignInExpiry,
	}
}

// SignInAnonymous starts a guest session with no email attached.
func (s *AuthService) SignInAnonymous(ctx context.Context) (*model.User, error) {
	user := &model.User{
		ID:        uuid.New().String(),
		Provider:  model.ProviderAnonymous,
		CreatedAt: time.Now().UTC(),
	}

	err := s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.SignIn(model.ProviderAnonymous)
	slog.Info("anonymous session started", "user_id", user.ID)
	return user, nil
}

// AuthenticateOAuth signs in with an email the provider has verified,
// creating the user on first sign-in.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	user, err := s.findOrCreate(ctx, email, provider)
	if err != nil {
		return nil, err
	}

	metrics.SignIn(provider)
	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
	return user, nil
}

// IssueSignInToken pre-issues a single-use token for email. Any earlier
// unused token for the same user is revoked.
func (s *AuthService) IssueSignInToken(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.findOrCreate(ctx, email, model.ProviderToken)
	if err != nil {
		return nil, "", err
	}

	err = s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypeSignIn)
	if err != nil {
		slog.Warn("failed to delete old sign-in tokens", "error", err, "user_id", user.ID)
	}

	value, err := s.GenerateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeSignIn,
		ExpiresAt: time.Now().UTC().Add(s.tokenSignInExpiry),
	}
	err = s.tokenRepository.Create(ctx, token, value)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return user, value, nil
}

// SendSignInLink issues a token and emails the redemption link.
func (s *AuthService) SendSignInLink(ctx context.Context, email string) error {
	user, value, err := s.IssueSignInToken(ctx, email)
	if err != nil {
		return err
	}

	err = s.emailService.SendSignInEmail(ctx, *user.Email, value, s.tokenSignInExpiry)
	if err != nil {
		slog.Error("failed to send sign-in email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("sign-in link sent", "user_id", user.ID)
	return nil
}

// RedeemSignInToken consumes a token. A token works once, before it expires.
func (s *AuthService) RedeemSignInToken(ctx context.Context, value string) (*model.User, error) {
	token, err := s.tokenRepository.ConsumeToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidSignInToken
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	if token.Type != model.TokenTypeSignIn {
		return nil, ErrInvalidSignInToken
	}

	user, err := s.userRepository.ByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	metrics.SignIn(model.ProviderToken)
	slog.Info("user authenticated via sign-in token", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, email, provider string) (*model.User, error) {
	email = validation.NormalizeEmail(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	user = &model.User{
		ID:        uuid.New().String(),
		Email:     &email,
		Provider:  provider,
		CreatedAt: time.Now().UTC(),
	}
	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// lost a race with a concurrent sign-in for the same address
		return s.userRepository.ByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateJWT returns the signed session token and its expiry.
func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"provider": user.Provider,
		"exp":      expiry.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
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

	return nil, ErrInvalidSession
}

// CurrentUser resolves the user behind a session token.
func (s *AuthService) CurrentUser(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidSession
	}

	return s.userRepository.ByID(ctx, userID)
}

// StartSession issues the session cookie for user.
func (s *AuthService) StartSession(w http.ResponseWriter, user *model.User) error {
	token, expiry, err := s.GenerateJWT(user)
	if err != nil {
		return fmt.Errorf("failed to generate session: %w", err)
	}
	s.SetJWTCookie(w, token, expiry)
	return nil
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
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// CleanupTokens removes used and expired sign-in tokens past retention.
func (s *AuthService) CleanupTokens(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.tokenRepository.CleanupExpired(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up tokens: %w", err)
	}
	metrics.TokensCleaned(n)
	return n, nil
}
