package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"trackit-be/internal/cache"
	"trackit-be/internal/entities"
	"trackit-be/internal/models"
	"trackit-be/internal/password"
	"trackit-be/internal/repository"
)

// TokenIssuer signs session and password-reset tokens
type TokenIssuer interface {
	GenerateSessionToken(userID string) (string, error)
	GenerateResetToken(userID string) (string, error)
}

// ResetMailer delivers password reset links
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
}

// AuthConfig holds the tunables of the auth flows
type AuthConfig struct {
	FrontendURL   string        // reset links point at <FrontendURL>/reset-password/<token>
	ResetCooldown time.Duration // zero disables the per-address cooldown
}

type authService struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens TokenIssuer
	mailer ResetMailer
	cache  cache.Cache // optional
	cfg    AuthConfig
	log    *zap.SugaredLogger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new auth service. cache may be nil.
func NewAuthService(
	users repository.UserRepository,
	hasher password.Hasher,
	tokens TokenIssuer,
	mailer ResetMailer,
	cacheClient cache.Cache,
	cfg AuthConfig,
	log *zap.SugaredLogger,
) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		cache:  cacheClient,
		cfg:    cfg,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new user account
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) error {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return newPublicError(ErrValidation, "Name, email and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return newPublicError(ErrConflict, "User already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError("find user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return newPublicError(ErrValidation, "Password must be at most 72 bytes")
		}
		return internalError("hash password", err)
	}

	user, err := s.users.Create(ctx, &entities.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// lost a race with a concurrent signup for the same address
		return newPublicError(ErrConflict, "User already exists")
	}
	if err != nil {
		return storeError("create user", err)
	}

	s.log.Infow("user signed up", "user_id", user.ID)
	return nil
}

// Login authenticates a user and returns a session token.
// Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	invalid := newPublicError(ErrInvalidCredentials, "Invalid credentials")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		// keep the timing of the unknown-email path close to a real comparison
		s.hasher.Verify(req.Password, s.dummy())
		return nil, invalid
	}
	if err != nil {
		return nil, storeError("find user", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, invalid
	}

	token, err := s.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, internalError("sign session token", err)
	}

	s.log.Infow("user logged in", "user_id", user.ID)
	return &models.LoginResponse{Token: token}, nil
}

// ForgotPassword emails a short-lived reset link to a registered address
func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return newPublicError(ErrValidation, "Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return newPublicError(ErrNotFound, "User not found")
	}
	if err != nil {
		return storeError("find user", err)
	}

	release, err := s.acquireCooldown(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.GenerateResetToken(user.ID)
	if err != nil {
		release()
		return internalError("sign reset token", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, token)
	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		release()
		s.log.Errorw("reset email failed", "user_id", user.ID, "error", err)
		return newPublicError(ErrMailDeliveryFailed, "Failed to send email")
	}

	s.log.Infow("reset email sent", "user_id", user.ID)
	return nil
}

// acquireCooldown claims the reset slot for email. The returned func gives it
// back. Cache failures are logged and do not block the reset.
func (s *authService) acquireCooldown(ctx context.Context, email string) (func(), error) {
	noop := func() {}
	if s.cache == nil || s.cfg.ResetCooldown <= 0 {
		return noop, nil
	}

	key := "reset-cooldown:" + email
	ok, err := s.cache.SetNX(ctx, key, "1", s.cfg.ResetCooldown)
	if err != nil {
		s.log.Warnw("reset cooldown unavailable", "error", err)
		return noop, nil
	}
	if !ok {
		return nil, newPublicError(ErrRateLimited, "A reset link was sent recently, please try again later")
	}

	return func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.log.Warnw("failed to release reset cooldown", "error", err)
		}
	}, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("trackit-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
