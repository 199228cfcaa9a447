package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Purpose scopes a token to the flow it was issued for.
type Purpose string

const (
	PurposeSession Purpose = "session"
	PurposeReset   Purpose = "reset"
)

var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

// Claims is the payload carried by every token.
type Claims struct {
	UserID  string  `json:"userId"`
	Purpose Purpose `json:"purpose"`
	gojwt.RegisteredClaims
}

type JWTService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

type Option func(*JWTService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(secret string, sessionTTL, resetTTL time.Duration, opts ...Option) *JWTService {
	s := &JWTService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for userID that expires ttl from now.
func (s *JWTService) Issue(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("jwt: empty user id")
	}
	now := s.now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) GenerateSessionToken(userID string) (string, error) {
	return s.Issue(userID, PurposeSession, s.sessionTTL)
}

func (s *JWTService) GenerateResetToken(userID string) (string, error) {
	return s.Issue(userID, PurposeReset, s.resetTTL)
}

// Verify checks signature, expiry and purpose and returns the embedded user id.
func (s *JWTService) Verify(raw string, purpose Purpose) (string, error) {
	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(raw, claims, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, gojwt.ErrTokenExpired):
		return "", ErrExpired
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid), errors.Is(err, gojwt.ErrTokenUnverifiable):
		return "", ErrBadSignature
	default:
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.UserID == "" {
		return "", ErrMalformed
	}
	if claims.Purpose != purpose {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

func (s *JWTService) VerifySessionToken(raw string) (string, error) {
	return s.Verify(raw, PurposeSession)
}
