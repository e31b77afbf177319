package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-log/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

const DefaultExpiry = 7 * 24 * time.Hour

type Config struct {
	// Secret firma HS256. Obligatorio; acá no hay default inseguro.
	Secret string
	// Expiry <= 0 usa DefaultExpiry. Negativo solo tiene sentido en tests
	// (emite tokens ya vencidos).
	Expiry time.Duration
}

// Service implementa auth.TokenIssuer y auth.AuthVerifier con JWT HS256.
// Los claims de identidad van anidados bajo la clave "user"; el subject es
// el username.
type Service struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func New(cfg Config) *Service {
	expiry := cfg.Expiry
	if expiry == 0 {
		expiry = DefaultExpiry
	}
	return &Service{
		secret: []byte(cfg.Secret),
		expiry: expiry,
		now:    time.Now,
	}
}

type userClaims struct {
	User struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
	} `json:"user"`
	jwt.RegisteredClaims
}

func (s *Service) Issue(ctx context.Context, c auth.Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(c.UserID) == "" {
		return "", errors.New("claims missing user id")
	}

	now := s.now()

	var claims userClaims
	claims.User.ID = c.UserID
	claims.User.FirstName = c.FirstName
	claims.User.LastName = c.LastName
	claims.User.Username = c.Username
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   c.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if len(s.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var claims userClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	out := auth.Claims{
		UserID:    strings.TrimSpace(claims.User.ID),
		FirstName: strings.TrimSpace(claims.User.FirstName),
		LastName:  strings.TrimSpace(claims.User.LastName),
		Username:  strings.TrimSpace(claims.User.Username),
	}
	if out.UserID == "" {
		return auth.Claims{}, ErrInvalidToken
	}
	return out, nil
}
