package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-log/internal/ports/auth"
	"pet-log/internal/ports/credentials"
	"pet-log/internal/validate"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrConflict       = errors.New("username already taken")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNoIssuer       = errors.New("token issuer not configured")
)

type Service struct {
	repo   Repository
	hasher credentials.PasswordHasher
	issuer auth.TokenIssuer
	now    func() time.Time
}

// NewService arma el service de usuarios. issuer puede ser nil (modo dev sin
// login); en ese caso Login/Refresh devuelven ErrNoIssuer.
func NewService(repo Repository, hasher credentials.PasswordHasher, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		now:    time.Now,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// ValidateRegister aplica el esquema de registro: los cuatro campos son
// requeridos, no vacíos después de trim.
func ValidateRegister(in RegisterInput) validate.Violations {
	c := validate.New()
	c.Required("firstName", in.FirstName)
	c.Required("lastName", in.LastName)
	c.Required("username", in.Username)
	c.Required("password", in.Password)
	return c.Result()
}

// Register crea el usuario con la contraseña ya hasheada.
// La unicidad del username la garantiza el repo (ErrConflict).
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if v := ValidateRegister(in); v != nil {
		return User{}, v
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifica credenciales y emite un token con los claims del usuario.
// Usuario inexistente y contraseña incorrecta devuelven el mismo error para
// no filtrar qué usernames existen.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if s.issuer == nil {
		return "", ErrNoIssuer
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrBadCredentials
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", ErrBadCredentials
	}

	return s.issuer.Issue(ctx, auth.Claims{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	})
}

// Refresh re-emite un token para un principal ya autenticado.
func (s *Service) Refresh(ctx context.Context, claims auth.Claims) (string, error) {
	if s.issuer == nil {
		return "", ErrNoIssuer
	}
	return s.issuer.Issue(ctx, claims)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}
