package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-log/internal/platform/httpclient"
	"pet-log/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrUnauthorized  = errors.New("remote verifier rejected token")
	ErrUpstream      = errors.New("identity service error")
)

// Config del verificador remoto. BaseURL normalmente viene de AUTH_VERIFY_URL.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Transport opcional para tests.
	Transport http.RoundTripper
}

// Verifier implementa auth.AuthVerifier delegando en un servicio de identidad
// externo. Alternativa al verificador JWT local para despliegues donde los
// tokens los emite otro sistema.
type Verifier struct {
	client *httpclient.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	var c *httpclient.Client
	if cfg.Transport != nil {
		c = httpclient.NewWithTransport(cfg.Timeout, cfg.Transport)
		c.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	} else {
		var err error
		c, err = httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
	}

	return &Verifier{client: c}, nil
}

type verifyResponse struct {
	User struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
	} `json:"user"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, http.MethodPost, "/verify",
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, he.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	claims := auth.Claims{
		UserID:    strings.TrimSpace(out.User.ID),
		FirstName: strings.TrimSpace(out.User.FirstName),
		LastName:  strings.TrimSpace(out.User.LastName),
		Username:  strings.TrimSpace(out.User.Username),
	}
	if claims.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user id", ErrUpstream)
	}
	return claims, nil
}
