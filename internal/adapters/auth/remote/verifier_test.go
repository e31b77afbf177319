package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func identityStub(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	v, err := NewVerifier(Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerify_OK(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	v := identityStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/verify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{
				"id":        "u-123",
				"firstName": "Ana",
				"lastName":  "García",
				"username":  "anag",
			},
		})
	})

	claims, err := v.Verify(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u-123" || claims.Username != "anag" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotBody["token"] != "tok-abc" {
		t.Fatalf("expected token in body, got %+v", gotBody)
	}
}

func TestVerify_Rejected(t *testing.T) {
	v := identityStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerify_UpstreamFailure(t *testing.T) {
	v := identityStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for 500, got %v", err)
	}

	// Respuesta 200 sin user id tampoco sirve
	v = identityStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{}}`))
	})
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for missing user id, got %v", err)
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	v := identityStub(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("identity service must not be called for empty token")
	})

	if _, err := v.Verify(context.Background(), "   "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
