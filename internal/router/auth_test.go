package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-log/internal/adapters/auth/jwtauth"
	"pet-log/internal/ports/auth"
	"pet-log/internal/router"
)

const testSecret = "test-secret-not-for-prod"

func newJWTServer(t *testing.T, expiry time.Duration) *httptest.Server {
	t.Helper()

	jwtSvc := jwtauth.New(jwtauth.Config{Secret: testSecret, Expiry: expiry})
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: jwtSvc,
		TokenIssuer:  jwtSvc,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_RegisterLoginFlow(t *testing.T) {
	ts := newJWTServer(t, 0)

	// 1) Registro
	st, body := doReq(t, ts.URL, "POST", "/api/user", "", map[string]any{
		"firstName": "Ana",
		"lastName":  "García",
		"username":  "anag",
		"password":  "s3creto",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	var created struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		Username  string `json:"username"`
	}
	_ = json.Unmarshal(body, &created)
	if created.ID == "" || created.Username != "anag" {
		t.Fatalf("register response incomplete: %s", string(body))
	}
	if strings.Contains(string(body), "password") || strings.Contains(string(body), "Hash") {
		t.Fatalf("register response must not leak credentials: %s", string(body))
	}

	// 2) Username duplicado => 409
	st, _ = doReq(t, ts.URL, "POST", "/api/user", "", map[string]any{
		"firstName": "Otra",
		"lastName":  "Ana",
		"username":  "anag",
		"password":  "x",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate username, got %d", st)
	}

	// 3) Registro incompleto => 422
	st, body = doReq(t, ts.URL, "POST", "/api/user", "", map[string]any{
		"username": "solo",
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 incomplete register, got %d body=%s", st, string(body))
	}

	// 4) Login malo => 401; usuario inexistente también 401 (respuesta uniforme)
	st, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
		"username": "anag", "password": "wrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 bad password, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
		"username": "nadie", "password": "s3creto",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 unknown user, got %d", st)
	}

	// 5) Login bueno => token utilizable
	token := login(t, ts.URL, "anag", "s3creto")

	st, body = doAuthReq(t, ts.URL, "POST", "/api/dog", token, map[string]any{
		"name": "Milo", "gender": "male",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog with token, got %d body=%s", st, string(body))
	}
	var dog struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &dog)

	// 6) El dueño del perro se proyecta desde el usuario registrado
	st, body = doReq(t, ts.URL, "GET", "/api/dog/"+dog.ID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get dog, got %d", st)
	}
	var dogResp struct {
		User struct {
			ID        string `json:"id"`
			FirstName string `json:"firstName"`
			Username  string `json:"username"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &dogResp)
	if dogResp.User.ID != created.ID || dogResp.User.FirstName != "Ana" || dogResp.User.Username != "anag" {
		t.Fatalf("owner projection mismatch: %s", string(body))
	}

	// 7) Refresh con token válido emite uno nuevo también utilizable
	st, body = doAuthReq(t, ts.URL, "POST", "/api/auth/refresh", token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 refresh, got %d body=%s", st, string(body))
	}
	var refreshed struct {
		AuthToken string `json:"authToken"`
	}
	_ = json.Unmarshal(body, &refreshed)
	if refreshed.AuthToken == "" {
		t.Fatalf("refresh must return authToken: %s", string(body))
	}
	st, _ = doAuthReq(t, ts.URL, "GET", "/api/dog", refreshed.AuthToken, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list dogs with refreshed token, got %d", st)
	}
}

func TestHTTP_InvalidTokens(t *testing.T) {
	ts := newJWTServer(t, 0)

	// Token basura
	st, _ := doAuthReq(t, ts.URL, "GET", "/api/dog", "garbage.token.here", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 garbage token, got %d", st)
	}

	// Token firmado con otro secret
	other := jwtauth.New(jwtauth.Config{Secret: "another-secret"})
	foreign := issueTestToken(t, other, "u1", "eve")
	st, _ = doAuthReq(t, ts.URL, "GET", "/api/dog", foreign, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 wrong-secret token, got %d", st)
	}

	// El header de dev no cuenta cuando hay verificador real
	st, _ = doReq(t, ts.URL, "GET", "/api/dog", "debug-user", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 debug header with real verifier, got %d", st)
	}
}

func TestHTTP_ExpiredToken(t *testing.T) {
	// Expiry negativo emite tokens ya vencidos.
	expired := jwtauth.New(jwtauth.Config{Secret: testSecret, Expiry: -time.Hour})
	live := jwtauth.New(jwtauth.Config{Secret: testSecret})

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: live,
		TokenIssuer:  live,
	}))
	defer ts.Close()

	token := issueTestToken(t, expired, "u1", "anag")

	st, _ := doAuthReq(t, ts.URL, "POST", "/api/dog", token, map[string]any{
		"name": "Milo", "gender": "male",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 expired token, got %d", st)
	}

	// Y el perro no se creó
	st, body := doReq(t, ts.URL, "GET", "/api/dog/all", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list all, got %d", st)
	}
	if ids := dogIDs(t, body); len(ids) != 0 {
		t.Fatalf("expired token must not mutate, got %v", ids)
	}
}

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}
	var resp struct {
		AuthToken string `json:"authToken"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.AuthToken == "" {
		t.Fatalf("login: missing authToken body=%s", string(body))
	}
	return resp.AuthToken
}

func issueTestToken(t *testing.T, svc *jwtauth.Service, userID, username string) string {
	t.Helper()

	token, err := svc.Issue(context.Background(), auth.Claims{UserID: userID, Username: username})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doAuthReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
