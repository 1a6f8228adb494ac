package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := Config{
		HTTPAddr:     "localhost:0",
		DatabasePath: t.TempDir() + "/cosmichub.db",
		TokenSecret:  []byte("test-secret"),
		TokenTTL:     time.Hour,
		SessionTTL:   24 * time.Hour,
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	tokens, err := token.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	handler, err := BuildRootHandler(store, tokens, cfg)
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	return handler
}

func signup(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	form := url.Values{
		"display_name": {"Astra"},
		"email":        {"astra@example.com"},
		"password":     {"correct horse"},
	}
	req := httptest.NewRequest(http.MethodPost, "http://example.com/auth/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("signup status = %d: %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "cosmichub_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("signup response has no session cookie")
	return nil
}

func TestNewServerValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing addr", cfg: Config{DatabasePath: "x.db", TokenSecret: []byte("s")}},
		{name: "missing database", cfg: Config{HTTPAddr: "localhost:0", TokenSecret: []byte("s")}},
		{name: "missing secret", cfg: Config{HTTPAddr: "localhost:0", DatabasePath: "x.db"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewServer(tc.cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestAnonymousAppRequestRedirectsToLogin(t *testing.T) {
	handler := newTestHandler(t)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/auth/login" {
		t.Fatalf("location = %q", got)
	}
}

func TestSessionCookieGrantsAppAccess(t *testing.T) {
	handler := newTestHandler(t)
	cookie := signup(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/app/charts", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Saved Charts") {
		t.Fatalf("expected charts page, got: %s", w.Body.String())
	}
}

func TestBearerTokenGrantsAPIAccess(t *testing.T) {
	handler := newTestHandler(t)
	signup(t, handler)

	body, err := json.Marshal(map[string]string{
		"email":    "astra@example.com",
		"password": "correct horse",
	})
	if err != nil {
		t.Fatalf("marshal credentials: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token status = %d: %s", w.Code, w.Body.String())
	}
	var issued struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode token: %v", err)
	}

	calc, err := json.Marshal(map[string]string{
		"birth_date": "1990-06-15",
		"birth_time": "14:30",
	})
	if err != nil {
		t.Fatalf("marshal birth data: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewReader(calc))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("calculate status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "placements") {
		t.Fatalf("expected chart payload, got: %s", w.Body.String())
	}
}

func TestAnonymousAPIRequestUnauthorized(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"birth_date":"1990-06-15"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
