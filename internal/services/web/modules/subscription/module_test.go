package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

func newTestModule(t *testing.T) (http.Handler, webstorage.Store) {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/cosmichub.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	if err := store.CreateUser(context.Background(), webstorage.User{
		ID:           "user-1",
		Email:        "astra@example.com",
		PasswordHash: []byte("hash"),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	resolvers := module.Resolvers{
		ResolveUserID:   func(*http.Request) string { return "user-1" },
		ResolveSignedIn: func(*http.Request) bool { return true },
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{DisplayName: "Astra", Tier: tiers.Free}
		},
	}
	mount, err := New(store, resolvers).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler, store
}

func TestShowDefaultsToFreePlan(t *testing.T) {
	handler, _ := newTestModule(t)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/subscription", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "free") {
		t.Fatalf("expected free plan in body: %s", body)
	}
}

func TestUpgradePersistsSubscription(t *testing.T) {
	handler, store := newTestModule(t)
	form := url.Values{"tier": {"premium"}}
	req := httptest.NewRequest(http.MethodPost, "/app/subscription/upgrade", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "/app/subscription" {
		t.Fatalf("location = %q", got)
	}
	sub, err := store.GetSubscription(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.Tier != "premium" {
		t.Fatalf("tier = %q, want premium", sub.Tier)
	}
	if sub.Status != "active" {
		t.Fatalf("status = %q, want active", sub.Status)
	}
}

func TestUpgradeRejectsUnknownTier(t *testing.T) {
	handler, _ := newTestModule(t)
	form := url.Values{"tier": {"cosmic"}}
	req := httptest.NewRequest(http.MethodPost, "/app/subscription/upgrade", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUsageReportsMeteredCounters(t *testing.T) {
	handler, store := newTestModule(t)
	ctx := context.Background()
	if _, err := store.IncrementUsage(ctx, "user-1", "chart_calcs", "2026-08-30"); err != nil {
		t.Fatalf("increment usage: %v", err)
	}
	if _, err := store.IncrementUsage(ctx, "user-1", "chart_calcs", "2026-08-30"); err != nil {
		t.Fatalf("increment usage: %v", err)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/subscription/usage", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var payload struct {
		Tier  string `json:"tier"`
		Usage []struct {
			Resource string `json:"resource"`
			Period   string `json:"period"`
			Used     int    `json:"used"`
			Limit    int    `json:"limit"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode usage: %v", err)
	}
	if payload.Tier != "free" {
		t.Fatalf("tier = %q, want free", payload.Tier)
	}
	if len(payload.Usage) != 1 {
		t.Fatalf("usage rows = %d, want 1", len(payload.Usage))
	}
	row := payload.Usage[0]
	if row.Resource != "chart_calcs" || row.Used != 2 || row.Limit != 10 {
		t.Fatalf("unexpected usage row: %+v", row)
	}
}

func TestUpgradeGetMethodNotAllowed(t *testing.T) {
	handler, _ := newTestModule(t)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/subscription/upgrade", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}
