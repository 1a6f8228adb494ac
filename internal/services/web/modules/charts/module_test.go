package charts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

func newTestHandler(t *testing.T, tier tiers.Tier) (http.Handler, webstorage.Store) {
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
		DisplayName:  "Astra",
		PasswordHash: []byte("hash"),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resolvers := module.Resolvers{
		ResolveUserID: func(*http.Request) string { return "user-1" },
		ResolveTier:   func(*http.Request) tiers.Tier { return tier },
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{DisplayName: "Astra", Tier: tier}
		},
	}
	mount, err := New(store, resolvers).Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return mount.Handler, store
}

func createChart(t *testing.T, handler http.Handler, name string) string {
	t.Helper()
	form := url.Values{
		"name":       {name},
		"birth_date": {"1990-06-15"},
		"birth_time": {"14:30"},
		"city":       {"Lisbon"},
		"timezone":   {"Europe/Lisbon"},
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/app/charts", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusFound {
		t.Fatalf("create status = %d, body = %q", w.Code, w.Body.String())
	}
	location := w.Header().Get("Location")
	match := regexp.MustCompile(`^/app/charts/([a-z0-9]{26})$`).FindStringSubmatch(location)
	if match == nil {
		t.Fatalf("location = %q", location)
	}
	return match[1]
}

func TestCreateAndViewChart(t *testing.T) {
	handler, _ := newTestHandler(t, tiers.Free)
	chartID := createChart(t, handler, "My Natal")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts/"+chartID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "My Natal") {
		t.Fatalf("body = %q", body)
	}
	if !strings.Contains(body, "<td>sun</td>") && !strings.Contains(body, "<td>Sun</td>") {
		t.Fatalf("expected placements table in %q", body)
	}
}

func TestCreateEnforcesSavedChartLimit(t *testing.T) {
	handler, _ := newTestHandler(t, tiers.Free)
	for i := 0; i < 3; i++ {
		createChart(t, handler, "Chart")
	}

	form := url.Values{
		"name":       {"One Too Many"},
		"birth_date": {"1990-06-15"},
		"birth_time": {"14:30"},
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/app/charts", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
}

func TestCreateRejectsInvalidBirthDate(t *testing.T) {
	handler, _ := newTestHandler(t, tiers.Free)
	form := url.Values{
		"name":       {"Bad Date"},
		"birth_date": {"1990-02-30"},
		"birth_time": {"14:30"},
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/app/charts", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	handler, store := newTestHandler(t, tiers.Elite)
	for i := 0; i < 25; i++ {
		createChart(t, handler, "Chart")
	}
	_ = store

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "page_token=") {
		t.Fatalf("expected pagination link in %q", body)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts?filter="+url.QueryEscape(`kind = "solar_return"`), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("filtered status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No charts yet.") {
		t.Fatalf("filtered body = %q", w.Body.String())
	}
}

func TestListRejectsUnknownFilterField(t *testing.T) {
	handler, _ := newTestHandler(t, tiers.Free)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts?filter="+url.QueryEscape(`secret = "x"`), nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDeleteChart(t *testing.T) {
	handler, store := newTestHandler(t, tiers.Free)
	chartID := createChart(t, handler, "Short Lived")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/app/charts/"+chartID+"/delete", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("delete status = %d", w.Code)
	}
	if _, err := store.GetChart(context.Background(), "user-1", chartID); err == nil {
		t.Fatalf("expected chart to be deleted")
	}
}

func TestDetailUnknownChartIsNotFound(t *testing.T) {
	handler, _ := newTestHandler(t, tiers.Free)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/charts/aaaaaaaaaaaaaaaaaaaaaaaaaa", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
