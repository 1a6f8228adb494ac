package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	_ "modernc.org/sqlite"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cosmichub.db")
	store := openStore(t, path)
	_ = store

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	assertTableExists(t, sqlDB, "users")
	assertTableExists(t, sqlDB, "sessions")
	assertTableExists(t, sqlDB, "saved_charts")
	assertTableExists(t, sqlDB, "subscriptions")
	assertTableExists(t, sqlDB, "usage_counters")
}

func TestUserRoundTrip(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	user := webstorage.User{
		ID:           "user-1",
		Email:        "Astra@Example.com",
		DisplayName:  "Astra",
		PasswordHash: []byte("bcrypt-hash"),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != "astra@example.com" {
		t.Fatalf("email = %q, want lowercased", got.Email)
	}
	if got.DisplayName != "Astra" {
		t.Fatalf("display name = %q", got.DisplayName)
	}
	if string(got.PasswordHash) != "bcrypt-hash" {
		t.Fatalf("password hash mismatch")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	byEmail, err := store.GetUserByEmail(ctx, "ASTRA@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("user id = %q", byEmail.ID)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateUser(ctx, testUser("user-2", "astra@example.com")); err == nil {
		t.Fatalf("expected duplicate email error")
	}
}

func TestGetUserMissing(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	expiresAt := time.Now().UTC().Add(time.Hour)
	session := webstorage.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: expiresAt}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("session user = %q", got.UserID)
	}
	wantExpiry := expiresAt.Truncate(time.Millisecond)
	if !got.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires at = %v, want %v", got.ExpiresAt, wantExpiry)
	}

	if err := store.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.GetSession(ctx, "sess-1"); !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetSessionSkipsExpired(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	expired := webstorage.Session{
		ID:        "sess-old",
		UserID:    "user-1",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := store.CreateSession(ctx, expired); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := store.GetSession(ctx, "sess-old"); !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	removed, err := store.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("delete expired sessions: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}

func TestChartRoundTrip(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	latitude := 40.7128
	longitude := -74.0060
	chart := webstorage.SavedChart{
		ID:        "chart-1",
		UserID:    "user-1",
		Name:      "Natal Chart",
		Kind:      "natal",
		BirthDate: "1990-06-15",
		BirthTime: "14:30",
		City:      "New York",
		Timezone:  "America/New_York",
		Latitude:  &latitude,
		Longitude: &longitude,
		ChartJSON: mustJSON(t, map[string]string{"sun": "Gemini"}),
	}
	if err := store.CreateChart(ctx, chart); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	got, err := store.GetChart(ctx, "user-1", "chart-1")
	if err != nil {
		t.Fatalf("get chart: %v", err)
	}
	if got.Seq == 0 {
		t.Fatalf("expected assigned seq")
	}
	if got.Name != "Natal Chart" || got.City != "New York" {
		t.Fatalf("chart = %+v", got)
	}
	if got.Latitude == nil || *got.Latitude != latitude {
		t.Fatalf("latitude = %v", got.Latitude)
	}
	if string(got.ChartJSON) != string(chart.ChartJSON) {
		t.Fatalf("chart json mismatch")
	}
}

func TestGetChartRequiresOwnership(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateChart(ctx, testChart("chart-1", "user-1", "Mine")); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	if _, err := store.GetChart(ctx, "user-2", "chart-1"); !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := store.DeleteChart(ctx, "user-2", "chart-1"); !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListChartsPaginatesBySeq(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 1; i <= 5; i++ {
		chart := testChart(fmt.Sprintf("chart-%d", i), "user-1", fmt.Sprintf("Chart %d", i))
		if err := store.CreateChart(ctx, chart); err != nil {
			t.Fatalf("create chart %d: %v", i, err)
		}
	}

	first, err := store.ListCharts(ctx, webstorage.ChartQuery{UserID: "user-1", PageSize: 2})
	if err != nil {
		t.Fatalf("list charts: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("page len = %d, want 2", len(first))
	}
	if first[0].Name != "Chart 1" || first[1].Name != "Chart 2" {
		t.Fatalf("page order = %q, %q", first[0].Name, first[1].Name)
	}

	second, err := store.ListCharts(ctx, webstorage.ChartQuery{
		UserID:   "user-1",
		AfterSeq: first[1].Seq,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("list charts page 2: %v", err)
	}
	if len(second) != 2 || second[0].Name != "Chart 3" {
		t.Fatalf("page 2 = %+v", second)
	}
}

func TestListChartsAppliesFilterCondition(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	natal := testChart("chart-1", "user-1", "Natal")
	if err := store.CreateChart(ctx, natal); err != nil {
		t.Fatalf("create chart: %v", err)
	}
	solar := testChart("chart-2", "user-1", "Solar Return")
	solar.Kind = "solar_return"
	if err := store.CreateChart(ctx, solar); err != nil {
		t.Fatalf("create chart: %v", err)
	}

	charts, err := store.ListCharts(ctx, webstorage.ChartQuery{
		UserID:   "user-1",
		Where:    "kind = ?",
		Params:   []any{"solar_return"},
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list charts: %v", err)
	}
	if len(charts) != 1 || charts[0].ID != "chart-2" {
		t.Fatalf("charts = %+v", charts)
	}
}

func TestCountCharts(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := store.CreateChart(ctx, testChart(fmt.Sprintf("chart-%d", i), "user-1", "Chart")); err != nil {
			t.Fatalf("create chart: %v", err)
		}
	}

	count, err := store.CountCharts(ctx, "user-1")
	if err != nil {
		t.Fatalf("count charts: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestSubscriptionUpsert(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := store.GetSubscription(ctx, "user-1"); !errors.Is(err, webstorage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	sub := webstorage.Subscription{
		UserID:   "user-1",
		Tier:     "premium",
		Status:   "active",
		RenewsAt: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
	if err := store.PutSubscription(ctx, sub); err != nil {
		t.Fatalf("put subscription: %v", err)
	}

	sub.Tier = "elite"
	if err := store.PutSubscription(ctx, sub); err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}

	got, err := store.GetSubscription(ctx, "user-1")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if got.Tier != "elite" || got.Status != "active" {
		t.Fatalf("subscription = %+v", got)
	}
}

func TestUsageCounters(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "cosmichub.db"))
	ctx := context.Background()

	if err := store.CreateUser(ctx, testUser("user-1", "astra@example.com")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 1; i <= 3; i++ {
		count, err := store.IncrementUsage(ctx, "user-1", "chart_calcs", "2026-08-30")
		if err != nil {
			t.Fatalf("increment usage: %v", err)
		}
		if count != i {
			t.Fatalf("count = %d, want %d", count, i)
		}
	}

	count, err := store.GetUsage(ctx, "user-1", "chart_calcs", "2026-08-30")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	absent, err := store.GetUsage(ctx, "user-1", "transit_calcs", "2026-08-30")
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if absent != 0 {
		t.Fatalf("absent count = %d, want 0", absent)
	}

	if _, err := store.IncrementUsage(ctx, "user-1", "synastry_reports", "2026-08"); err != nil {
		t.Fatalf("increment usage: %v", err)
	}

	counters, err := store.ListUsage(ctx, "user-1")
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	if len(counters) != 2 {
		t.Fatalf("counters = %+v", counters)
	}
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store
}

func testUser(id, email string) webstorage.User {
	return webstorage.User{
		ID:           id,
		Email:        email,
		DisplayName:  "Astra",
		PasswordHash: []byte("bcrypt-hash"),
	}
}

func testChart(id, userID, name string) webstorage.SavedChart {
	return webstorage.SavedChart{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Kind:      "natal",
		BirthDate: "1990-06-15",
		BirthTime: "14:30",
		City:      "New York",
		Timezone:  "America/New_York",
		ChartJSON: []byte(`{"sun":"Gemini"}`),
	}
}

func mustJSON(t *testing.T, value any) []byte {
	t.Helper()
	raw, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func assertTableExists(t *testing.T, sqlDB *sql.DB, name string) {
	t.Helper()
	var found string
	err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err != nil {
		t.Fatalf("table %q: %v", name, err)
	}
}
