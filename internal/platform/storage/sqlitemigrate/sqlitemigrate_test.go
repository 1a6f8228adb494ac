package sqlitemigrate

import (
	"database/sql"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

const createChartsSQL = "-- +migrate Up\nCREATE TABLE saved_charts(id TEXT PRIMARY KEY, user_id TEXT NOT NULL, name TEXT NOT NULL);"

func TestApplyMigrationsRunsInFileOrder(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_charts.sql": &fstest.MapFile{Data: []byte(createChartsSQL)},
		"002_charts_timezone.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nALTER TABLE saved_charts ADD COLUMN timezone TEXT NOT NULL DEFAULT '';"),
		},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countRows(t, db, "schema_migrations"); got != 2 {
		t.Fatalf("recorded migrations = %d, want 2", got)
	}
	if _, err := db.Exec("INSERT INTO saved_charts(id, user_id, name, timezone) VALUES ('c1', 'u1', 'Natal', 'UTC')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"001_charts.sql": &fstest.MapFile{Data: []byte(createChartsSQL)},
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("recorded migrations after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsLeavesFailureUnrecorded(t *testing.T) {
	db := openTestDB(t)

	broken := fstest.MapFS{
		"001_usage.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT TABLE usage_counters(user_id TEXT);"),
		},
	}
	if err := ApplyMigrations(db, broken, ""); err == nil {
		t.Fatal("expected broken migration to fail")
	}
	if got := countRows(t, db, "schema_migrations"); got != 0 {
		t.Fatalf("recorded migrations after failure = %d, want 0", got)
	}

	fixed := fstest.MapFS{
		"001_usage.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE usage_counters(user_id TEXT NOT NULL, resource TEXT NOT NULL, period TEXT NOT NULL, count INTEGER NOT NULL DEFAULT 0, PRIMARY KEY(user_id, resource, period));"),
		},
	}
	if err := ApplyMigrations(db, fixed, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("recorded migrations after fix = %d, want 1", got)
	}
}

func TestApplyMigrationsUsesMigrationRoot(t *testing.T) {
	db := openTestDB(t)

	migrations := fstest.MapFS{
		"migrations/001_charts.sql": &fstest.MapFile{Data: []byte(createChartsSQL)},
	}
	if err := ApplyMigrations(db, migrations, "migrations"); err != nil {
		t.Fatalf("apply rooted migrations: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("read migration key: %v", err)
	}
	if key != "migrations/001_charts.sql" {
		t.Fatalf("migration key = %q, want rooted path", key)
	}
}

func TestExtractUpMigrationStopsAtDown(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id TEXT);\n-- +migrate Down\nDROP TABLE a;"
	up := strings.TrimSpace(ExtractUpMigration(content))
	if up != "CREATE TABLE a(id TEXT);" {
		t.Fatalf("up migration = %q", up)
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close sqlite: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
