package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/cosmichub/cosmichub/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for the web service.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a web SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateUser inserts a new account row.
func (s *Store) CreateUser(ctx context.Context, user webstorage.User) error {
	if err := s.ready(); err != nil {
		return err
	}
	user.ID = strings.TrimSpace(user.ID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if user.Email == "" {
		return fmt.Errorf("user email is required")
	}
	if len(user.PasswordHash) == 0 {
		return fmt.Errorf("password hash is required")
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		strings.TrimSpace(user.DisplayName),
		user.PasswordHash,
		timeToUnixMillis(user.CreatedAt),
		timeToUnixMillis(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads an account by id.
func (s *Store) GetUser(ctx context.Context, userID string) (webstorage.User, error) {
	if err := s.ready(); err != nil {
		return webstorage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`,
		strings.TrimSpace(userID),
	)
	return scanUser(row)
}

// GetUserByEmail loads an account by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (webstorage.User, error) {
	if err := s.ready(); err != nil {
		return webstorage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (webstorage.User, error) {
	var user webstorage.User
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.User{}, webstorage.ErrNotFound
		}
		return webstorage.User{}, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = unixMillisToTime(createdAt)
	user.UpdatedAt = unixMillisToTime(updatedAt)
	return user, nil
}

// CreateSession inserts a login session.
func (s *Store) CreateSession(ctx context.Context, session webstorage.Session) error {
	if err := s.ready(); err != nil {
		return err
	}
	session.ID = strings.TrimSpace(session.ID)
	session.UserID = strings.TrimSpace(session.UserID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.UserID == "" {
		return fmt.Errorf("session user id is required")
	}
	if session.ExpiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession loads a session by id. Expired sessions are not returned.
func (s *Store) GetSession(ctx context.Context, sessionID string) (webstorage.Session, error) {
	if err := s.ready(); err != nil {
		return webstorage.Session{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ? AND expires_at > ?`,
		strings.TrimSpace(sessionID),
		time.Now().UTC().UnixMilli(),
	)

	var session webstorage.Session
	var createdAt int64
	var expiresAt int64
	if err := row.Scan(&session.ID, &session.UserID, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Session{}, webstorage.ErrNotFound
		}
		return webstorage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	return session, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, strings.TrimSpace(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions whose expiry is at or before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, timeToUnixMillis(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// CreateChart inserts a saved chart.
func (s *Store) CreateChart(ctx context.Context, chart webstorage.SavedChart) error {
	if err := s.ready(); err != nil {
		return err
	}
	chart.ID = strings.TrimSpace(chart.ID)
	chart.UserID = strings.TrimSpace(chart.UserID)
	if chart.ID == "" {
		return fmt.Errorf("chart id is required")
	}
	if chart.UserID == "" {
		return fmt.Errorf("chart user id is required")
	}
	if len(chart.ChartJSON) == 0 {
		return fmt.Errorf("chart payload is required")
	}
	now := time.Now().UTC()
	if chart.CreatedAt.IsZero() {
		chart.CreatedAt = now
	}
	if chart.UpdatedAt.IsZero() {
		chart.UpdatedAt = chart.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO saved_charts (
		    id, user_id, name, kind, birth_date, birth_time, city, timezone, latitude, longitude, chart_json, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chart.ID,
		chart.UserID,
		strings.TrimSpace(chart.Name),
		strings.TrimSpace(chart.Kind),
		chart.BirthDate,
		chart.BirthTime,
		strings.TrimSpace(chart.City),
		strings.TrimSpace(chart.Timezone),
		chart.Latitude,
		chart.Longitude,
		chart.ChartJSON,
		timeToUnixMillis(chart.CreatedAt),
		timeToUnixMillis(chart.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	return nil
}

// GetChart loads one chart owned by the given user.
func (s *Store) GetChart(ctx context.Context, userID string, chartID string) (webstorage.SavedChart, error) {
	if err := s.ready(); err != nil {
		return webstorage.SavedChart{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT seq, id, user_id, name, kind, birth_date, birth_time, city, timezone, latitude, longitude, chart_json, created_at, updated_at
		 FROM saved_charts WHERE user_id = ? AND id = ?`,
		strings.TrimSpace(userID),
		strings.TrimSpace(chartID),
	)
	charts, err := scanCharts(rowScanner{row})
	if err != nil {
		return webstorage.SavedChart{}, err
	}
	if len(charts) == 0 {
		return webstorage.SavedChart{}, webstorage.ErrNotFound
	}
	return charts[0], nil
}

// DeleteChart removes a chart owned by the given user.
func (s *Store) DeleteChart(ctx context.Context, userID string, chartID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM saved_charts WHERE user_id = ? AND id = ?`,
		strings.TrimSpace(userID),
		strings.TrimSpace(chartID),
	)
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	if affected == 0 {
		return webstorage.ErrNotFound
	}
	return nil
}

// ListCharts returns charts for one user in insertion order, honoring the
// translated filter condition and seq cursor.
func (s *Store) ListCharts(ctx context.Context, query webstorage.ChartQuery) ([]webstorage.SavedChart, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query.UserID = strings.TrimSpace(query.UserID)
	if query.UserID == "" {
		return nil, fmt.Errorf("chart user id is required")
	}
	if query.PageSize <= 0 {
		query.PageSize = 50
	}

	sqlQuery := `SELECT seq, id, user_id, name, kind, birth_date, birth_time, city, timezone, latitude, longitude, chart_json, created_at, updated_at
		 FROM saved_charts WHERE user_id = ? AND seq > ?`
	params := []any{query.UserID, int64(query.AfterSeq)}
	if strings.TrimSpace(query.Where) != "" {
		sqlQuery += " AND (" + query.Where + ")"
		params = append(params, query.Params...)
	}
	sqlQuery += " ORDER BY seq ASC LIMIT ?"
	params = append(params, query.PageSize)

	rows, err := s.sqlDB.QueryContext(ctx, sqlQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	charts := make([]webstorage.SavedChart, 0, query.PageSize)
	for rows.Next() {
		scanned, err := scanCharts(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		charts = append(charts, scanned...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charts: %w", err)
	}
	return charts, nil
}

// CountCharts returns the number of charts stored for one user.
func (s *Store) CountCharts(ctx context.Context, userID string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int
	row := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_charts WHERE user_id = ?`, strings.TrimSpace(userID))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count charts: %w", err)
	}
	return count, nil
}

// GetSubscription loads the billing state for one user.
func (s *Store) GetSubscription(ctx context.Context, userID string) (webstorage.Subscription, error) {
	if err := s.ready(); err != nil {
		return webstorage.Subscription{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, tier, status, renews_at, updated_at FROM subscriptions WHERE user_id = ?`,
		strings.TrimSpace(userID),
	)

	var sub webstorage.Subscription
	var renewsAt int64
	var updatedAt int64
	if err := row.Scan(&sub.UserID, &sub.Tier, &sub.Status, &renewsAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Subscription{}, webstorage.ErrNotFound
		}
		return webstorage.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	sub.RenewsAt = unixMillisToTime(renewsAt)
	sub.UpdatedAt = unixMillisToTime(updatedAt)
	return sub, nil
}

// PutSubscription upserts the billing state for one user.
func (s *Store) PutSubscription(ctx context.Context, sub webstorage.Subscription) error {
	if err := s.ready(); err != nil {
		return err
	}
	sub.UserID = strings.TrimSpace(sub.UserID)
	if sub.UserID == "" {
		return fmt.Errorf("subscription user id is required")
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO subscriptions (user_id, tier, status, renews_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   tier = excluded.tier,
		   status = excluded.status,
		   renews_at = excluded.renews_at,
		   updated_at = excluded.updated_at`,
		sub.UserID,
		strings.TrimSpace(sub.Tier),
		strings.TrimSpace(sub.Status),
		timeToUnixMillis(sub.RenewsAt),
		timeToUnixMillis(sub.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put subscription: %w", err)
	}
	return nil
}

// IncrementUsage bumps a metered counter and returns the new count.
func (s *Store) IncrementUsage(ctx context.Context, userID string, resource string, period string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	userID = strings.TrimSpace(userID)
	resource = strings.TrimSpace(resource)
	period = strings.TrimSpace(period)
	if userID == "" || resource == "" || period == "" {
		return 0, fmt.Errorf("usage key is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`INSERT INTO usage_counters (user_id, resource, period, count)
		 VALUES (?, ?, ?, 1)
		 ON CONFLICT(user_id, resource, period) DO UPDATE SET count = count + 1
		 RETURNING count`,
		userID,
		resource,
		period,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return count, nil
}

// GetUsage returns the metered count for one key, zero when absent.
func (s *Store) GetUsage(ctx context.Context, userID string, resource string, period string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT count FROM usage_counters WHERE user_id = ? AND resource = ? AND period = ?`,
		strings.TrimSpace(userID),
		strings.TrimSpace(resource),
		strings.TrimSpace(period),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return count, nil
}

// ListUsage returns every metered counter for one user.
func (s *Store) ListUsage(ctx context.Context, userID string) ([]webstorage.UsageCounter, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT user_id, resource, period, count FROM usage_counters WHERE user_id = ? ORDER BY resource, period`,
		strings.TrimSpace(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	counters := make([]webstorage.UsageCounter, 0)
	for rows.Next() {
		var counter webstorage.UsageCounter
		if err := rows.Scan(&counter.UserID, &counter.Resource, &counter.Period, &counter.Count); err != nil {
			return nil, fmt.Errorf("scan usage counter: %w", err)
		}
		counters = append(counters, counter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage counters: %w", err)
	}
	return counters, nil
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

type rowScanner struct {
	scanner
}

func scanCharts(row rowScanner) ([]webstorage.SavedChart, error) {
	var chart webstorage.SavedChart
	var seq int64
	var latitude sql.NullFloat64
	var longitude sql.NullFloat64
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(
		&seq,
		&chart.ID,
		&chart.UserID,
		&chart.Name,
		&chart.Kind,
		&chart.BirthDate,
		&chart.BirthTime,
		&chart.City,
		&chart.Timezone,
		&latitude,
		&longitude,
		&chart.ChartJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan chart: %w", err)
	}
	if seq > 0 {
		chart.Seq = uint64(seq)
	}
	if latitude.Valid {
		chart.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		chart.Longitude = &longitude.Float64
	}
	chart.CreatedAt = unixMillisToTime(createdAt)
	chart.UpdatedAt = unixMillisToTime(updatedAt)
	return []webstorage.SavedChart{chart}, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
