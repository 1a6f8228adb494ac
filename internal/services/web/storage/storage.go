package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a missing row for lookups by key.
var ErrNotFound = errors.New("not found")

// User is a registered account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a server-side login session referenced by an opaque cookie.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SavedChart is a stored birth chart with its calculated payload.
type SavedChart struct {
	Seq       uint64
	ID        string
	UserID    string
	Name      string
	Kind      string
	BirthDate string
	BirthTime string
	City      string
	Timezone  string
	Latitude  *float64
	Longitude *float64
	ChartJSON []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChartQuery selects saved charts for one user with an optional SQL
// condition produced by the filter translator and seq-based pagination.
type ChartQuery struct {
	UserID   string
	Where    string
	Params   []any
	AfterSeq uint64
	PageSize int
}

// Subscription is the billing state for one user.
type Subscription struct {
	UserID    string
	Tier      string
	Status    string
	RenewsAt  time.Time
	UpdatedAt time.Time
}

// UsageCounter is a metered resource count within one period.
type UsageCounter struct {
	UserID   string
	Resource string
	Period   string
	Count    int
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// ChartStore persists saved charts.
type ChartStore interface {
	CreateChart(ctx context.Context, chart SavedChart) error
	GetChart(ctx context.Context, userID string, chartID string) (SavedChart, error)
	DeleteChart(ctx context.Context, userID string, chartID string) error
	ListCharts(ctx context.Context, query ChartQuery) ([]SavedChart, error)
	CountCharts(ctx context.Context, userID string) (int, error)
}

// SubscriptionStore persists billing state.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (Subscription, error)
	PutSubscription(ctx context.Context, subscription Subscription) error
}

// UsageStore meters per-period resource consumption.
type UsageStore interface {
	IncrementUsage(ctx context.Context, userID string, resource string, period string) (int, error)
	GetUsage(ctx context.Context, userID string, resource string, period string) (int, error)
	ListUsage(ctx context.Context, userID string) ([]UsageCounter, error)
}

// Store aggregates every persistence concern the web service needs.
type Store interface {
	UserStore
	SessionStore
	ChartStore
	SubscriptionStore
	UsageStore
	Close() error
}
