// Package auth provides account signup, login, logout and API token routes.
package auth

import (
	"net/http"
	"time"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/requestmeta"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Config carries the auth module dependencies.
type Config struct {
	Store      webstorage.Store
	Tokens     *token.Issuer
	SessionTTL time.Duration
	Scheme     requestmeta.SchemePolicy
	Now        func() time.Time
}

// Module provides the account lifecycle routes.
type Module struct {
	cfg Config
}

// New returns an auth module with the given config.
func New(cfg Config) Module {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires the account routes under the auth prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.cfg)
	h := newHandlers(svc, m.cfg.Scheme)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.AuthPrefix, Handler: mux}, nil
}
