// Package api provides the JSON calculation endpoints.
package api

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// Config carries the api module dependencies.
type Config struct {
	Meter *entitlements.Meter
}

// Module provides the calculation API routes.
type Module struct {
	cfg Config
}

// New returns an api module with the given config.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "api" }

// Mount wires the calculation routes under the api prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(), m.cfg.Meter)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.APIPrefix, Handler: mux}, nil
}
