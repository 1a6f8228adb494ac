// Package transits provides the authenticated transit calendar feed.
package transits

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Module provides the transit feed routes.
type Module struct {
	store     webstorage.Store
	resolvers module.Resolvers
}

// New returns a transits module with the given backends.
func New(store webstorage.Store, resolvers module.Resolvers) Module {
	return Module{store: store, resolvers: resolvers}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "transits" }

// Mount wires the transit feed routes under the transits prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.store)
	h := newHandlers(svc, m.resolvers)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.TransitsPrefix, Handler: mux}, nil
}
