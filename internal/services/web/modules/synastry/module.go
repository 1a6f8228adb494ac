// Package synastry provides the authenticated relationship comparison routes.
package synastry

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Module provides partner import and comparison routes.
type Module struct {
	store     webstorage.Store
	meter     *entitlements.Meter
	resolvers module.Resolvers
}

// New returns a synastry module with the given backends.
func New(store webstorage.Store, meter *entitlements.Meter, resolvers module.Resolvers) Module {
	return Module{store: store, meter: meter, resolvers: resolvers}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "synastry" }

// Mount wires the synastry routes under the synastry prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.store)
	h := newHandlers(svc, m.meter, m.resolvers)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.SynastryPrefix, Handler: mux}, nil
}
