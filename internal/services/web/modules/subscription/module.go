// Package subscription provides the authenticated plan and usage routes.
package subscription

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Module provides plan management and usage reporting routes.
type Module struct {
	store     webstorage.Store
	resolvers module.Resolvers
}

// New returns a subscription module backed by the given store.
func New(store webstorage.Store, resolvers module.Resolvers) Module {
	return Module{store: store, resolvers: resolvers}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "subscription" }

// Mount wires the subscription routes under the subscription prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.store)
	h := newHandlers(svc, m.resolvers)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.SubscriptionPrefix, Handler: mux}, nil
}
