// Package charts provides the authenticated saved chart routes.
package charts

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Module provides saved chart listing, creation and deletion.
type Module struct {
	store     webstorage.Store
	resolvers module.Resolvers
}

// New returns a charts module with the given backends.
func New(store webstorage.Store, resolvers module.Resolvers) Module {
	return Module{store: store, resolvers: resolvers}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "charts" }

// Mount wires the saved chart routes under the charts prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.store)
	h := newHandlers(svc, m.resolvers)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.ChartsPrefix, Handler: mux}, nil
}
