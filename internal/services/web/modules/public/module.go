// Package public provides the unauthenticated landing and health routes.
package public

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// Module provides unauthenticated root routes.
type Module struct {
	resolvers module.Resolvers
}

// New returns a public module with the given resolvers.
func New(resolvers module.Resolvers) Module {
	return Module{resolvers: resolvers}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires the landing and health routes under the root prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.resolvers)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
