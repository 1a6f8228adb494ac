// Package modules defines web module registry helpers.
package modules

import (
	"time"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/requestmeta"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Resolvers aliases the request-scoped resolver bundle. The server builds
// these after constructing the principal resolver and passes them to
// registry functions for module composition.
type Resolvers = module.Resolvers

// Dependencies carries the shared backends required to compose the web
// module registry.
type Dependencies struct {
	Store      webstorage.Store
	Meter      *entitlements.Meter
	Tokens     *token.Issuer
	SessionTTL time.Duration
	Scheme     requestmeta.SchemePolicy
}
