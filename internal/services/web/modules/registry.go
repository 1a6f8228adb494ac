package modules

import (
	"github.com/cosmichub/cosmichub/internal/services/web/modules/api"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/auth"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/charts"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/public"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/stream"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/subscription"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/synastry"
	"github.com/cosmichub/cosmichub/internal/services/web/modules/transits"
)

// DefaultPublicModules returns the unauthenticated web modules.
func DefaultPublicModules(deps Dependencies, resolvers Resolvers) []Module {
	return []Module{
		public.New(resolvers),
		auth.New(auth.Config{
			Store:      deps.Store,
			Tokens:     deps.Tokens,
			SessionTTL: deps.SessionTTL,
			Scheme:     deps.Scheme,
		}),
		api.New(api.Config{Meter: deps.Meter}),
	}
}

// DefaultProtectedModules returns the authenticated web modules mounted
// under the app prefix.
func DefaultProtectedModules(deps Dependencies, resolvers Resolvers) []Module {
	return []Module{
		charts.New(deps.Store, resolvers),
		transits.New(deps.Store, resolvers),
		synastry.New(deps.Store, deps.Meter, resolvers),
		subscription.New(deps.Store, resolvers),
		stream.New(deps.Store, resolvers),
	}
}
