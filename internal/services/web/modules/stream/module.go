// Package stream provides the live transit clock over a websocket.
package stream

import (
	"net/http"
	"time"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

const defaultPushInterval = time.Minute

// Module provides the transit stream route.
type Module struct {
	store     webstorage.Store
	resolvers module.Resolvers
	interval  time.Duration
}

// New returns a stream module pushing on the default interval.
func New(store webstorage.Store, resolvers module.Resolvers) Module {
	return NewWithInterval(store, resolvers, defaultPushInterval)
}

// NewWithInterval returns a stream module with a custom push cadence.
func NewWithInterval(store webstorage.Store, resolvers module.Resolvers, interval time.Duration) Module {
	if interval <= 0 {
		interval = defaultPushInterval
	}
	return Module{store: store, resolvers: resolvers, interval: interval}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "stream" }

// Mount wires the stream routes under the stream prefix.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.store, m.resolvers, m.interval)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.StreamPrefix, Handler: mux}, nil
}
