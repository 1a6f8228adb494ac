// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/tiers"
)

// Viewer contains user-facing chrome data for authenticated app pages.
type Viewer struct {
	DisplayName string
	Email       string
	Tier        tiers.Tier
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveSignedIn reports whether the request is associated with a signed-in actor.
type ResolveSignedIn func(*http.Request) bool

// ResolveUserID resolves the authenticated user id for a request.
type ResolveUserID func(*http.Request) string

// ResolveTier resolves the subscription tier for a request. Anonymous
// requests resolve to the free tier.
type ResolveTier func(*http.Request) tiers.Tier

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// Resolvers carries the request-scoped resolution callbacks shared by modules.
type Resolvers struct {
	ResolveViewer   ResolveViewer
	ResolveSignedIn ResolveSignedIn
	ResolveUserID   ResolveUserID
	ResolveTier     ResolveTier
}

// UserID resolves the request user id with a nil-safe fallback.
func (r Resolvers) UserID(req *http.Request) string {
	if r.ResolveUserID == nil {
		return ""
	}
	return r.ResolveUserID(req)
}

// Tier resolves the request tier with a nil-safe fallback to free.
func (r Resolvers) Tier(req *http.Request) tiers.Tier {
	if r.ResolveTier == nil {
		return tiers.Free
	}
	return r.ResolveTier(req)
}

// SignedIn resolves the signed-in state with a nil-safe fallback.
func (r Resolvers) SignedIn(req *http.Request) bool {
	if r.ResolveSignedIn == nil {
		return false
	}
	return r.ResolveSignedIn(req)
}

// Viewer resolves viewer chrome with a nil-safe fallback.
func (r Resolvers) Viewer(req *http.Request) Viewer {
	if r.ResolveViewer == nil {
		return Viewer{}
	}
	return r.ResolveViewer(req)
}
