// Package authctx carries the resolved principal through request context.
package authctx

import (
	"context"
	"net/http"
	"strings"

	"github.com/cosmichub/cosmichub/internal/tiers"
)

type principalKey struct{}

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
	Tier        tiers.Tier
}

// WithPrincipal returns ctx enriched with the resolved principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return ctx
	}
	if p.Tier == "" {
		p.Tier = tiers.Free
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached to ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// FromRequest returns the principal attached to the request context, if any.
func FromRequest(r *http.Request) (Principal, bool) {
	if r == nil {
		return Principal{}, false
	}
	return FromContext(r.Context())
}

// UserID returns the request user id, or the empty string when anonymous.
func UserID(r *http.Request) string {
	p, _ := FromRequest(r)
	return p.UserID
}

// Tier returns the request tier, defaulting anonymous requests to free.
func Tier(r *http.Request) tiers.Tier {
	p, ok := FromRequest(r)
	if !ok {
		return tiers.Free
	}
	return p.Tier
}
