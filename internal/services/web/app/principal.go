package app

import (
	"context"
	"net/http"
	"strings"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/authctx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/sessioncookie"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/token"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

// principalResolver turns session cookies and bearer tokens into request
// principals. Resolution happens once per request; modules read the result
// through authctx or the module resolver seams.
type principalResolver struct {
	store  webstorage.Store
	tokens *token.Issuer
}

func newPrincipalResolver(store webstorage.Store, tokens *token.Issuer) principalResolver {
	return principalResolver{store: store, tokens: tokens}
}

// attach resolves the request principal and stores it in the context.
// Anonymous requests pass through untouched.
func (pr principalResolver) attach(next http.Handler) http.Handler {
	if next == nil {
		return http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := pr.resolve(r); ok {
			r = r.WithContext(authctx.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func (pr principalResolver) resolve(r *http.Request) (authctx.Principal, bool) {
	if p, ok := pr.resolveBearer(r); ok {
		return p, true
	}
	return pr.resolveSession(r)
}

func (pr principalResolver) resolveSession(r *http.Request) (authctx.Principal, bool) {
	if pr.store == nil {
		return authctx.Principal{}, false
	}
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		return authctx.Principal{}, false
	}
	session, err := pr.store.GetSession(r.Context(), sessionID)
	if err != nil {
		return authctx.Principal{}, false
	}
	return pr.principalFor(r.Context(), session.UserID, "")
}

func (pr principalResolver) resolveBearer(r *http.Request) (authctx.Principal, bool) {
	if pr.tokens == nil {
		return authctx.Principal{}, false
	}
	raw, ok := token.BearerFromHeader(r.Header.Get("Authorization"))
	if !ok {
		return authctx.Principal{}, false
	}
	claims, err := pr.tokens.Verify(raw)
	if err != nil {
		return authctx.Principal{}, false
	}
	return pr.principalFor(r.Context(), claims.UserID, claims.Tier)
}

func (pr principalResolver) principalFor(ctx context.Context, userID, tokenTier string) (authctx.Principal, bool) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return authctx.Principal{}, false
	}
	user, err := pr.store.GetUser(ctx, userID)
	if err != nil {
		return authctx.Principal{}, false
	}
	p := authctx.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Tier:        pr.tierFor(ctx, userID, tokenTier),
	}
	if p.DisplayName == "" {
		p.DisplayName = user.Email
	}
	return p, true
}

func (pr principalResolver) tierFor(ctx context.Context, userID, tokenTier string) tiers.Tier {
	// The store is authoritative; a token tier only covers the window
	// between issuing and the subscription row landing.
	if sub, err := pr.store.GetSubscription(ctx, userID); err == nil {
		if tier, perr := tiers.Parse(sub.Tier); perr == nil {
			return tier
		}
	}
	if tier, err := tiers.Parse(tokenTier); err == nil {
		return tier
	}
	return tiers.Free
}

// resolvers exposes the request seams modules consume.
func (pr principalResolver) resolvers() module.Resolvers {
	return module.Resolvers{
		ResolveUserID: authctx.UserID,
		ResolveTier:   authctx.Tier,
		ResolveSignedIn: func(r *http.Request) bool {
			_, ok := authctx.FromRequest(r)
			return ok
		},
		ResolveViewer: func(r *http.Request) module.Viewer {
			p, ok := authctx.FromRequest(r)
			if !ok {
				return module.Viewer{Tier: tiers.Free}
			}
			return module.Viewer{DisplayName: p.DisplayName, Email: p.Email, Tier: p.Tier}
		},
	}
}

// authRequired reports whether the request carries a resolved principal.
func authRequired(r *http.Request) bool {
	_, ok := authctx.FromRequest(r)
	return ok
}
