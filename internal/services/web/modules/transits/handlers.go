package transits

import (
	"net/http"
	"strconv"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

type handlers struct {
	service   service
	resolvers module.Resolvers
}

func newHandlers(s service, resolvers module.Resolvers) handlers {
	return handlers{service: s, resolvers: resolvers}
}

func (h handlers) handleFeed(w http.ResponseWriter, r *http.Request) {
	if err := entitlements.RequireFeature(h.resolvers.Tier(r), tiers.FeatureTransitFeed); err != nil {
		httpx.WriteError(w, err)
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	feed, err := h.service.feed(r.Context(), h.resolvers.UserID(r), r.URL.Query().Get("chart"), days)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transits.ics"`)
	_, _ = w.Write(feed)
}
