package subscription

import (
	"net/http"
	"time"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/htmx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/i18n"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webtemplates "github.com/cosmichub/cosmichub/internal/services/web/templates"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

type handlers struct {
	service   service
	resolvers module.Resolvers
}

func newHandlers(s service, resolvers module.Resolvers) handlers {
	return handlers{service: s, resolvers: resolvers}
}

func (h handlers) handleShow(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.currentPlan(r.Context(), h.resolvers.UserID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	view := planView(current)
	pc := h.pageContext(r)
	htmx.RenderPage(w, r, webtemplates.SubscriptionFragment(view), webtemplates.SubscriptionPage(pc, view), htmx.TitleTag(webtemplates.ComposePageTitle("Subscription")))
}

func (h handlers) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, err)
		return
	}
	requested := r.PostFormValue(routepath.SubscriptionTierFormKey)
	if _, err := h.service.changeTier(r.Context(), h.resolvers.UserID(r), requested); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppSubscription)
}

func (h handlers) handleUsage(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.currentPlan(r.Context(), h.resolvers.UserID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	usage := current.Usage
	if usage == nil {
		usage = []usageRow{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, struct {
		Tier  string     `json:"tier"`
		Usage []usageRow `json:"usage"`
	}{Tier: string(current.Tier), Usage: usage})
}

func (h handlers) pageContext(r *http.Request) webtemplates.PageContext {
	viewer := h.resolvers.Viewer(r)
	return webtemplates.PageContext{
		Lang:        i18n.ResolveLanguage(r),
		CurrentPath: r.URL.Path,
		SignedIn:    true,
		UserName:    viewer.DisplayName,
		Tier:        string(viewer.Tier),
	}
}

func planView(current plan) webtemplates.SubscriptionView {
	view := webtemplates.SubscriptionView{
		Tier:   string(current.Tier),
		Status: current.Status,
	}
	if !current.RenewsAt.IsZero() {
		view.RenewsAt = current.RenewsAt.UTC().Format(time.DateOnly)
	}
	for _, row := range current.Usage {
		view.Usage = append(view.Usage, webtemplates.UsageRowView{
			Resource: row.Resource,
			Period:   row.Period,
			Used:     row.Used,
			Limit:    row.Limit,
		})
	}
	for _, tier := range tiers.Tiers {
		view.Tiers = append(view.Tiers, string(tier))
	}
	return view
}
