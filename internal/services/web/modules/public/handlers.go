package public

import (
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/htmx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/i18n"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webtemplates "github.com/cosmichub/cosmichub/internal/services/web/templates"
)

type handlers struct {
	resolvers module.Resolvers
}

func newHandlers(resolvers module.Resolvers) handlers {
	return handlers{resolvers: resolvers}
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if h.resolvers.SignedIn(r) {
		http.Redirect(w, r, routepath.AppCharts, http.StatusFound)
		return
	}
	pc := webtemplates.PageContext{Lang: i18n.ResolveLanguage(r)}
	htmx.RenderPage(w, r, webtemplates.LandingFragment(), webtemplates.LandingPage(pc), htmx.TitleTag(webtemplates.ComposePageTitle("Home")))
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteHTML(w, http.StatusOK, "ok")
}

func (h handlers) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
