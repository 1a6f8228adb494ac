package charts

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/htmx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/i18n"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	webtemplates "github.com/cosmichub/cosmichub/internal/services/web/templates"
)

type handlers struct {
	service   service
	resolvers module.Resolvers
}

func newHandlers(s service, resolvers module.Resolvers) handlers {
	return handlers{service: s, resolvers: resolvers}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	filterStr := strings.TrimSpace(r.URL.Query().Get("filter"))
	page, err := h.service.listCharts(r.Context(), h.resolvers.UserID(r), h.resolvers.Tier(r), filterStr, r.URL.Query().Get("page_token"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	view := webtemplates.ChartListView{
		Filter:        filterStr,
		NextPageToken: page.nextPageToken,
		Used:          page.used,
		Limit:         page.limit,
	}
	for _, item := range page.items {
		view.Items = append(view.Items, webtemplates.ChartListItemView{
			ID:        item.ID,
			Name:      item.Name,
			Kind:      item.Kind,
			BirthDate: item.BirthDate,
			City:      item.City,
		})
	}

	pc := h.pageContext(r)
	htmx.RenderPage(w, r, webtemplates.ChartsFragment(view), webtemplates.ChartsPage(pc, view), htmx.TitleTag(webtemplates.ComposePageTitle("Saved Charts")))
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "the submitted form could not be read"))
		return
	}
	input := createInput{
		Name:      r.PostFormValue("name"),
		BirthDate: r.PostFormValue("birth_date"),
		BirthTime: r.PostFormValue("birth_time"),
		City:      r.PostFormValue("city"),
		Timezone:  r.PostFormValue("timezone"),
		Latitude:  parseCoordinate(r.PostFormValue("latitude")),
		Longitude: parseCoordinate(r.PostFormValue("longitude")),
	}
	saved, err := h.service.createChart(r.Context(), h.resolvers.UserID(r), h.resolvers.Tier(r), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppChart(saved.ID))
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	saved, natal, err := h.service.getChart(r.Context(), h.resolvers.UserID(r), r.PathValue("chartID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	view := detailView(saved, natal)
	pc := h.pageContext(r)
	htmx.RenderPage(w, r, webtemplates.ChartDetailFragment(view), webtemplates.ChartDetailPage(pc, view), htmx.TitleTag(webtemplates.ComposePageTitle(saved.Name)))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.deleteChart(r.Context(), h.resolvers.UserID(r), r.PathValue("chartID")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppCharts)
}

func (h handlers) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
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

func detailView(saved webstorage.SavedChart, natal chart.Natal) webtemplates.ChartDetailView {
	view := webtemplates.ChartDetailView{
		ID:        saved.ID,
		Name:      saved.Name,
		Kind:      saved.Kind,
		BirthDate: saved.BirthDate,
		BirthTime: saved.BirthTime,
		City:      saved.City,
		Timezone:  saved.Timezone,
	}
	for _, p := range natal.Placements {
		view.Placements = append(view.Placements, webtemplates.PlacementView{
			Body:   string(p.Body),
			Sign:   p.Sign,
			Degree: fmt.Sprintf("%.1f", p.Degree),
			House:  p.House,
			Retro:  p.Retrograde,
		})
	}
	return view
}

func parseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
