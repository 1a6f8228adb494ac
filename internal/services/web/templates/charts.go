package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// ChartListItemView is one row in the saved chart listing.
type ChartListItemView struct {
	ID        string
	Name      string
	Kind      string
	BirthDate string
	City      string
}

// ChartListView carries state for the saved charts page.
type ChartListView struct {
	Items         []ChartListItemView
	Filter        string
	NextPageToken string
	Used          int
	Limit         int
}

// ChartDetailView carries one saved chart for the detail page.
type ChartDetailView struct {
	ID         string
	Name       string
	Kind       string
	BirthDate  string
	BirthTime  string
	City       string
	Timezone   string
	Placements []PlacementView
}

// PlacementView is one planetary placement row.
type PlacementView struct {
	Body   string
	Sign   string
	Degree string
	House  int
	Retro  bool
}

// ChartsFragment renders the saved chart listing.
func ChartsFragment(view ChartListView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"charts\">\n<h1>Saved Charts</h1>\n")
		if view.Limit >= 0 {
			fmt.Fprintf(&b, "<p class=\"quota\">%d of %d charts used</p>\n", view.Used, view.Limit)
		}
		fmt.Fprintf(&b, "<form method=\"get\" action=%q>\n<input type=\"search\" name=\"filter\" value=%q placeholder=\"kind = &quot;natal&quot;\">\n<button type=\"submit\">Filter</button>\n</form>\n",
			routepath.AppCharts, view.Filter)
		fmt.Fprintf(&b, "<form class=\"new-chart\" method=\"post\" action=%q>\n", routepath.AppCharts)
		b.WriteString("<label>Name <input type=\"text\" name=\"name\" required></label>\n")
		b.WriteString("<label>Birth date <input type=\"date\" name=\"birth_date\" required></label>\n")
		b.WriteString("<label>Birth time <input type=\"time\" name=\"birth_time\" required></label>\n")
		b.WriteString("<label>City <input type=\"text\" name=\"city\"></label>\n")
		b.WriteString("<label>Timezone <input type=\"text\" name=\"timezone\"></label>\n")
		b.WriteString("<label>Latitude <input type=\"number\" step=\"any\" name=\"latitude\"></label>\n")
		b.WriteString("<label>Longitude <input type=\"number\" step=\"any\" name=\"longitude\"></label>\n")
		b.WriteString("<button type=\"submit\">Save chart</button>\n</form>\n")
		if len(view.Items) == 0 {
			b.WriteString("<p>No charts yet.</p>\n")
		} else {
			b.WriteString("<ul class=\"chart-list\">\n")
			for _, item := range view.Items {
				fmt.Fprintf(&b, "<li><a href=%q>%s</a> <span>%s</span> <span>%s</span> <span>%s</span></li>\n",
					routepath.AppChart(item.ID),
					html.EscapeString(item.Name),
					html.EscapeString(item.Kind),
					html.EscapeString(item.BirthDate),
					html.EscapeString(item.City),
				)
			}
			b.WriteString("</ul>\n")
		}
		if strings.TrimSpace(view.NextPageToken) != "" {
			next := fmt.Sprintf("%s?page_token=%s&filter=%s",
				routepath.AppCharts,
				url.QueryEscape(view.NextPageToken),
				url.QueryEscape(view.Filter),
			)
			fmt.Fprintf(&b, "<a class=\"next\" href=%q hx-get=%q hx-target=\"#main\">Next page</a>\n", next, next)
		}
		b.WriteString("</section>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ChartsPage renders the full saved charts page.
func ChartsPage(pc PageContext, view ChartListView) templ.Component {
	return Layout(pc, "Saved Charts", ChartsFragment(view))
}

// ChartDetailFragment renders one saved chart.
func ChartDetailFragment(view ChartDetailView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<article class=\"chart\">\n<h1>%s</h1>\n", html.EscapeString(view.Name))
		fmt.Fprintf(&b, "<p>%s, born %s %s in %s (%s)</p>\n",
			html.EscapeString(view.Kind),
			html.EscapeString(view.BirthDate),
			html.EscapeString(view.BirthTime),
			html.EscapeString(view.City),
			html.EscapeString(view.Timezone),
		)
		if len(view.Placements) > 0 {
			b.WriteString("<table class=\"placements\">\n<thead><tr><th>Body</th><th>Sign</th><th>Degree</th><th>House</th></tr></thead>\n<tbody>\n")
			for _, p := range view.Placements {
				retro := ""
				if p.Retro {
					retro = " &#8478;"
				}
				fmt.Fprintf(&b, "<tr><td>%s%s</td><td>%s</td><td>%s</td><td>%d</td></tr>\n",
					html.EscapeString(p.Body), retro,
					html.EscapeString(p.Sign),
					html.EscapeString(p.Degree),
					p.House,
				)
			}
			b.WriteString("</tbody>\n</table>\n")
		}
		fmt.Fprintf(&b, "<form method=\"post\" action=\"%s/delete\"><button type=\"submit\">Delete chart</button></form>\n", routepath.AppChart(view.ID))
		b.WriteString("</article>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ChartDetailPage renders the full chart detail page.
func ChartDetailPage(pc PageContext, view ChartDetailView) templ.Component {
	return Layout(pc, view.Name, ChartDetailFragment(view))
}
