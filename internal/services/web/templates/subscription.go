package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// UsageRowView is one metered counter row on the subscription page.
type UsageRowView struct {
	Resource string
	Period   string
	Used     int
	Limit    int
}

// SubscriptionView carries state for the subscription page.
type SubscriptionView struct {
	Tier     string
	Status   string
	RenewsAt string
	Usage    []UsageRowView
	Tiers    []string
}

// SubscriptionFragment renders the subscription and usage summary.
func SubscriptionFragment(view SubscriptionView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"subscription\">\n<h1>Subscription</h1>\n")
		fmt.Fprintf(&b, "<p>Current plan: <strong>%s</strong> (%s)</p>\n",
			html.EscapeString(view.Tier), html.EscapeString(view.Status))
		if strings.TrimSpace(view.RenewsAt) != "" {
			fmt.Fprintf(&b, "<p>Renews %s</p>\n", html.EscapeString(view.RenewsAt))
		}
		if len(view.Tiers) > 0 {
			fmt.Fprintf(&b, "<form method=\"post\" action=%q>\n<select name=%q>\n", routepath.AppSubscriptionUpgrade, routepath.SubscriptionTierFormKey)
			for _, tier := range view.Tiers {
				selected := ""
				if tier == view.Tier {
					selected = " selected"
				}
				fmt.Fprintf(&b, "<option value=%q%s>%s</option>\n", tier, selected, html.EscapeString(tier))
			}
			b.WriteString("</select>\n<button type=\"submit\">Change plan</button>\n</form>\n")
		}
		if len(view.Usage) > 0 {
			b.WriteString("<table class=\"usage\">\n<thead><tr><th>Resource</th><th>Period</th><th>Used</th><th>Limit</th></tr></thead>\n<tbody>\n")
			for _, row := range view.Usage {
				limit := "unlimited"
				if row.Limit >= 0 {
					limit = fmt.Sprintf("%d", row.Limit)
				}
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>\n",
					html.EscapeString(row.Resource),
					html.EscapeString(row.Period),
					row.Used,
					limit,
				)
			}
			b.WriteString("</tbody>\n</table>\n")
		}
		b.WriteString("</section>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// SubscriptionPage renders the full subscription page.
func SubscriptionPage(pc PageContext, view SubscriptionView) templ.Component {
	return Layout(pc, "Subscription", SubscriptionFragment(view))
}
