// Package templates holds the templ components for the web service pages.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/cosmichub/cosmichub/internal/platform/branding"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang        string
	CurrentPath string
	SignedIn    bool
	UserName    string
	Tier        string
	AppName     string
}

func (pc PageContext) appName() string {
	if strings.TrimSpace(pc.AppName) != "" {
		return pc.AppName
	}
	return branding.AppName
}

func (pc PageContext) lang() string {
	if strings.TrimSpace(pc.Lang) != "" {
		return pc.Lang
	}
	return "en-US"
}

// ComposePageTitle appends the product name suffix unless already present.
func ComposePageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return branding.AppName
	}
	if strings.HasSuffix(title, "| "+branding.AppName) {
		return title
	}
	return title + " | " + branding.AppName
}

// Layout wraps body content in the full page chrome.
func Layout(pc PageContext, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n")
		fmt.Fprintf(&b, "<html lang=%q>\n<head>\n", pc.lang())
		fmt.Fprintf(&b, "<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(ComposePageTitle(title)))
		b.WriteString("<script src=\"https://unpkg.com/htmx.org@1.9.12\"></script>\n")
		b.WriteString("</head>\n<body>\n")
		if err := navigation(pc).Render(ctx, &b); err != nil {
			return err
		}
		b.WriteString("<main id=\"main\">\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

func navigation(pc PageContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<nav>\n")
		fmt.Fprintf(&b, "<a href=%q>%s</a>\n", routepath.Root, html.EscapeString(pc.appName()))
		if pc.SignedIn {
			fmt.Fprintf(&b, "<a href=%q>Charts</a>\n", routepath.AppCharts)
			fmt.Fprintf(&b, "<a href=%q>Subscription</a>\n", routepath.AppSubscription)
			if strings.TrimSpace(pc.UserName) != "" {
				fmt.Fprintf(&b, "<span>%s</span>\n", html.EscapeString(pc.UserName))
			}
			fmt.Fprintf(&b, "<form method=\"post\" action=%q><button type=\"submit\">Sign out</button></form>\n", routepath.AuthLogout)
		} else {
			fmt.Fprintf(&b, "<a href=%q>Sign in</a>\n", routepath.AuthLogin)
			fmt.Fprintf(&b, "<a href=%q>Sign up</a>\n", routepath.AuthSignup)
		}
		b.WriteString("</nav>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
