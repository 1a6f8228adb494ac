package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/cosmichub/cosmichub/internal/platform/branding"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

// LandingFragment renders the marketing copy for the public home page.
func LandingFragment() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var err error
		_, err = fmt.Fprintf(w,
			"<section class=\"hero\">\n<h1>%s</h1>\n<p>%s</p>\n<a class=\"cta\" href=%q>Create your chart</a>\n</section>\n",
			html.EscapeString(branding.AppName),
			html.EscapeString(branding.Tagline),
			routepath.AuthSignup,
		)
		return err
	})
}

// LandingPage renders the full public home page.
func LandingPage(pc PageContext) templ.Component {
	return Layout(pc, "Home", LandingFragment())
}
