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

// AuthFormView carries state for the signup and login forms.
type AuthFormView struct {
	Email   string
	Problem string
}

// SignupFragment renders the account creation form.
func SignupFragment(view AuthFormView) templ.Component {
	return authForm("Sign up", routepath.AuthSignup, view, true)
}

// LoginFragment renders the sign-in form.
func LoginFragment(view AuthFormView) templ.Component {
	return authForm("Sign in", routepath.AuthLogin, view, false)
}

// SignupPage renders the full signup page.
func SignupPage(pc PageContext, view AuthFormView) templ.Component {
	return Layout(pc, "Sign up", SignupFragment(view))
}

// LoginPage renders the full login page.
func LoginPage(pc PageContext, view AuthFormView) templ.Component {
	return Layout(pc, "Sign in", LoginFragment(view))
}

func authForm(action string, path string, view AuthFormView, withName bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<section class=\"auth\">\n<h1>%s</h1>\n", html.EscapeString(action))
		if strings.TrimSpace(view.Problem) != "" {
			fmt.Fprintf(&b, "<p class=\"problem\" role=\"alert\">%s</p>\n", html.EscapeString(view.Problem))
		}
		fmt.Fprintf(&b, "<form method=\"post\" action=%q>\n", path)
		if withName {
			b.WriteString("<label>Name <input type=\"text\" name=\"display_name\"></label>\n")
		}
		fmt.Fprintf(&b, "<label>Email <input type=\"email\" name=\"email\" value=%q required></label>\n", view.Email)
		b.WriteString("<label>Password <input type=\"password\" name=\"password\" required></label>\n")
		fmt.Fprintf(&b, "<button type=\"submit\">%s</button>\n</form>\n</section>\n", html.EscapeString(action))
		_, err := io.WriteString(w, b.String())
		return err
	})
}
