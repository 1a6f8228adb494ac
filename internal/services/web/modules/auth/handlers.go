package auth

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/htmx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/i18n"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/requestmeta"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/sessioncookie"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
	webtemplates "github.com/cosmichub/cosmichub/internal/services/web/templates"
)

type handlers struct {
	service service
	scheme  requestmeta.SchemePolicy
}

func newHandlers(s service, scheme requestmeta.SchemePolicy) handlers {
	return handlers{service: s, scheme: scheme}
}

func (h handlers) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.writeSignupPage(w, r, http.StatusOK, webtemplates.AuthFormView{})
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.writeLoginPage(w, r, http.StatusOK, webtemplates.AuthFormView{})
}

func (h handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeSignupPage(w, r, http.StatusBadRequest, webtemplates.AuthFormView{Problem: "the submitted form could not be read"})
		return
	}
	email := r.PostFormValue("email")
	result, err := h.service.signup(r.Context(), r.PostFormValue("display_name"), email, r.PostFormValue("password"))
	if err != nil {
		h.writeSignupPage(w, r, apperrors.HTTPStatus(err), webtemplates.AuthFormView{Email: email, Problem: err.Error()})
		return
	}
	sessioncookie.WriteWithPolicy(w, r, result.sessionID, h.scheme)
	httpx.WriteRedirect(w, r, routepath.AppCharts)
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeLoginPage(w, r, http.StatusBadRequest, webtemplates.AuthFormView{Problem: "the submitted form could not be read"})
		return
	}
	email := r.PostFormValue("email")
	result, err := h.service.login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		h.writeLoginPage(w, r, apperrors.HTTPStatus(err), webtemplates.AuthFormView{Email: email, Problem: err.Error()})
		return
	}
	sessioncookie.WriteWithPolicy(w, r, result.sessionID, h.scheme)
	httpx.WriteRedirect(w, r, routepath.AppCharts)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, hasSession := sessioncookie.Read(r)
	if hasSession && !requestmeta.HasSameOriginProofWithPolicy(r, h.scheme) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	sessioncookie.ClearWithPolicy(w, r, h.scheme)
	if hasSession {
		_ = h.service.logout(r.Context(), sessionID)
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) handleToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid json body"))
		return
	}
	issued, err := h.service.issueToken(r.Context(), payload.Email, payload.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": issued.accessToken,
		"token_type":   "Bearer",
		"expires_at":   issued.expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h handlers) writeSignupPage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.AuthFormView) {
	pc := webtemplates.PageContext{Lang: i18n.ResolveLanguage(r)}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	htmx.RenderPage(w, r, webtemplates.SignupFragment(view), webtemplates.SignupPage(pc, view), htmx.TitleTag(webtemplates.ComposePageTitle("Sign up")))
}

func (h handlers) writeLoginPage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.AuthFormView) {
	pc := webtemplates.PageContext{Lang: i18n.ResolveLanguage(r)}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	htmx.RenderPage(w, r, webtemplates.LoginFragment(view), webtemplates.LoginPage(pc, view), htmx.TitleTag(webtemplates.ComposePageTitle("Sign in")))
}
