package auth

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthSignup, h.handleSignupPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthSignup, h.handleSignup)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthLogin, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthLogin, h.handleLogin)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthLogout, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthLogout, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthToken, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthToken, h.handleToken)
}
