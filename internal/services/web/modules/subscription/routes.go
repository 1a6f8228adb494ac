package subscription

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSubscription, h.handleShow)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSubscriptionUpgrade, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.AppSubscriptionUpgrade, h.handleUpgrade)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppSubscriptionUsage, h.handleUsage)
}
