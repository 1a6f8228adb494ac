package stream

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppStreamTransits, h.handleTransits)
}
