package charts

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppCharts, h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppCharts, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppChartPattern, h.handleDetail)
	mux.HandleFunc(http.MethodPost+" "+routepath.ChartsPrefix+"{chartID}/delete", h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.ChartRestPattern, h.handleNotFound)
	mux.HandleFunc(http.MethodPost+" "+routepath.ChartRestPattern, h.handleNotFound)
}
