package api

import (
	"net/http"

	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.APICalculate, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.APICalculate, h.handleCalculate)
	mux.HandleFunc(http.MethodGet+" "+routepath.APICalculateNumer, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.APICalculateNumer, h.handleCalculateNumerology)
	mux.HandleFunc(http.MethodGet+" "+routepath.APICalculateTransits, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.APICalculateTransits, h.handleCalculateTransits)
	mux.HandleFunc(http.MethodGet+" "+routepath.APICalculateSynastry, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.APICalculateSynastry, h.handleCalculateSynastry)
	mux.HandleFunc(http.MethodPost+" "+routepath.APIGenekeysProfile, h.handleGenekeysProfile)
	mux.HandleFunc(http.MethodGet+" "+routepath.APIGenekeysKeyPattern, h.handleGenekeysKey)
}
