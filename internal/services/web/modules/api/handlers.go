package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cosmichub/cosmichub/internal/services/web/platform/authctx"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

type handlers struct {
	service service
	meter   *entitlements.Meter
}

func newHandlers(s service, meter *entitlements.Meter) handlers {
	return handlers{service: s, meter: meter}
}

func (h handlers) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var input BirthInput
	if !decodeBody(w, r, &input) {
		return
	}
	if !h.consume(w, r, tiers.ResourceChartCalcs) {
		return
	}
	result, err := h.service.calculateChart(input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, result)
}

func (h handlers) handleCalculateNumerology(w http.ResponseWriter, r *http.Request) {
	var input BirthInput
	if !decodeBody(w, r, &input) {
		return
	}
	if !h.consume(w, r, tiers.ResourceChartCalcs) {
		return
	}
	result, err := h.service.calculateNumerology(input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, result)
}

func (h handlers) handleCalculateTransits(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		BirthInput
		At string `json:"at,omitempty"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if !h.requireFeature(w, r, tiers.FeatureTransits) {
		return
	}
	if !h.consume(w, r, tiers.ResourceTransitCalcs) {
		return
	}

	var at time.Time
	if payload.At != "" {
		parsed, err := time.Parse(time.RFC3339, payload.At)
		if err != nil {
			httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "at must be an RFC 3339 timestamp"))
			return
		}
		at = parsed
	}

	result, err := h.service.calculateTransits(payload.BirthInput, at)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, result)
}

func (h handlers) handleCalculateSynastry(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PersonA BirthInput `json:"person_a"`
		PersonB BirthInput `json:"person_b"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if !h.requireFeature(w, r, tiers.FeatureSynastry) {
		return
	}
	if !h.consume(w, r, tiers.ResourceSynastryReports) {
		return
	}
	result, err := h.service.calculateSynastry(payload.PersonA, payload.PersonB)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, result)
}

func (h handlers) handleGenekeysProfile(w http.ResponseWriter, r *http.Request) {
	var input BirthInput
	if !decodeBody(w, r, &input) {
		return
	}
	if !h.consume(w, r, tiers.ResourceChartCalcs) {
		return
	}
	profile, err := h.service.genekeysProfile(input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, profile)
}

func (h handlers) handleGenekeysKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.genekeysKey(r.PathValue("number"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, key)
}

// requirePrincipal resolves the authenticated caller or writes a 401.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (authctx.Principal, bool) {
	principal, ok := authctx.FromRequest(r)
	if !ok {
		httpx.WriteError(w, apperrors.E(apperrors.KindUnauthorized, "authentication is required"))
		return authctx.Principal{}, false
	}
	return principal, true
}

func (h handlers) requireFeature(w http.ResponseWriter, r *http.Request, feature tiers.Feature) bool {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return false
	}
	if err := entitlements.RequireFeature(principal.Tier, feature); err != nil {
		httpx.WriteError(w, err)
		return false
	}
	return true
}

func (h handlers) consume(w http.ResponseWriter, r *http.Request, resource tiers.Resource) bool {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return false
	}
	if err := h.meter.Consume(r.Context(), principal.UserID, principal.Tier, resource); err != nil {
		httpx.WriteError(w, err)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid json body"))
		return false
	}
	return true
}
