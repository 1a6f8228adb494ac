package synastry

import (
	"io"
	"net/http"

	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

const maxCardBytes = 1 << 20

type handlers struct {
	service   service
	meter     *entitlements.Meter
	resolvers module.Resolvers
}

func newHandlers(s service, meter *entitlements.Meter, resolvers module.Resolvers) handlers {
	return handlers{service: s, meter: meter, resolvers: resolvers}
}

func (h handlers) handleImportVCard(w http.ResponseWriter, r *http.Request) {
	tier := h.resolvers.Tier(r)
	if err := entitlements.RequireFeature(tier, tiers.FeatureSynastry); err != nil {
		httpx.WriteError(w, err)
		return
	}

	card, chartID, err := cardFromRequest(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	defer func() {
		_ = card.Close()
	}()

	userID := h.resolvers.UserID(r)
	if err := h.meter.Consume(r.Context(), userID, tier, tiers.ResourceSynastryReports); err != nil {
		httpx.WriteError(w, err)
		return
	}

	result, err := h.service.importAndCompare(r.Context(), userID, chartID, io.LimitReader(card, maxCardBytes))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, result)
}

// cardFromRequest accepts either a multipart upload under the "vcard" field
// or a raw text/vcard body with the chart id in the query string.
func cardFromRequest(r *http.Request) (io.ReadCloser, string, error) {
	contentType := r.Header.Get("Content-Type")
	if r.MultipartForm != nil || len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxCardBytes); err != nil {
			return nil, "", apperrors.E(apperrors.KindInvalidInput, "the uploaded form could not be read")
		}
		file, _, err := r.FormFile("vcard")
		if err != nil {
			return nil, "", apperrors.E(apperrors.KindInvalidInput, "a vcard file upload is required")
		}
		return file, r.FormValue("chart"), nil
	}
	return r.Body, r.URL.Query().Get("chart"), nil
}
