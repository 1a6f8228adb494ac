package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/transits"
	module "github.com/cosmichub/cosmichub/internal/services/web/module"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/entitlements"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	"github.com/cosmichub/cosmichub/internal/services/web/platform/httpx"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

type handlers struct {
	store     webstorage.Store
	resolvers module.Resolvers
	interval  time.Duration
}

func newHandlers(store webstorage.Store, resolvers module.Resolvers, interval time.Duration) handlers {
	return handlers{store: store, resolvers: resolvers, interval: interval}
}

// frame is one push on the transit stream.
type frame struct {
	Type   string          `json:"type"`
	Report transits.Report `json:"report"`
}

func (h handlers) handleTransits(w http.ResponseWriter, r *http.Request) {
	tier := h.resolvers.Tier(r)
	if err := entitlements.RequireFeature(tier, tiers.FeatureTransitStream); err != nil {
		httpx.WriteError(w, err)
		return
	}
	natal, err := h.loadChart(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.streamTransits(r.Context(), conn, natal)
	}).ServeHTTP(w, r)
}

func (h handlers) loadChart(r *http.Request) (chart.Natal, error) {
	userID := strings.TrimSpace(h.resolvers.UserID(r))
	if userID == "" {
		return chart.Natal{}, apperrors.EK(apperrors.KindUnauthorized, "auth.user_id_required", "user id is required")
	}
	chartID := strings.TrimSpace(r.URL.Query().Get("chart"))
	if chartID == "" {
		return chart.Natal{}, apperrors.E(apperrors.KindInvalidInput, "chart query parameter is required")
	}
	saved, err := h.store.GetChart(r.Context(), userID, chartID)
	if err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return chart.Natal{}, apperrors.E(apperrors.KindNotFound, "chart not found")
		}
		return chart.Natal{}, err
	}
	var natal chart.Natal
	if err := json.Unmarshal(saved.ChartJSON, &natal); err != nil {
		return chart.Natal{}, err
	}
	return natal, nil
}

// streamTransits pushes one report immediately and then one per tick until
// the client hangs up or the request context ends.
func (h handlers) streamTransits(ctx context.Context, conn *websocket.Conn, natal chart.Natal) {
	defer func() {
		_ = conn.Close()
	}()

	encoder := json.NewEncoder(conn)
	if err := pushReport(encoder, natal); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pushReport(encoder, natal); err != nil {
				return
			}
		}
	}
}

func pushReport(encoder *json.Encoder, natal chart.Natal) error {
	report, err := transits.Calculate(natal, time.Now().UTC())
	if err != nil {
		return err
	}
	return encoder.Encode(frame{Type: "transits.report", Report: report})
}
