package transits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/transits"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

const (
	defaultFeedDays = 30
	maxFeedDays     = 90
)

type service struct {
	store webstorage.Store
	now   func() time.Time
}

func newService(store webstorage.Store) service {
	return service{store: store, now: time.Now}
}

// feed builds the upcoming transit calendar for one saved chart.
func (s service) feed(ctx context.Context, userID string, chartID string, days int) ([]byte, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.EK(apperrors.KindUnauthorized, "auth.user_id_required", "user id is required")
	}
	chartID = strings.TrimSpace(chartID)
	if chartID == "" {
		return nil, apperrors.E(apperrors.KindInvalidInput, "chart query parameter is required")
	}
	if days <= 0 {
		days = defaultFeedDays
	}
	if days > maxFeedDays {
		days = maxFeedDays
	}

	saved, err := s.store.GetChart(ctx, userID, chartID)
	if err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return nil, apperrors.E(apperrors.KindNotFound, "chart not found")
		}
		return nil, fmt.Errorf("load chart: %w", err)
	}

	var natal chart.Natal
	if err := json.Unmarshal(saved.ChartJSON, &natal); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}

	events, err := transits.Upcoming(natal, s.now().UTC(), days)
	if err != nil {
		return nil, fmt.Errorf("scan transits: %w", err)
	}
	encoded, err := transits.EncodeICS(events)
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return encoded, nil
}
