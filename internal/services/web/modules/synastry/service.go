package synastry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/synastry"
	"github.com/cosmichub/cosmichub/internal/birthdata"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
)

// Partner birth time is unknown for vCard imports; noon keeps the sun
// position error under half a degree either way.
const defaultPartnerTime = "12:00"

// comparison is the outcome of a partner import.
type comparison struct {
	PartnerName string          `json:"partner_name"`
	Report      synastry.Report `json:"report"`
}

type service struct {
	store webstorage.Store
}

func newService(store webstorage.Store) service {
	return service{store: store}
}

func (s service) importAndCompare(ctx context.Context, userID string, chartID string, card io.Reader) (comparison, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return comparison{}, apperrors.EK(apperrors.KindUnauthorized, "auth.user_id_required", "user id is required")
	}
	chartID = strings.TrimSpace(chartID)
	if chartID == "" {
		return comparison{}, apperrors.E(apperrors.KindInvalidInput, "chart form field is required")
	}

	partner, err := synastry.ImportPartnerCard(card)
	if err != nil {
		return comparison{}, apperrors.E(apperrors.KindInvalidInput, err.Error())
	}

	saved, err := s.store.GetChart(ctx, userID, chartID)
	if err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return comparison{}, apperrors.E(apperrors.KindNotFound, "chart not found")
		}
		return comparison{}, fmt.Errorf("load chart: %w", err)
	}
	var own chart.Natal
	if err := json.Unmarshal(saved.ChartJSON, &own); err != nil {
		return comparison{}, fmt.Errorf("decode chart: %w", err)
	}

	partnerBirth, err := birthdata.ToUnifiedBirthData(birthdata.TextBirthData{
		BirthDate: partner.BirthDate,
		BirthTime: defaultPartnerTime,
	})
	if err != nil {
		return comparison{}, apperrors.E(apperrors.KindInvalidInput, "the contact card birthday could not be used")
	}
	partnerChart, err := chart.Calculate(partnerBirth)
	if err != nil {
		return comparison{}, fmt.Errorf("calculate partner chart: %w", err)
	}

	report, err := synastry.Compare(own, partnerChart)
	if err != nil {
		return comparison{}, fmt.Errorf("compare charts: %w", err)
	}
	return comparison{PartnerName: partner.Name, Report: report}, nil
}
