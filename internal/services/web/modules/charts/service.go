package charts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/birthdata"
	"github.com/cosmichub/cosmichub/internal/id"
	"github.com/cosmichub/cosmichub/internal/services/web/filter"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/storage/cursor"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

const defaultPageSize = 20

// chartPage is one page of saved charts plus the continuation token.
type chartPage struct {
	items         []webstorage.SavedChart
	nextPageToken string
	used          int
	limit         int
}

// createInput carries the new chart form fields.
type createInput struct {
	Name      string
	BirthDate string
	BirthTime string
	City      string
	Timezone  string
	Latitude  *float64
	Longitude *float64
}

func requireUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.EK(apperrors.KindUnauthorized, "auth.user_id_required", "user id is required")
	}
	return userID, nil
}

type service struct {
	store webstorage.Store
}

func newService(store webstorage.Store) service {
	return service{store: store}
}

func (s service) listCharts(ctx context.Context, userID string, tier tiers.Tier, filterStr string, pageToken string) (chartPage, error) {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return chartPage{}, err
	}

	condition, err := filter.ParseChartFilter(filterStr)
	if err != nil {
		return chartPage{}, apperrors.E(apperrors.KindInvalidInput, err.Error())
	}

	var afterSeq uint64
	filterHash := cursor.HashFilter(filterStr)
	if strings.TrimSpace(pageToken) != "" {
		decoded, err := cursor.Decode(pageToken)
		if err != nil {
			return chartPage{}, apperrors.E(apperrors.KindInvalidInput, "page token is invalid")
		}
		if decoded.FilterHash != filterHash {
			return chartPage{}, apperrors.E(apperrors.KindInvalidInput, "page token does not match the filter")
		}
		afterSeq = decoded.Seq
	}

	items, err := s.store.ListCharts(ctx, webstorage.ChartQuery{
		UserID:   resolvedUserID,
		Where:    condition.Clause,
		Params:   condition.Params,
		AfterSeq: afterSeq,
		PageSize: defaultPageSize + 1,
	})
	if err != nil {
		return chartPage{}, fmt.Errorf("list charts: %w", err)
	}

	page := chartPage{limit: tiers.Limit(tier, tiers.ResourceSavedCharts)}
	if len(items) > defaultPageSize {
		items = items[:defaultPageSize]
		token, err := cursor.Encode(cursor.Cursor{Seq: items[len(items)-1].Seq, FilterHash: filterHash})
		if err != nil {
			return chartPage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.nextPageToken = token
	}
	page.items = items

	used, err := s.store.CountCharts(ctx, resolvedUserID)
	if err != nil {
		return chartPage{}, fmt.Errorf("count charts: %w", err)
	}
	page.used = used
	return page, nil
}

func (s service) createChart(ctx context.Context, userID string, tier tiers.Tier, input createInput) (webstorage.SavedChart, error) {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return webstorage.SavedChart{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return webstorage.SavedChart{}, apperrors.E(apperrors.KindInvalidInput, "chart name is required")
	}

	limit := tiers.Limit(tier, tiers.ResourceSavedCharts)
	if limit != tiers.Unlimited {
		used, err := s.store.CountCharts(ctx, resolvedUserID)
		if err != nil {
			return webstorage.SavedChart{}, fmt.Errorf("count charts: %w", err)
		}
		if used >= limit {
			return webstorage.SavedChart{}, apperrors.EK(
				apperrors.KindUpgradeRequired,
				"subscription.upgrade_required",
				"the saved chart limit for your subscription tier is exhausted",
			)
		}
	}

	birth, err := birthdata.ToUnifiedBirthData(birthdata.TextBirthData{
		BirthDate: input.BirthDate,
		BirthTime: input.BirthTime,
		City:      input.City,
		Timezone:  input.Timezone,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		var birthErr *birthdata.Error
		if errors.As(err, &birthErr) {
			return webstorage.SavedChart{}, apperrors.E(apperrors.KindInvalidInput, birthErr.Message)
		}
		return webstorage.SavedChart{}, err
	}

	natal, err := chart.Calculate(birth)
	if err != nil {
		return webstorage.SavedChart{}, fmt.Errorf("calculate chart: %w", err)
	}
	chartJSON, err := json.Marshal(natal)
	if err != nil {
		return webstorage.SavedChart{}, fmt.Errorf("encode chart: %w", err)
	}

	saved := webstorage.SavedChart{
		ID:        id.New(),
		UserID:    resolvedUserID,
		Name:      strings.TrimSpace(input.Name),
		Kind:      "natal",
		BirthDate: input.BirthDate,
		BirthTime: input.BirthTime,
		City:      strings.TrimSpace(input.City),
		Timezone:  strings.TrimSpace(input.Timezone),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		ChartJSON: chartJSON,
	}
	if err := s.store.CreateChart(ctx, saved); err != nil {
		return webstorage.SavedChart{}, fmt.Errorf("save chart: %w", err)
	}
	return saved, nil
}

func (s service) getChart(ctx context.Context, userID string, chartID string) (webstorage.SavedChart, chart.Natal, error) {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return webstorage.SavedChart{}, chart.Natal{}, err
	}
	saved, err := s.store.GetChart(ctx, resolvedUserID, strings.TrimSpace(chartID))
	if err != nil {
		if errors.Is(err, webstorage.ErrNotFound) {
			return webstorage.SavedChart{}, chart.Natal{}, apperrors.E(apperrors.KindNotFound, "chart not found")
		}
		return webstorage.SavedChart{}, chart.Natal{}, fmt.Errorf("load chart: %w", err)
	}

	var natal chart.Natal
	if err := json.Unmarshal(saved.ChartJSON, &natal); err != nil {
		return webstorage.SavedChart{}, chart.Natal{}, fmt.Errorf("decode chart: %w", err)
	}
	return saved, natal, nil
}

func (s service) deleteChart(ctx context.Context, userID string, chartID string) error {
	resolvedUserID, err := requireUserID(userID)
	if err != nil {
		return err
	}
	err = s.store.DeleteChart(ctx, resolvedUserID, strings.TrimSpace(chartID))
	if errors.Is(err, webstorage.ErrNotFound) {
		return apperrors.E(apperrors.KindNotFound, "chart not found")
	}
	return err
}
