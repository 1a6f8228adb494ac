package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/synastry"
	"github.com/cosmichub/cosmichub/internal/astro/transits"
	"github.com/cosmichub/cosmichub/internal/birthdata"
	"github.com/cosmichub/cosmichub/internal/genekeys"
	"github.com/cosmichub/cosmichub/internal/numerology"
	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
)

// BirthInput is the JSON shape shared by the calculation endpoints.
type BirthInput struct {
	Name      string   `json:"name,omitempty"`
	BirthDate string   `json:"birth_date"`
	BirthTime string   `json:"birth_time"`
	City      string   `json:"city,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ChartResult is the calculate endpoint response payload.
type ChartResult struct {
	Birth birthdata.UnifiedBirthData `json:"birth"`
	Chart chart.Natal                `json:"chart"`
}

type service struct{}

func newService() service {
	return service{}
}

func (service) resolveBirth(input BirthInput) (birthdata.UnifiedBirthData, error) {
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
			return birthdata.UnifiedBirthData{}, apperrors.E(apperrors.KindInvalidInput, birthErr.Message)
		}
		return birthdata.UnifiedBirthData{}, err
	}
	return birth, nil
}

func (s service) calculateChart(input BirthInput) (ChartResult, error) {
	birth, err := s.resolveBirth(input)
	if err != nil {
		return ChartResult{}, err
	}
	natal, err := chart.Calculate(birth)
	if err != nil {
		return ChartResult{}, err
	}
	return ChartResult{Birth: birth, Chart: natal}, nil
}

func (s service) calculateNumerology(input BirthInput) (numerology.Result, error) {
	if strings.TrimSpace(input.Name) == "" {
		return numerology.Result{}, apperrors.E(apperrors.KindInvalidInput, "name is required for numerology")
	}
	birth, err := s.resolveBirth(input)
	if err != nil {
		return numerology.Result{}, err
	}
	return numerology.Calculate(input.Name, birth)
}

func (s service) calculateTransits(input BirthInput, at time.Time) (transits.Report, error) {
	birth, err := s.resolveBirth(input)
	if err != nil {
		return transits.Report{}, err
	}
	natal, err := chart.Calculate(birth)
	if err != nil {
		return transits.Report{}, err
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return transits.Calculate(natal, at)
}

func (s service) calculateSynastry(a, b BirthInput) (synastry.Report, error) {
	chartA, err := s.calculateChart(a)
	if err != nil {
		return synastry.Report{}, err
	}
	chartB, err := s.calculateChart(b)
	if err != nil {
		return synastry.Report{}, err
	}
	return synastry.Compare(chartA.Chart, chartB.Chart)
}

func (s service) genekeysProfile(input BirthInput) (genekeys.Profile, error) {
	birth, err := s.resolveBirth(input)
	if err != nil {
		return genekeys.Profile{}, err
	}
	return genekeys.ComputeProfile(birth.Time())
}

func (service) genekeysKey(raw string) (genekeys.Key, error) {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return genekeys.Key{}, apperrors.E(apperrors.KindInvalidInput, "key number must be an integer")
	}
	key, err := genekeys.Lookup(number)
	if err != nil {
		return genekeys.Key{}, apperrors.E(apperrors.KindNotFound, "no such key")
	}
	return key, nil
}
