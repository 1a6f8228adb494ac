// Package entitlements enforces tier feature gates and metered usage limits.
package entitlements

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/cosmichub/cosmichub/internal/services/web/platform/errors"
	webstorage "github.com/cosmichub/cosmichub/internal/services/web/storage"
	"github.com/cosmichub/cosmichub/internal/tiers"
)

// Meter checks feature access and consumes metered resources.
type Meter struct {
	usage webstorage.UsageStore
	now   func() time.Time
}

// NewMeter returns a meter backed by the given usage store.
func NewMeter(usage webstorage.UsageStore) *Meter {
	return NewMeterWithClock(usage, time.Now)
}

// NewMeterWithClock returns a meter with an explicit clock for tests.
func NewMeterWithClock(usage webstorage.UsageStore, now func() time.Time) *Meter {
	if now == nil {
		now = time.Now
	}
	return &Meter{usage: usage, now: now}
}

// RequireFeature fails with an upgrade error when the tier lacks the feature.
func RequireFeature(tier tiers.Tier, feature tiers.Feature) error {
	if tiers.Allows(tier, feature) {
		return nil
	}
	return apperrors.EK(
		apperrors.KindUpgradeRequired,
		"subscription.upgrade_required",
		fmt.Sprintf("the %s feature requires a higher subscription tier", feature),
	)
}

// PeriodFor returns the usage bucket key for a resource at the given instant.
// Calculation resources meter per UTC day, synastry reports per UTC month,
// and saved charts accumulate in a single total bucket.
func PeriodFor(resource tiers.Resource, now time.Time) string {
	switch resource {
	case tiers.ResourceSynastryReports:
		return now.UTC().Format("2006-01")
	case tiers.ResourceSavedCharts:
		return "total"
	default:
		return now.UTC().Format("2006-01-02")
	}
}

// Consume records one unit of usage, failing when the tier ceiling is reached.
// The increment is atomic in the store and its returned count is the sole
// arbiter, so concurrent requests cannot pass the ceiling together. A denied
// request leaves its increment in place.
func (m *Meter) Consume(ctx context.Context, userID string, tier tiers.Tier, resource tiers.Resource) error {
	if m == nil || m.usage == nil {
		return apperrors.E(apperrors.KindUnavailable, "usage metering is not configured")
	}
	limit := tiers.Limit(tier, resource)
	if limit == 0 {
		return apperrors.EK(
			apperrors.KindUpgradeRequired,
			"subscription.upgrade_required",
			fmt.Sprintf("the %s resource requires a higher subscription tier", resource),
		)
	}

	period := PeriodFor(resource, m.now())
	count, err := m.usage.IncrementUsage(ctx, userID, string(resource), period)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	if limit != tiers.Unlimited && count > limit {
		return apperrors.EK(
			apperrors.KindRateLimited,
			"subscription.limit_reached",
			fmt.Sprintf("the %s limit for your subscription tier is exhausted", resource),
		)
	}
	return nil
}

// Used reports the consumed units for a resource in the current period.
func (m *Meter) Used(ctx context.Context, userID string, resource tiers.Resource) (int, error) {
	if m == nil || m.usage == nil {
		return 0, apperrors.E(apperrors.KindUnavailable, "usage metering is not configured")
	}
	return m.usage.GetUsage(ctx, userID, string(resource), PeriodFor(resource, m.now()))
}
