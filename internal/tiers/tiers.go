// Package tiers holds the static subscription table that gates features
// and meters usage.
package tiers

import "fmt"

// Tier is a subscription level.
type Tier string

const (
	Free    Tier = "free"
	Premium Tier = "premium"
	Elite   Tier = "elite"
)

// Tiers lists every tier from cheapest to most expensive.
var Tiers = []Tier{Free, Premium, Elite}

// Feature is a gated capability.
type Feature string

const (
	FeatureTransits      Feature = "transits"
	FeatureSynastry      Feature = "synastry"
	FeatureTransitStream Feature = "transit_stream"
	FeatureTransitFeed   Feature = "transit_feed"
)

// Resource is a metered quantity with a per-tier ceiling.
type Resource string

const (
	// ResourceSavedCharts caps charts stored per account.
	ResourceSavedCharts Resource = "saved_charts"
	// ResourceChartCalcs caps chart calculations per UTC day.
	ResourceChartCalcs Resource = "chart_calcs"
	// ResourceTransitCalcs caps transit calculations per UTC day.
	ResourceTransitCalcs Resource = "transit_calcs"
	// ResourceSynastryReports caps synastry reports per UTC month.
	ResourceSynastryReports Resource = "synastry_reports"
)

// Unlimited marks a resource with no ceiling at a tier.
const Unlimited = -1

var features = map[Tier]map[Feature]bool{
	Free: {},
	Premium: {
		FeatureTransits:    true,
		FeatureSynastry:    true,
		FeatureTransitFeed: true,
	},
	Elite: {
		FeatureTransits:      true,
		FeatureSynastry:      true,
		FeatureTransitFeed:   true,
		FeatureTransitStream: true,
	},
}

var limits = map[Tier]map[Resource]int{
	Free: {
		ResourceSavedCharts:     3,
		ResourceChartCalcs:      10,
		ResourceTransitCalcs:    0,
		ResourceSynastryReports: 0,
	},
	Premium: {
		ResourceSavedCharts:     50,
		ResourceChartCalcs:      100,
		ResourceTransitCalcs:    50,
		ResourceSynastryReports: 30,
	},
	Elite: {
		ResourceSavedCharts:     Unlimited,
		ResourceChartCalcs:      Unlimited,
		ResourceTransitCalcs:    Unlimited,
		ResourceSynastryReports: Unlimited,
	},
}

// Parse converts a stored tier string, defaulting the empty string to Free.
func Parse(s string) (Tier, error) {
	switch Tier(s) {
	case Free, Premium, Elite:
		return Tier(s), nil
	case "":
		return Free, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Allows reports whether a tier includes a feature.
func Allows(t Tier, f Feature) bool {
	return features[t][f]
}

// Limit returns the ceiling for a resource at a tier, or Unlimited.
// Unknown tiers get the Free limits.
func Limit(t Tier, r Resource) int {
	m, ok := limits[t]
	if !ok {
		m = limits[Free]
	}
	return m[r]
}

// WithinLimit reports whether used is still under the tier's ceiling.
func WithinLimit(t Tier, r Resource, used int) bool {
	limit := Limit(t, r)
	if limit == Unlimited {
		return true
	}
	return used < limit
}
