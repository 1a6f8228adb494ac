// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Health = "/healthz"

	AuthPrefix = "/auth/"
	AuthSignup = "/auth/signup"
	AuthLogin  = "/auth/login"
	AuthLogout = "/auth/logout"
	AuthToken  = "/auth/token"

	APIPrefix             = "/api/"
	APICalculate          = "/api/calculate"
	APICalculateNumer     = "/api/calculate-numerology"
	APICalculateTransits  = "/api/calculate-transits"
	APICalculateSynastry  = "/api/calculate-synastry"
	APIGenekeysPrefix     = "/api/genekeys/"
	APIGenekeysProfile    = "/api/genekeys/profile"
	APIGenekeysKeyPattern = APIGenekeysPrefix + "keys/{number}"

	AppPrefix = "/app/"

	AppCharts        = "/app/charts"
	ChartsPrefix     = "/app/charts/"
	AppChartPattern  = ChartsPrefix + "{chartID}"
	ChartRestPattern = ChartsPrefix + "{chartID}/{rest...}"

	TransitsPrefix  = "/app/transits/"
	AppTransitsFeed = "/app/transits/feed.ics"

	SynastryPrefix          = "/app/synastry/"
	AppSynastryImportVCard  = "/app/synastry/import-vcard"
	SubscriptionPrefix      = "/app/subscription/"
	AppSubscription         = "/app/subscription"
	AppSubscriptionUpgrade  = "/app/subscription/upgrade"
	AppSubscriptionUsage    = "/app/subscription/usage"
	StreamPrefix            = "/app/stream/"
	AppStreamTransits       = "/app/stream/transits"
	SubscriptionTierFormKey = "tier"
)

// AppChart returns the saved chart detail route.
func AppChart(chartID string) string {
	return ChartsPrefix + escapeSegment(chartID)
}

// APIGenekeysKey returns the key catalog detail route.
func APIGenekeysKey(number string) string {
	return APIGenekeysPrefix + "keys/" + escapeSegment(number)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
