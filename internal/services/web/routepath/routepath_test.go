package routepath

import "testing"

func TestAppChartEscapesSegment(t *testing.T) {
	t.Parallel()

	if got := AppChart("abc123"); got != "/app/charts/abc123" {
		t.Fatalf("AppChart = %q", got)
	}
	if got := AppChart(" weird/id "); got != "/app/charts/weird%2Fid" {
		t.Fatalf("AppChart with unsafe segment = %q", got)
	}
}

func TestAPIGenekeysKey(t *testing.T) {
	t.Parallel()

	if got := APIGenekeysKey("22"); got != "/api/genekeys/keys/22" {
		t.Fatalf("APIGenekeysKey = %q", got)
	}
}

func TestProtectedPathsStayUnderAppPrefix(t *testing.T) {
	t.Parallel()

	for _, p := range []string{AppCharts, AppTransitsFeed, AppSynastryImportVCard, AppSubscription, AppStreamTransits} {
		if len(p) < len(AppPrefix) || p[:len(AppPrefix)] != AppPrefix {
			t.Fatalf("path %q is outside %q", p, AppPrefix)
		}
	}
}
