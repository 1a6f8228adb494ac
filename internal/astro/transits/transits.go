// Package transits computes current-sky aspects against a natal chart.
package transits

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/ephemeris"
	"github.com/cosmichub/cosmichub/internal/astro/zodiac"
)

// Hit is one transiting body aspecting a natal placement.
type Hit struct {
	Transiting ephemeris.Body   `json:"transiting"`
	Natal      ephemeris.Body   `json:"natal"`
	Type       chart.AspectType `json:"type"`
	Orb        float64          `json:"orb"`
}

// SkyPosition is a transiting body's current placement.
type SkyPosition struct {
	Body       ephemeris.Body `json:"body"`
	Longitude  float64        `json:"longitude"`
	Sign       string         `json:"sign"`
	Degree     float64        `json:"degree"`
	Retrograde bool           `json:"retrograde,omitempty"`
}

// Report is the transit picture for one instant against one natal chart.
type Report struct {
	At  time.Time     `json:"at"`
	Sky []SkyPosition `json:"sky"`
	Hit []Hit         `json:"hits"`
}

// Transit orbs are tighter than natal orbs; a transit is only worth
// reporting close to exactness.
var transitOrbs = map[chart.AspectType]struct {
	angle float64
	orb   float64
}{
	chart.Conjunction: {0, 3},
	chart.Sextile:     {60, 2},
	chart.Square:      {90, 3},
	chart.Trine:       {120, 3},
	chart.Opposition:  {180, 3},
}

// aspectOrder keeps report output deterministic.
var aspectOrder = []chart.AspectType{chart.Conjunction, chart.Sextile, chart.Square, chart.Trine, chart.Opposition}

// Calculate builds a transit report for the natal chart at the given instant.
func Calculate(natal chart.Natal, at time.Time) (Report, error) {
	if len(natal.Placements) == 0 {
		return Report{}, fmt.Errorf("natal chart has no placements")
	}

	jd := ephemeris.JulianDay(at)
	report := Report{At: at.UTC()}

	for _, pos := range ephemeris.AllPositions(jd) {
		report.Sky = append(report.Sky, SkyPosition{
			Body:       pos.Body,
			Longitude:  pos.Longitude,
			Sign:       zodiac.FromLongitude(pos.Longitude).String(),
			Degree:     zodiac.DegreeInSign(pos.Longitude),
			Retrograde: pos.Retrograde,
		})
		for _, natalPlacement := range natal.Placements {
			if hit, ok := matchAspect(pos, natalPlacement); ok {
				report.Hit = append(report.Hit, hit)
			}
		}
	}
	return report, nil
}

func matchAspect(transiting ephemeris.Position, natal chart.Placement) (Hit, bool) {
	separation := angularSeparation(transiting.Longitude, natal.Longitude)
	for _, kind := range aspectOrder {
		spec := transitOrbs[kind]
		orb := math.Abs(separation - spec.angle)
		if orb <= spec.orb {
			return Hit{
				Transiting: transiting.Body,
				Natal:      natal.Body,
				Type:       kind,
				Orb:        orb,
			}, true
		}
	}
	return Hit{}, false
}

// Event is an upcoming day on which a transit aspect is closest to exact.
type Event struct {
	Transiting ephemeris.Body   `json:"transiting"`
	Natal      ephemeris.Body   `json:"natal"`
	Type       chart.AspectType `json:"type"`
	Date       time.Time        `json:"date"`
	Orb        float64          `json:"orb"`
}

// Upcoming scans a day-granular window and returns the days on which each
// transit aspect reaches its closest approach. The scan is bounded: windows
// longer than a year are truncated.
func Upcoming(natal chart.Natal, from time.Time, days int) ([]Event, error) {
	if len(natal.Placements) == 0 {
		return nil, fmt.Errorf("natal chart has no placements")
	}
	if days <= 0 {
		days = 30
	}
	if days > 366 {
		days = 366
	}

	type key struct {
		transiting ephemeris.Body
		natal      ephemeris.Body
		kind       chart.AspectType
	}
	best := make(map[key]Event)

	start := from.UTC().Truncate(24 * time.Hour)
	for offset := 0; offset < days; offset++ {
		day := start.AddDate(0, 0, offset)
		report, err := Calculate(natal, day)
		if err != nil {
			return nil, err
		}
		for _, hit := range report.Hit {
			k := key{hit.Transiting, hit.Natal, hit.Type}
			existing, seen := best[k]
			if !seen || hit.Orb < existing.Orb {
				best[k] = Event{
					Transiting: hit.Transiting,
					Natal:      hit.Natal,
					Type:       hit.Type,
					Date:       day,
					Orb:        hit.Orb,
				}
			}
		}
	}

	events := make([]Event, 0, len(best))
	for _, event := range best {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].Orb != events[j].Orb {
			return events[i].Orb < events[j].Orb
		}
		return events[i].Transiting < events[j].Transiting
	})
	return events, nil
}

func angularSeparation(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
