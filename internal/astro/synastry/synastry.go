// Package synastry compares two natal charts.
package synastry

import (
	"fmt"
	"math"

	"github.com/cosmichub/cosmichub/internal/astro/chart"
	"github.com/cosmichub/cosmichub/internal/astro/ephemeris"
	"github.com/cosmichub/cosmichub/internal/astro/zodiac"
)

// Aspect links a placement in chart A to a placement in chart B.
type Aspect struct {
	BodyA ephemeris.Body   `json:"body_a"`
	BodyB ephemeris.Body   `json:"body_b"`
	Type  chart.AspectType `json:"type"`
	Orb   float64          `json:"orb"`
}

// Report is the full cross-chart comparison.
type Report struct {
	Aspects    []Aspect       `json:"aspects"`
	Harmonious int            `json:"harmonious"`
	Tense      int            `json:"tense"`
	Elements   map[string]int `json:"elements"`
}

var synastryOrbs = []struct {
	kind  chart.AspectType
	angle float64
	orb   float64
}{
	{chart.Conjunction, 0, 6},
	{chart.Sextile, 60, 3},
	{chart.Square, 90, 5},
	{chart.Trine, 120, 5},
	{chart.Opposition, 180, 6},
}

// Compare builds the aspect grid between two natal charts plus a combined
// element distribution. Trines and sextiles count as harmonious, squares
// and oppositions as tense; conjunctions are counted in neither column.
func Compare(a, b chart.Natal) (Report, error) {
	if len(a.Placements) == 0 || len(b.Placements) == 0 {
		return Report{}, fmt.Errorf("both natal charts are required")
	}

	report := Report{Elements: map[string]int{}}
	for _, placementA := range a.Placements {
		for _, placementB := range b.Placements {
			separation := angularSeparation(placementA.Longitude, placementB.Longitude)
			for _, candidate := range synastryOrbs {
				orb := math.Abs(separation - candidate.angle)
				if orb > candidate.orb {
					continue
				}
				report.Aspects = append(report.Aspects, Aspect{
					BodyA: placementA.Body,
					BodyB: placementB.Body,
					Type:  candidate.kind,
					Orb:   orb,
				})
				switch candidate.kind {
				case chart.Trine, chart.Sextile:
					report.Harmonious++
				case chart.Square, chart.Opposition:
					report.Tense++
				}
				break
			}
		}
	}

	for _, natal := range []chart.Natal{a, b} {
		for _, placement := range natal.Placements {
			sign, ok := zodiac.Parse(placement.Sign)
			if !ok {
				continue
			}
			report.Elements[string(sign.Element())]++
		}
	}
	return report, nil
}

func angularSeparation(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
