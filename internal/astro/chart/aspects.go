package chart

import (
	"math"

	"github.com/cosmichub/cosmichub/internal/astro/ephemeris"
)

// AspectType names a major aspect.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// Aspect is an angular relationship between two chart bodies.
type Aspect struct {
	From ephemeris.Body `json:"from"`
	To   ephemeris.Body `json:"to"`
	Type AspectType     `json:"type"`
	Orb  float64        `json:"orb"`
}

// aspectAngles maps each aspect to its exact angle and allowed orb.
var aspectAngles = []struct {
	kind  AspectType
	angle float64
	orb   float64
}{
	{Conjunction, 0, 8},
	{Sextile, 60, 4},
	{Square, 90, 7},
	{Trine, 120, 7},
	{Opposition, 180, 8},
}

// findAspects detects major aspects between every body pair. Pairs are
// emitted in traditional body order, tightest interpretation first when a
// separation is within orb of exactly one aspect angle (the angles are far
// enough apart that at most one can match).
func findAspects(positions []ephemeris.Position) []Aspect {
	aspects := make([]Aspect, 0)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			separation := angularSeparation(positions[i].Longitude, positions[j].Longitude)
			for _, candidate := range aspectAngles {
				orb := math.Abs(separation - candidate.angle)
				if orb <= candidate.orb {
					aspects = append(aspects, Aspect{
						From: positions[i].Body,
						To:   positions[j].Body,
						Type: candidate.kind,
						Orb:  orb,
					})
					break
				}
			}
		}
	}
	return aspects
}

// angularSeparation returns the shortest arc between two longitudes, in [0,180].
func angularSeparation(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
