// Package chart builds natal charts from validated birth data.
package chart

import (
	"fmt"

	"github.com/cosmichub/cosmichub/internal/astro/ephemeris"
	"github.com/cosmichub/cosmichub/internal/astro/zodiac"
	"github.com/cosmichub/cosmichub/internal/birthdata"
)

// Placement is one body positioned in the chart.
type Placement struct {
	Body       ephemeris.Body `json:"body"`
	Longitude  float64        `json:"longitude"`
	Sign       string         `json:"sign"`
	Degree     float64        `json:"degree"`
	House      int            `json:"house,omitempty"`
	Retrograde bool           `json:"retrograde,omitempty"`
}

// Angles carries the chart axes, present only when coordinates were given.
type Angles struct {
	Ascendant float64 `json:"ascendant"`
	Midheaven float64 `json:"midheaven"`
}

// Natal is a calculated natal chart.
type Natal struct {
	JulianDay  float64     `json:"julian_day"`
	Placements []Placement `json:"placements"`
	Angles     *Angles     `json:"angles,omitempty"`
	Houses     []float64   `json:"houses,omitempty"`
	Aspects    []Aspect    `json:"aspects"`
}

// Calculate computes a natal chart for the given birth data. House
// placements and angles require latitude and longitude; without them the
// chart carries sign positions and aspects only.
func Calculate(birth birthdata.UnifiedBirthData) (Natal, error) {
	if birth.Year == 0 && birth.Month == 0 {
		return Natal{}, fmt.Errorf("birth data is required")
	}

	jd := ephemeris.JulianDay(birth.Time())
	positions := ephemeris.AllPositions(jd)

	natal := Natal{JulianDay: jd}

	located := birth.Latitude != nil && birth.Longitude != nil
	var ascSign zodiac.Sign
	if located {
		asc := ephemeris.Ascendant(jd, *birth.Latitude, *birth.Longitude)
		mc := ephemeris.Midheaven(jd, *birth.Longitude)
		natal.Angles = &Angles{Ascendant: asc, Midheaven: mc}
		ascSign = zodiac.FromLongitude(asc)
		natal.Houses = wholeSignCusps(ascSign)
	}

	natal.Placements = make([]Placement, 0, len(positions))
	for _, pos := range positions {
		placement := Placement{
			Body:       pos.Body,
			Longitude:  pos.Longitude,
			Sign:       zodiac.FromLongitude(pos.Longitude).String(),
			Degree:     zodiac.DegreeInSign(pos.Longitude),
			Retrograde: pos.Retrograde,
		}
		if located {
			placement.House = wholeSignHouse(ascSign, zodiac.FromLongitude(pos.Longitude))
		}
		natal.Placements = append(natal.Placements, placement)
	}

	natal.Aspects = findAspects(positions)
	return natal, nil
}

// wholeSignCusps returns the twelve house cusps for an ascendant sign.
func wholeSignCusps(ascSign zodiac.Sign) []float64 {
	cusps := make([]float64, 12)
	base := float64(int(ascSign) * 30)
	for idx := range cusps {
		cusp := base + float64(idx)*30
		for cusp >= 360 {
			cusp -= 360
		}
		cusps[idx] = cusp
	}
	return cusps
}

// wholeSignHouse returns the 1-based house for a body sign given the rising sign.
func wholeSignHouse(ascSign, bodySign zodiac.Sign) int {
	return (int(bodySign)-int(ascSign)+12)%12 + 1
}
