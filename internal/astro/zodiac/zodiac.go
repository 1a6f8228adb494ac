// Package zodiac models the tropical zodiac used across chart calculations.
package zodiac

import (
	"math"
	"strings"
	"time"
)

// Sign is one of the twelve tropical zodiac signs.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// Element groups signs by classical element.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

// Modality groups signs by quality.
type Modality string

const (
	Cardinal Modality = "cardinal"
	Fixed    Modality = "fixed"
	Mutable  Modality = "mutable"
)

var names = [12]string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

var glyphs = [12]string{"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓"}

var rulers = [12]string{
	"mars", "venus", "mercury", "moon", "sun", "mercury",
	"venus", "pluto", "jupiter", "saturn", "uranus", "neptune",
}

// String returns the lowercase sign name.
func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return "unknown"
	}
	return names[s]
}

// Glyph returns the astrological symbol for the sign.
func (s Sign) Glyph() string {
	if s < Aries || s > Pisces {
		return ""
	}
	return glyphs[s]
}

// Element returns the classical element of the sign.
func (s Sign) Element() Element {
	switch s % 4 {
	case 0:
		return Fire
	case 1:
		return Earth
	case 2:
		return Air
	default:
		return Water
	}
}

// Modality returns the quality of the sign.
func (s Sign) Modality() Modality {
	switch s % 3 {
	case 0:
		return Cardinal
	case 1:
		return Fixed
	default:
		return Mutable
	}
}

// Ruler returns the modern ruling planet of the sign.
func (s Sign) Ruler() string {
	if s < Aries || s > Pisces {
		return ""
	}
	return rulers[s]
}

// FromLongitude maps an ecliptic longitude in degrees to its sign.
func FromLongitude(longitude float64) Sign {
	norm := math.Mod(longitude, 360)
	if norm < 0 {
		norm += 360
	}
	return Sign(int(norm / 30))
}

// DegreeInSign returns the position within the sign for a longitude.
func DegreeInSign(longitude float64) float64 {
	norm := math.Mod(longitude, 360)
	if norm < 0 {
		norm += 360
	}
	return math.Mod(norm, 30)
}

// Parse resolves a sign from its lowercase or mixed-case name.
func Parse(name string) (Sign, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for idx, candidate := range names {
		if candidate == needle {
			return Sign(idx), true
		}
	}
	return 0, false
}

// sunSignBoundaries holds the day each sign begins, indexed by month.
// A birthday before the boundary day belongs to the previous sign.
var sunSignBoundaries = [13]struct {
	day  int
	sign Sign
}{
	{}, // months are 1-indexed
	{20, Aquarius},
	{19, Pisces},
	{21, Aries},
	{20, Taurus},
	{21, Gemini},
	{21, Cancer},
	{23, Leo},
	{23, Virgo},
	{23, Libra},
	{23, Scorpio},
	{22, Sagittarius},
	{22, Capricorn},
}

// SunSignForDate maps a Gregorian month/day to the western sun sign using
// popular almanac boundaries. Chart calculation uses the actual solar
// longitude; this is the quick lookup used for display fallbacks.
func SunSignForDate(d time.Time) Sign {
	month := int(d.UTC().Month())
	day := d.UTC().Day()
	boundary := sunSignBoundaries[month]
	if day >= boundary.day {
		return boundary.sign
	}
	prev := month - 1
	if prev < 1 {
		prev = 12
	}
	return sunSignBoundaries[prev].sign
}
