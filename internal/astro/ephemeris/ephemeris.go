// Package ephemeris computes display-grade planetary positions.
//
// Longitudes come from truncated mean-element series (JPL approximate
// elements for the planets, abridged Meeus series for the sun and moon).
// Accuracy is a few arcminutes for the luminaries and well under a degree
// for the outer planets, which matches the grade of positions the product
// has always displayed. Anything research-grade belongs to a real ephemeris
// backend, not here.
package ephemeris

import (
	"math"
	"time"
)

// Body identifies a chart point computed by this package.
type Body string

const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mercury Body = "mercury"
	Venus   Body = "venus"
	Mars    Body = "mars"
	Jupiter Body = "jupiter"
	Saturn  Body = "saturn"
	Uranus  Body = "uranus"
	Neptune Body = "neptune"
	Pluto   Body = "pluto"
)

// Bodies lists every supported body in traditional order.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Position is a computed ecliptic position for one body.
type Position struct {
	Body       Body    `json:"body"`
	Longitude  float64 `json:"longitude"`
	Retrograde bool    `json:"retrograde"`
}

const (
	j2000          = 2451545.0
	degToRad       = math.Pi / 180
	radToDeg       = 180 / math.Pi
	daysPerCentury = 36525.0
)

// JulianDay converts an instant to the Julian day number.
func JulianDay(t time.Time) float64 {
	utc := t.UTC()
	year := utc.Year()
	month := int(utc.Month())
	day := float64(utc.Day()) +
		float64(utc.Hour())/24 +
		float64(utc.Minute())/1440 +
		float64(utc.Second())/86400

	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + float64(b) - 1524.5
}

// Longitude returns the apparent geocentric ecliptic longitude of body in
// degrees, normalized to [0,360).
func Longitude(body Body, jd float64) float64 {
	t := (jd - j2000) / daysPerCentury
	switch body {
	case Sun:
		return sunLongitude(t)
	case Moon:
		return moonLongitude(t)
	default:
		return planetLongitude(body, t)
	}
}

// PositionAt computes the position of body at jd, including a retrograde
// flag derived from the motion over the following day.
func PositionAt(body Body, jd float64) Position {
	lon := Longitude(body, jd)
	next := Longitude(body, jd+1)
	delta := normalizeDegrees(next - lon)
	return Position{
		Body:       body,
		Longitude:  lon,
		Retrograde: delta > 180,
	}
}

// AllPositions computes every supported body at jd.
func AllPositions(jd float64) []Position {
	positions := make([]Position, 0, len(Bodies))
	for _, body := range Bodies {
		positions = append(positions, PositionAt(body, jd))
	}
	return positions
}

// Obliquity returns the mean obliquity of the ecliptic in degrees.
func Obliquity(jd float64) float64 {
	t := (jd - j2000) / daysPerCentury
	return 23.43929111 - 0.0130042*t - 1.64e-7*t*t + 5.036e-7*t*t*t
}

// SiderealTime returns the Greenwich mean sidereal time at jd in degrees.
func SiderealTime(jd float64) float64 {
	t := (jd - j2000) / daysPerCentury
	theta := 280.46061837 + 360.98564736629*(jd-j2000) + 0.000387933*t*t - t*t*t/38710000
	return normalizeDegrees(theta)
}

// Ascendant returns the rising ecliptic degree for jd at the given
// geographic coordinates (east longitude positive).
func Ascendant(jd, latitude, longitude float64) float64 {
	ramc := (SiderealTime(jd) + longitude) * degToRad
	eps := Obliquity(jd) * degToRad
	lat := latitude * degToRad

	asc := math.Atan2(math.Cos(ramc), -(math.Sin(ramc)*math.Cos(eps) + math.Tan(lat)*math.Sin(eps)))
	return normalizeDegrees(asc * radToDeg)
}

// Midheaven returns the culminating ecliptic degree for jd at the given
// east longitude.
func Midheaven(jd, longitude float64) float64 {
	ramc := (SiderealTime(jd) + longitude) * degToRad
	eps := Obliquity(jd) * degToRad
	mc := math.Atan2(math.Sin(ramc), math.Cos(ramc)*math.Cos(eps))
	return normalizeDegrees(mc * radToDeg)
}

func sunLongitude(t float64) float64 {
	meanLon := 280.46646 + 36000.76983*t + 0.0003032*t*t
	meanAnom := (357.52911 + 35999.05029*t - 0.0001537*t*t) * degToRad
	center := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(meanAnom) +
		(0.019993-0.000101*t)*math.Sin(2*meanAnom) +
		0.000289*math.Sin(3*meanAnom)
	return normalizeDegrees(meanLon + center)
}

func moonLongitude(t float64) float64 {
	// Abridged lunar theory: mean longitude plus the six largest
	// periodic terms. Good to roughly a third of a degree.
	lp := 218.3164477 + 481267.88123421*t
	d := (297.8501921 + 445267.1114034*t) * degToRad
	m := (357.5291092 + 35999.0502909*t) * degToRad
	mp := (134.9633964 + 477198.8675055*t) * degToRad
	f := (93.2720950 + 483202.0175233*t) * degToRad

	lon := lp +
		6.288774*math.Sin(mp) +
		1.274027*math.Sin(2*d-mp) +
		0.658314*math.Sin(2*d) +
		0.213618*math.Sin(2*mp) -
		0.185116*math.Sin(m) -
		0.114332*math.Sin(2*f)
	return normalizeDegrees(lon)
}

// orbitalElements holds J2000 Keplerian elements and centennial rates.
type orbitalElements struct {
	a, aDot       float64 // semi-major axis, au
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination, deg
	l, lDot       float64 // mean longitude, deg
	peri, periDot float64 // longitude of perihelion, deg
	node, nodeDot float64 // longitude of ascending node, deg
}

// JPL approximate elements, valid 1800-2050.
var planetElements = map[Body]orbitalElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// Earth-moon barycenter, used to shift heliocentric positions to geocentric.
var earthElements = orbitalElements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0,
}

func planetLongitude(body Body, t float64) float64 {
	elements, ok := planetElements[body]
	if !ok {
		return 0
	}
	px, py, _ := heliocentric(elements, t)
	ex, ey, _ := heliocentric(earthElements, t)
	return normalizeDegrees(math.Atan2(py-ey, px-ex) * radToDeg)
}

// heliocentric returns the J2000 ecliptic position of a body in au.
func heliocentric(el orbitalElements, t float64) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := (el.i + el.iDot*t) * degToRad
	meanLon := el.l + el.lDot*t
	periLon := el.peri + el.periDot*t
	nodeLon := el.node + el.nodeDot*t

	argPeri := (periLon - nodeLon) * degToRad
	node := nodeLon * degToRad
	meanAnom := normalizeDegrees(meanLon-periLon) * degToRad

	ecc := solveKepler(meanAnom, e)
	xOrb := a * (math.Cos(ecc) - e)
	yOrb := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(inc), math.Sin(inc)

	x = (cosW*cosO-sinW*sinO*cosI)*xOrb + (-sinW*cosO-cosW*sinO*cosI)*yOrb
	y = (cosW*sinO+sinW*cosO*cosI)*xOrb + (-sinW*sinO+cosW*cosO*cosI)*yOrb
	z = sinW*sinI*xOrb + cosW*sinI*yOrb
	return x, y, z
}

// solveKepler iterates Kepler's equation for the eccentric anomaly.
func solveKepler(meanAnom, e float64) float64 {
	ecc := meanAnom
	for iter := 0; iter < 12; iter++ {
		delta := (ecc - e*math.Sin(ecc) - meanAnom) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-9 {
			break
		}
	}
	return ecc
}

func normalizeDegrees(deg float64) float64 {
	norm := math.Mod(deg, 360)
	if norm < 0 {
		norm += 360
	}
	return norm
}
