// Package genekeys maps ecliptic positions onto the 64-key archetype wheel
// and derives the activation sequence of a hologenetic profile.
package genekeys

import (
	_ "embed"
	"fmt"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cosmichub/cosmichub/internal/astro/ephemeris"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Key is one archetype from the embedded catalog.
type Key struct {
	Key    int    `yaml:"key" json:"key"`
	Name   string `yaml:"name" json:"name"`
	Shadow string `yaml:"shadow" json:"shadow"`
	Gift   string `yaml:"gift" json:"gift"`
	Siddhi string `yaml:"siddhi" json:"siddhi"`
}

// Activation is one sphere of the activation sequence.
type Activation struct {
	Key  Key `json:"key"`
	Line int `json:"line"`
}

// Profile is the activation sequence of a hologenetic profile.
type Profile struct {
	LifesWork Activation `json:"lifes_work"`
	Evolution Activation `json:"evolution"`
	Radiance  Activation `json:"radiance"`
	Purpose   Activation `json:"purpose"`
}

const (
	keySpan  = 360.0 / 64
	lineSpan = keySpan / 6

	// The wheel does not start at 0 Aries: key 25 begins at 28°15'
	// Pisces, which puts key 41 at 2° Aquarius.
	wheelOffset = 358.25

	// Mean solar arc between the design and natal suns.
	designArc = 88.0
)

// wheel lists the keys in zodiacal order starting from wheelOffset.
var wheel = [64]int{
	25, 17, 21, 51, 42, 3, 27, 24, 2, 23, 8, 20, 16, 35, 45, 12,
	15, 52, 39, 53, 62, 56, 31, 33, 7, 4, 29, 59, 40, 64, 47, 6,
	46, 18, 48, 57, 32, 50, 28, 44, 1, 43, 14, 34, 9, 5, 26, 11,
	10, 58, 38, 54, 61, 60, 41, 19, 13, 49, 30, 55, 37, 63, 22, 36,
}

var (
	loadOnce sync.Once
	loadErr  error
	byNumber map[int]Key
)

func load() {
	var doc struct {
		Keys []Key `yaml:"keys"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		loadErr = fmt.Errorf("decode key catalog: %w", err)
		return
	}
	if len(doc.Keys) != 64 {
		loadErr = fmt.Errorf("key catalog holds %d keys, want 64", len(doc.Keys))
		return
	}
	byNumber = make(map[int]Key, len(doc.Keys))
	for _, k := range doc.Keys {
		byNumber[k.Key] = k
	}
	for n := 1; n <= 64; n++ {
		if _, ok := byNumber[n]; !ok {
			loadErr = fmt.Errorf("key catalog is missing key %d", n)
			return
		}
	}
}

// Catalog returns all 64 keys in numeric order.
func Catalog() ([]Key, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	keys := make([]Key, 0, 64)
	for n := 1; n <= 64; n++ {
		keys = append(keys, byNumber[n])
	}
	return keys, nil
}

// Lookup returns a single key by its number.
func Lookup(number int) (Key, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Key{}, loadErr
	}
	k, ok := byNumber[number]
	if !ok {
		return Key{}, fmt.Errorf("no key numbered %d", number)
	}
	return k, nil
}

// KeyForLongitude maps an ecliptic longitude onto the wheel.
func KeyForLongitude(longitude float64) int {
	return wheel[sector(longitude)]
}

// LineForLongitude returns the 1..6 line within the key at longitude.
func LineForLongitude(longitude float64) int {
	off := offset(longitude)
	within := off - float64(sector(longitude))*keySpan
	line := int(within/lineSpan) + 1
	if line > 6 {
		line = 6
	}
	return line
}

func sector(longitude float64) int {
	i := int(offset(longitude) / keySpan)
	if i > 63 {
		i = 63
	}
	return i
}

func offset(longitude float64) float64 {
	off := math.Mod(longitude-wheelOffset, 360)
	if off < 0 {
		off += 360
	}
	return off
}

// ComputeProfile derives the activation sequence for a birth instant.
//
// The life's work and evolution spheres come from the natal sun and its
// programming partner across the wheel. The radiance and purpose spheres
// come from the design sun, the point the sun occupied roughly 88 solar
// degrees before birth.
func ComputeProfile(birth time.Time) (Profile, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Profile{}, loadErr
	}

	jd := ephemeris.JulianDay(birth)
	natalSun := ephemeris.Longitude(ephemeris.Sun, jd)
	designSun := ephemeris.Longitude(ephemeris.Sun, designJulianDay(jd, natalSun))

	p := Profile{
		LifesWork: activationAt(natalSun),
		Evolution: activationAt(natalSun + 180),
		Radiance:  activationAt(designSun),
		Purpose:   activationAt(designSun + 180),
	}
	return p, nil
}

func activationAt(longitude float64) Activation {
	return Activation{
		Key:  byNumber[KeyForLongitude(longitude)],
		Line: LineForLongitude(longitude),
	}
}

// designJulianDay finds the instant when the sun sat designArc degrees
// behind its natal longitude. The mean solar rate gives a first guess
// and a few corrector steps close the remaining error.
func designJulianDay(natalJD, natalSun float64) float64 {
	const meanRate = 360.0 / 365.2422
	target := math.Mod(natalSun-designArc+360, 360)
	jd := natalJD - designArc/meanRate
	for i := 0; i < 5; i++ {
		diff := signedDelta(target, ephemeris.Longitude(ephemeris.Sun, jd))
		if math.Abs(diff) < 1e-4 {
			break
		}
		jd += diff / meanRate
	}
	return jd
}

// signedDelta returns a-b wrapped into (-180, 180].
func signedDelta(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}
