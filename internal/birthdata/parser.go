// Package birthdata validates and normalizes user-entered birth data.
//
// Chart calculations downstream require integer date and time components;
// this package is the single place where free-text form input is converted
// into that shape. Parsing is pure: no I/O, no locale, no clock.
package birthdata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TextBirthData carries birth data as collected from a web form.
type TextBirthData struct {
	BirthDate string   `json:"birth_date"`
	BirthTime string   `json:"birth_time"`
	City      string   `json:"city,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UnifiedBirthData is the validated, strictly-typed birth-data record
// consumed by chart calculation.
type UnifiedBirthData struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Day       int      `json:"day"`
	Hour      int      `json:"hour"`
	Minute    int      `json:"minute"`
	City      string   `json:"city,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseTextBirthData converts free-text date/time/location fields into a
// validated UnifiedBirthData record.
//
// Validation order is part of the contract: date shape, calendar validity,
// time shape, hour range, minute range. The first failure wins.
func ParseTextBirthData(input TextBirthData) (UnifiedBirthData, error) {
	birthDate := strings.TrimSpace(input.BirthDate)
	birthTime := strings.TrimSpace(input.BirthTime)

	if !datePattern.MatchString(birthDate) {
		return UnifiedBirthData{}, E(KindInvalidDateFormat, fmt.Sprintf("Invalid birth_date format: %q (expected YYYY-MM-DD)", input.BirthDate))
	}

	year, _ := strconv.Atoi(birthDate[0:4])
	month, _ := strconv.Atoi(birthDate[5:7])
	day, _ := strconv.Atoi(birthDate[8:10])

	// Reconstructing the date catches component overflow: time.Date
	// normalizes Feb 30 to Mar 1/2, which no longer round-trips.
	check := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if check.Year() != year || int(check.Month()) != month || check.Day() != day {
		return UnifiedBirthData{}, E(KindInvalidCalendarDate, fmt.Sprintf("Invalid calendar date: %s", birthDate))
	}

	if !timePattern.MatchString(birthTime) {
		return UnifiedBirthData{}, E(KindInvalidTimeFormat, fmt.Sprintf("Invalid birth_time format: %q (expected HH:MM)", input.BirthTime))
	}

	hour, _ := strconv.Atoi(birthTime[0:2])
	minute, _ := strconv.Atoi(birthTime[3:5])

	if hour > 23 {
		return UnifiedBirthData{}, E(KindInvalidHour, fmt.Sprintf("Invalid hour: %d (expected 00-23)", hour))
	}
	if minute > 59 {
		return UnifiedBirthData{}, E(KindInvalidMinute, fmt.Sprintf("Invalid minute: %d (expected 00-59)", minute))
	}

	return UnifiedBirthData{
		Year:      year,
		Month:     month,
		Day:       day,
		Hour:      hour,
		Minute:    minute,
		City:      strings.TrimSpace(input.City),
		Timezone:  strings.TrimSpace(input.Timezone),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}, nil
}

// ToUnifiedBirthData dispatches an input shape to its parser. Text input is
// the only shape collected today, so this delegates to ParseTextBirthData
// and preserves its validation behavior unchanged.
func ToUnifiedBirthData(input TextBirthData) (UnifiedBirthData, error) {
	return ParseTextBirthData(input)
}

// Time resolves the birth instant in the record's timezone. Unknown or empty
// zone names fall back to UTC, matching how the original product forwarded
// the zone string without validating it.
func (u UnifiedBirthData) Time() time.Time {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil || u.Timezone == "" {
		loc = time.UTC
	}
	return time.Date(u.Year, time.Month(u.Month), u.Day, u.Hour, u.Minute, 0, 0, loc)
}
