package transits

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/emersion/go-ical"
)

const (
	calendarProdID = "-//CosmicHub//Transit Feed//EN"
	calendarName   = "CosmicHub Transits"
)

// EncodeICS renders upcoming transit events as an iCalendar feed. Event UIDs
// are content-derived so calendar clients keep entries stable across refreshes.
func EncodeICS(events []Event) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProdID)
	cal.Props.SetText("X-WR-CALNAME", calendarName)
	cal.Props.SetText("CALSCALE", "GREGORIAN")

	for _, event := range events {
		summary := fmt.Sprintf("%s %s natal %s", event.Transiting, event.Type, event.Natal)
		uidInput := fmt.Sprintf("%s|%s|%s|%s", event.Transiting, event.Type, event.Natal, event.Date.Format("2006-01-02"))
		hash := sha256.Sum256([]byte(uidInput))

		entry := ical.NewEvent()
		entry.Props.SetText(ical.PropUID, fmt.Sprintf("%x@cosmichub", hash[:12]))
		entry.Props.SetText(ical.PropSummary, summary)
		entry.Props.SetText(ical.PropDescription, fmt.Sprintf("Orb %.2f degrees at closest approach.", event.Orb))

		stamp := ical.NewProp(ical.PropDateTimeStamp)
		stamp.SetDateTime(event.Date.UTC())
		entry.Props.Set(stamp)

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDateTime(event.Date.UTC())
		entry.Props.Set(start)

		cal.Children = append(cal.Children, entry.Component)
	}

	// Calendar clients reject a VCALENDAR with no components; keep the
	// feed valid when no transit is in orb.
	if len(cal.Children) == 0 {
		return []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + calendarProdID + "\r\nEND:VCALENDAR\r\n"), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode transit calendar: %w", err)
	}
	return buf.Bytes(), nil
}
