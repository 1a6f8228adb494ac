package synastry

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
)

// PartnerCard is birth data recovered from a contact card.
type PartnerCard struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// ImportPartnerCard scans a vCard stream for the first contact carrying a
// BDAY property and returns it in the birth-date shape the calculation API
// accepts. Cards without a birthday are skipped.
func ImportPartnerCard(r io.Reader) (PartnerCard, error) {
	decoder := vcard.NewDecoder(r)
	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PartnerCard{}, fmt.Errorf("decode vcard: %w", err)
		}

		bday := card.Get(vcard.FieldBirthday)
		if bday == nil || strings.TrimSpace(bday.Value) == "" {
			continue
		}
		birthDate, err := normalizeBirthday(bday.Value)
		if err != nil {
			continue
		}

		name := "Partner"
		if fn := card.Get(vcard.FieldFormattedName); fn != nil && strings.TrimSpace(fn.Value) != "" {
			name = strings.TrimSpace(fn.Value)
		}
		return PartnerCard{Name: name, BirthDate: birthDate}, nil
	}
	return PartnerCard{}, fmt.Errorf("no contact with a birthday found")
}

// normalizeBirthday accepts the two BDAY shapes seen in the wild
// (YYYYMMDD and YYYY-MM-DD) and returns the dashed form.
func normalizeBirthday(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("unsupported birthday format: %q", value)
}
