package birthdata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTextBirthDataTrimsAndNormalizes(t *testing.T) {
	t.Parallel()

	got, err := ParseTextBirthData(TextBirthData{
		BirthDate: " 2024-02-29 ",
		BirthTime: " 09:05 ",
		City:      "  Paris ",
		Timezone:  " Europe/Paris ",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := UnifiedBirthData{
		Year:     2024,
		Month:    2,
		Day:      29,
		Hour:     9,
		Minute:   5,
		City:     "Paris",
		Timezone: "Europe/Paris",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unified birth data mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTextBirthDataWhitespaceInsensitive(t *testing.T) {
	t.Parallel()

	plain, err := ParseTextBirthData(TextBirthData{BirthDate: "1990-06-15", BirthTime: "23:59"})
	if err != nil {
		t.Fatalf("parse plain: %v", err)
	}
	padded, err := ParseTextBirthData(TextBirthData{BirthDate: "\t1990-06-15\n", BirthTime: "  23:59  "})
	if err != nil {
		t.Fatalf("parse padded: %v", err)
	}
	if diff := cmp.Diff(plain, padded); diff != "" {
		t.Fatalf("padded input diverged (-plain +padded):\n%s", diff)
	}
}

func TestParseTextBirthDataRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       TextBirthData
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "non leap year feb 29",
			input:       TextBirthData{BirthDate: "2023-02-29", BirthTime: "12:00"},
			wantKind:    KindInvalidCalendarDate,
			wantMessage: "Invalid calendar date",
		},
		{
			name:        "feb 30",
			input:       TextBirthData{BirthDate: "2023-02-30", BirthTime: "12:00"},
			wantKind:    KindInvalidCalendarDate,
			wantMessage: "Invalid calendar date",
		},
		{
			name:        "hour 24 is not midnight",
			input:       TextBirthData{BirthDate: "2023-03-10", BirthTime: "24:00"},
			wantKind:    KindInvalidHour,
			wantMessage: "Invalid hour",
		},
		{
			name:        "minute 60",
			input:       TextBirthData{BirthDate: "2023-03-10", BirthTime: "23:60"},
			wantKind:    KindInvalidMinute,
			wantMessage: "Invalid minute",
		},
		{
			name:        "slash separated date",
			input:       TextBirthData{BirthDate: "03/10/2023", BirthTime: "12:00"},
			wantKind:    KindInvalidDateFormat,
			wantMessage: "Invalid birth_date format",
		},
		{
			name:        "unpadded time",
			input:       TextBirthData{BirthDate: "2023-03-10", BirthTime: "7:5"},
			wantKind:    KindInvalidTimeFormat,
			wantMessage: "Invalid birth_time format",
		},
		{
			name:        "two digit year",
			input:       TextBirthData{BirthDate: "99-03-10", BirthTime: "12:00"},
			wantKind:    KindInvalidDateFormat,
			wantMessage: "Invalid birth_date format",
		},
		{
			name:        "month zero",
			input:       TextBirthData{BirthDate: "2023-00-10", BirthTime: "12:00"},
			wantKind:    KindInvalidCalendarDate,
			wantMessage: "Invalid calendar date",
		},
		{
			name:        "empty date",
			input:       TextBirthData{BirthDate: "", BirthTime: "12:00"},
			wantKind:    KindInvalidDateFormat,
			wantMessage: "Invalid birth_date format",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTextBirthData(tc.input)
			if err == nil {
				t.Fatalf("expected error for %+v", tc.input)
			}
			if got := KindOf(err); got != tc.wantKind {
				t.Fatalf("kind = %q, want %q", got, tc.wantKind)
			}
			if !strings.Contains(err.Error(), tc.wantMessage) {
				t.Fatalf("message %q does not contain %q", err.Error(), tc.wantMessage)
			}
		})
	}
}

func TestParseTextBirthDataBoundaries(t *testing.T) {
	t.Parallel()

	got, err := ParseTextBirthData(TextBirthData{BirthDate: "2000-12-31", BirthTime: "23:59"})
	if err != nil {
		t.Fatalf("parse boundary: %v", err)
	}
	if got.Hour != 23 || got.Minute != 59 {
		t.Fatalf("boundary time = %02d:%02d, want 23:59", got.Hour, got.Minute)
	}

	got, err = ParseTextBirthData(TextBirthData{BirthDate: "2000-01-01", BirthTime: "00:00"})
	if err != nil {
		t.Fatalf("parse midnight: %v", err)
	}
	if got.Hour != 0 || got.Minute != 0 {
		t.Fatalf("midnight = %02d:%02d, want 00:00", got.Hour, got.Minute)
	}
}

func TestParseTextBirthDataDeterministic(t *testing.T) {
	t.Parallel()

	input := TextBirthData{BirthDate: "1984-07-04", BirthTime: "16:20", City: "Lisbon"}
	first, err := ParseTextBirthData(input)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseTextBirthData(input)
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated parse diverged:\n%s", diff)
	}
}

func TestToUnifiedBirthDataDelegates(t *testing.T) {
	t.Parallel()

	_, err := ToUnifiedBirthData(TextBirthData{BirthDate: "03/10/2023", BirthTime: "12:00"})
	if !errors.Is(err, &Error{Kind: KindInvalidDateFormat}) {
		t.Fatalf("expected invalid date format, got %v", err)
	}
}

func TestErrorKindMatching(t *testing.T) {
	t.Parallel()

	err := E(KindInvalidHour, "Invalid hour: 24")
	if !errors.Is(err, &Error{Kind: KindInvalidHour}) {
		t.Fatalf("expected kind match")
	}
	if errors.Is(err, &Error{Kind: KindInvalidMinute}) {
		t.Fatalf("kinds should not cross-match")
	}
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("foreign error should have no kind")
	}
}
