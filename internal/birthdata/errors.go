package birthdata

import "errors"

// Kind classifies birth-data validation failures.
type Kind string

const (
	KindInvalidDateFormat   Kind = "invalid_date_format"
	KindInvalidCalendarDate Kind = "invalid_calendar_date"
	KindInvalidTimeFormat   Kind = "invalid_time_format"
	KindInvalidHour         Kind = "invalid_hour"
	KindInvalidMinute       Kind = "invalid_minute"
)

// Error is a typed birth-data validation failure.
type Error struct {
	Kind    Kind
	Message string
}

// Error renders the human-readable message.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// E builds a typed Error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the validation kind carried by err, or "" for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return ""
	}
	return appErr.Kind
}
