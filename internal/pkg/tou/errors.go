package tou

import (
	"fmt"

	"github.com/zeebo/errs"
)

var (
	// ErrInvalidDate is returned for dates that are not valid YYYY-MM-DD calendar dates.
	ErrInvalidDate = errs.Class("invalid date")
	// ErrInvalidReading is returned when a reading has a malformed time of day or power value.
	ErrInvalidReading = errs.Class("invalid reading")
	// ErrInvalidCalendar is returned for malformed tariff configuration.
	ErrInvalidCalendar = errs.Class("invalid calendar")
)

// ReadingError identifies the reading that aborted an aggregation.
type ReadingError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *ReadingError) Error() string {
	return fmt.Sprintf("reading %d: %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *ReadingError) Unwrap() error {
	return e.Err
}

func readingErr(index int, field, value string, err error) error {
	return ErrInvalidReading.Wrap(&ReadingError{Index: index, Field: field, Value: value, Err: err})
}
