// Package trip holds the traveller's request and turns it into the prompt sent
// to the relay.
package trip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and input format for trip dates.
const DateLayout = "2006-01-02"

var (
	ErrMissingField   = errors.New("missing field")
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidDate    = errors.New("invalid date")
	ErrStartInPast    = errors.New("start date is before today")
	ErrEndBeforeStart = errors.New("end date must be after start date")
)

// Field names a form input. The values match the browser form's input names.
type Field string

const (
	FieldCurrentLocation Field = "currentLocation"
	FieldDestination     Field = "destination"
	FieldStartDate       Field = "startDate"
	FieldEndDate         Field = "endDate"
)

// Fields lists every form input in display order.
var Fields = []Field{FieldCurrentLocation, FieldDestination, FieldStartDate, FieldEndDate}

// Details is the four-field trip request. Dates are kept as typed
// (YYYY-MM-DD) so that a half-edited form is still representable.
type Details struct {
	CurrentLocation string `json:"currentLocation"`
	Destination     string `json:"destination"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
}

// Today formats now as a trip date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Get returns the value of field.
func (d Details) Get(field Field) (string, error) {
	switch field {
	case FieldCurrentLocation:
		return d.CurrentLocation, nil
	case FieldDestination:
		return d.Destination, nil
	case FieldStartDate:
		return d.StartDate, nil
	case FieldEndDate:
		return d.EndDate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// With returns a copy of d with field set to value. Moving the start date past
// the current end date drags the end date along with it. ISO dates compare
// correctly as strings, and an empty end date sorts before any start date.
func (d Details) With(field Field, value string) (Details, error) {
	switch field {
	case FieldCurrentLocation:
		d.CurrentLocation = value
	case FieldDestination:
		d.Destination = value
	case FieldStartDate:
		d.StartDate = value
		if d.EndDate < value {
			d.EndDate = value
		}
	case FieldEndDate:
		d.EndDate = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

// EndBeforeStart reports whether both dates are set and out of order.
func (d Details) EndBeforeStart() bool {
	return d.StartDate != "" && d.EndDate != "" && d.EndDate < d.StartDate
}

// Validate checks that every field is present, both dates parse, the trip does
// not start before today and does not end before it starts.
func (d Details) Validate(today string) error {
	for _, f := range Fields {
		v, _ := d.Get(f)
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}

	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start date %q", ErrInvalidDate, d.StartDate)
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end date %q", ErrInvalidDate, d.EndDate)
	}

	if today != "" {
		t, err := time.Parse(DateLayout, today)
		if err != nil {
			return fmt.Errorf("%w: today %q", ErrInvalidDate, today)
		}
		if start.Before(t) {
			return ErrStartInPast
		}
	}

	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}
