package findash

import (
	"errors"
	"fmt"
)

// ErrNoData marks an empty result. It is a state, not a failure.
var ErrNoData = errors.New("no data available")

var (
	ErrInvalidSymbol   = errors.New("please enter a stock symbol")
	ErrInvalidCategory = errors.New("unknown news category")
	ErrMissingDates    = errors.New("please select both start and end dates")
	ErrInvalidDate     = errors.New("dates must be formatted YYYY-MM-DD")
	ErrDateOrder       = errors.New("start date must be before end date")
	ErrUnknownWindow   = errors.New("unknown time window")
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrNoReport        = errors.New("no report loaded")
	ErrNotConfigured   = errors.New("endpoint not configured")
)

// StatusError is returned when an upstream answers with a non-success status
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// IsValidation reports whether err was caused by bad caller input
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidSymbol,
		ErrInvalidCategory,
		ErrMissingDates,
		ErrInvalidDate,
		ErrDateOrder,
		ErrUnknownWindow,
		ErrUnknownMetric,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
