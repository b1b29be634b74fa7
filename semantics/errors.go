package semantics

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every validation message found across the
// passes. Analysis collects issues instead of stopping at the first one, so
// a single run reports everything that is wrong.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// MeasureMismatchError reports a measure whose event durations do not fill
// the active time signature. It is raised immediately during the timing
// pass because timing cannot proceed past an inconsistent measure.
type MeasureMismatchError struct {
	Instrument    string
	Measure       int
	ActualBeats   float64
	ExpectedBeats float64
	Numerator     int
	Denominator   int
}

func (e *MeasureMismatchError) Error() string {
	msg := fmt.Sprintf(
		"measure %d duration mismatch: has %.2f quarter notes worth of duration, expected %.2f for time signature %d/%d",
		e.Measure, e.ActualBeats, e.ExpectedBeats, e.Numerator, e.Denominator,
	)
	if e.Instrument != "" {
		return fmt.Sprintf("instrument %q: %s", e.Instrument, msg)
	}
	return msg
}
