// Package semantics rewrites a parsed composition into a fully resolved one:
// validated, key signatures applied, ornaments expanded, every note carrying
// absolute tick timing and performance state. The result is what the MIDI
// generator consumes.
package semantics

import (
	"fmt"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
)

// Analyzer runs the analysis passes over a composition. A single Analyzer
// should not be reused across compositions because it accumulates warnings.
type Analyzer struct {
	ppq float64

	errors   []string
	warnings []string

	// Running directive state, threaded through the passes in voice order.
	currentTimeSig ast.TimeSignature
	currentTempo   int
}

func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithPPQ(constants.DefaultPPQ)
}

func NewAnalyzerWithPPQ(ppq int) *Analyzer {
	return &Analyzer{
		ppq:            float64(ppq),
		currentTimeSig: ast.TimeSignature{Numerator: 4, Denominator: 4},
		currentTempo:   constants.DefaultTempo,
	}
}

// Analyze runs all passes and returns the rewritten composition plus any
// non-fatal warnings. Validation problems are aggregated into a single
// ValidationError; a measure duration mismatch aborts immediately with a
// MeasureMismatchError.
func (a *Analyzer) Analyze(comp *ast.Composition) (*ast.Composition, []string, error) {
	a.validate(comp)
	if len(a.errors) > 0 {
		return nil, a.warnings, &ValidationError{Messages: a.errors}
	}

	comp = a.applyKeySignatures(comp)

	comp = a.expandOrnaments(comp)
	if len(a.errors) > 0 {
		return nil, a.warnings, &ValidationError{Messages: a.errors}
	}

	comp, err := a.calculateTiming(comp)
	if err != nil {
		return nil, a.warnings, err
	}

	comp = a.trackState(comp)
	return comp, a.warnings, nil
}

// Warnings returns the warnings collected so far.
func (a *Analyzer) Warnings() []string {
	return a.warnings
}

func (a *Analyzer) errorf(format string, args ...any) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *Analyzer) warnf(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

// durationToTicks converts a duration denominator (1=whole, 4=quarter, ...)
// to ticks at the analyzer's resolution. Dots multiply by 3/2.
func (a *Analyzer) durationToTicks(duration int, dotted bool) float64 {
	ticks := 4.0 * a.ppq / float64(duration)
	if dotted {
		ticks *= constants.DotMultiplier
	}
	return ticks
}

func validDuration(d int) bool {
	for _, v := range constants.ValidDurations {
		if d == v {
			return true
		}
	}
	return false
}
