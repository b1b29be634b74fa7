package semantics

import (
	"math"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
	"github.com/scorelang/scorelang/theory"
)

// Pass 1: structural validation. Collects every problem instead of stopping
// at the first, and records non-fatal oddities as warnings.

func (a *Analyzer) validate(comp *ast.Composition) {
	for _, inst := range comp.InstrumentsInOrder() {
		a.validateInstrument(inst)
	}
}

func (a *Analyzer) validateInstrument(inst *ast.Instrument) {
	if len(inst.Voices) == 0 {
		a.errorf("instrument %q declares no voices; musical content must live inside a voice block", inst.Name)
	}

	for _, ev := range inst.Events {
		if isTimedEvent(ev) {
			a.errorf("instrument %q has musical content outside any voice block", inst.Name)
		}
		a.validateEvent(inst.Name, ev)
	}
	for _, num := range inst.VoiceOrder {
		for _, ev := range inst.Voices[num] {
			a.validateEvent(inst.Name, ev)
		}
	}
}

// isTimedEvent reports whether an event consumes time and therefore belongs
// inside a voice.
func isTimedEvent(ev ast.Event) bool {
	switch ev.(type) {
	case *ast.Note, *ast.Rest, *ast.PercussionNote, *ast.GraceNote,
		*ast.Tuplet, *ast.Slide, *ast.Measure:
		return true
	}
	return false
}

func (a *Analyzer) validateEvent(instName string, ev ast.Event) {
	switch e := ev.(type) {
	case *ast.Measure:
		for _, inner := range e.Events {
			a.validateEvent(instName, inner)
		}
	case *ast.Note:
		a.validateNote(instName, e)
	case *ast.Rest:
		if !validDuration(e.Duration) {
			a.errorf("instrument %q line %d: invalid rest duration %d", instName, e.Line, e.Duration)
		}
	case *ast.PercussionNote:
		if !validDuration(e.Duration) {
			a.errorf("instrument %q line %d: invalid duration %d on drum %q", instName, e.Line, e.Duration, e.DrumSound)
		}
	case *ast.GraceNote:
		a.validateNote(instName, e.Note)
	case *ast.Tuplet:
		if e.Ratio < 2 {
			a.errorf("instrument %q line %d: tuplet ratio must be at least 2, got %d", instName, e.Line, e.Ratio)
		}
		if !validDuration(e.ActualDuration) {
			a.errorf("instrument %q line %d: invalid tuplet span duration %d", instName, e.Line, e.ActualDuration)
		}
		for _, n := range e.Notes {
			a.validateNote(instName, n)
		}
	case *ast.Slide:
		a.validateNote(instName, e.FromNote)
		a.validateNote(instName, e.ToNote)
		interval := theory.NoteNumber(e.ToNote) - theory.NoteNumber(e.FromNote)
		if math.Abs(float64(interval)) > constants.LargeSlideSemitones {
			a.warnf("instrument %q line %d: slide spans %d semitones, which most synths render poorly", instName, e.Line, interval)
		}
	case *ast.Tempo:
		if e.BPM < constants.MinTempo || e.BPM > constants.MaxTempo {
			a.warnf("tempo %d BPM is outside the usual range [%d, %d]", e.BPM, constants.MinTempo, constants.MaxTempo)
		}
	case *ast.TimeSignature:
		if e.Numerator < 1 || e.Numerator > constants.MaxTimeSigNumerator {
			a.errorf("instrument %q line %d: time signature numerator %d out of range [1, %d]",
				instName, e.Line, e.Numerator, constants.MaxTimeSigNumerator)
		}
		if !validTimeSigDenominator(e.Denominator) {
			a.errorf("instrument %q line %d: time signature denominator %d is not a power of two up to 32", instName, e.Line, e.Denominator)
		}
	case *ast.Pan:
		if e.Position < 0 || e.Position > 127 {
			a.errorf("instrument %q: pan position %d out of range [0, 127]", instName, e.Position)
		}
	}
}

func (a *Analyzer) validateNote(instName string, n *ast.Note) {
	if len(n.Pitches) == 0 {
		a.errorf("instrument %q line %d: note has no pitches", instName, n.Line)
	}
	for _, p := range n.Pitches {
		if p.Octave < constants.MinOctave || p.Octave > constants.MaxOctave {
			a.errorf("instrument %q line %d: octave %d out of range [%d, %d]",
				instName, n.Line, p.Octave, constants.MinOctave, constants.MaxOctave)
		}
	}
	if !validDuration(n.Duration) {
		a.errorf("instrument %q line %d: invalid duration %d; valid denominators are %v",
			instName, n.Line, n.Duration, constants.ValidDurations)
	}
}

func validTimeSigDenominator(d int) bool {
	switch d {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}
