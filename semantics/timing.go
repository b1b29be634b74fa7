package semantics

import (
	"math"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
)

// Pass 4: absolute timing. Each voice is an independent timeline starting at
// tick 0; every timed node is replaced by a copy carrying StartTime/EndTime
// in ticks. Each measure's events must sum to the active time signature's
// duration. Grace notes consume a sliver of time on the timeline but are
// excluded from the measure's counted duration. The comparison tolerates
// sub-tick float error only: a full tick over or under is a mismatch.

func (a *Analyzer) calculateTiming(comp *ast.Composition) (*ast.Composition, error) {
	out := &ast.Composition{
		Instruments: make(map[string]*ast.Instrument, len(comp.Instruments)),
		Order:       comp.Order,
		Defaults:    comp.Defaults,
	}
	for _, inst := range comp.InstrumentsInOrder() {
		ni := *inst
		ni.Voices = make(map[int][]ast.Event, len(inst.Voices))
		for _, num := range inst.VoiceOrder {
			events := make([]ast.Event, len(inst.Voices[num]))
			current := 0.0
			for i, ev := range inst.Voices[num] {
				timed, consumed, _, err := a.timedEvent(inst.Name, ev, current)
				if err != nil {
					return nil, err
				}
				events[i] = timed
				current += consumed
			}
			ni.Voices[num] = events
		}
		out.Instruments[ni.Name] = &ni
	}
	return out, nil
}

// timedEvent returns the event with timing applied, the ticks it consumes,
// and how many of those ticks came from grace notes.
func (a *Analyzer) timedEvent(instName string, ev ast.Event, start float64) (ast.Event, float64, float64, error) {
	switch e := ev.(type) {
	case *ast.Measure:
		return a.timedMeasure(instName, e, start)

	case *ast.Note:
		d := a.durationToTicks(e.Duration, e.Dotted)
		return e.WithTiming(start, start+d), d, 0, nil

	case *ast.Rest:
		d := a.durationToTicks(e.Duration, e.Dotted)
		nr := *e
		nr.StartTime = start
		nr.EndTime = start + d
		return &nr, d, 0, nil

	case *ast.PercussionNote:
		d := a.durationToTicks(e.Duration, e.Dotted)
		np := *e
		np.StartTime = start
		np.EndTime = start + d
		return &np, d, 0, nil

	case *ast.GraceNote:
		d := a.ppq * constants.GraceNoteDurationRatio
		return &ast.GraceNote{Note: e.Note.WithTiming(start, start+d)}, d, d, nil

	case *ast.Tuplet:
		span := a.durationToTicks(e.ActualDuration, false)
		per := span / float64(e.Ratio)
		nt := *e
		nt.Notes = make([]*ast.Note, len(e.Notes))
		t := start
		for i, n := range e.Notes {
			nt.Notes[i] = n.WithTiming(t, t+per)
			t += per
		}
		return &nt, span, 0, nil

	case *ast.Slide:
		fromTicks := a.durationToTicks(e.FromNote.Duration, e.FromNote.Dotted)
		toTicks := a.durationToTicks(e.ToNote.Duration, e.ToNote.Dotted)
		ns := *e
		ns.FromNote = e.FromNote.WithTiming(start, start+fromTicks)
		ns.ToNote = e.ToNote.WithTiming(start+fromTicks, start+fromTicks+toTicks)
		return &ns, fromTicks + toTicks, 0, nil

	case *ast.Tempo:
		a.currentTempo = e.BPM
		return e, 0, 0, nil

	case *ast.TimeSignature:
		a.currentTimeSig = *e
		return e, 0, 0, nil

	default:
		return ev, 0, 0, nil
	}
}

func (a *Analyzer) timedMeasure(instName string, m *ast.Measure, start float64) (ast.Event, float64, float64, error) {
	nm := *m
	nm.Events = make([]ast.Event, len(m.Events))
	total := 0.0
	grace := 0.0
	for i, ev := range m.Events {
		timed, consumed, g, err := a.timedEvent(instName, ev, start+total)
		if err != nil {
			return nil, 0, 0, err
		}
		nm.Events[i] = timed
		total += consumed
		grace += g
	}

	if hasTimedEvent(m.Events) {
		counted := total - grace
		expected := float64(a.currentTimeSig.Numerator) / float64(a.currentTimeSig.Denominator) * 4.0 * a.ppq
		if math.Abs(counted-expected) >= 1.0 {
			return nil, 0, 0, &MeasureMismatchError{
				Instrument:    instName,
				Measure:       m.Number,
				ActualBeats:   counted / a.ppq,
				ExpectedBeats: expected / a.ppq,
				Numerator:     a.currentTimeSig.Numerator,
				Denominator:   a.currentTimeSig.Denominator,
			}
		}
	}

	nm.StartTime = start
	nm.EndTime = start + total
	return &nm, total, grace, nil
}

// hasTimedEvent reports whether any event consumes time. A measure holding
// only directives is not checked against the meter.
func hasTimedEvent(events []ast.Event) bool {
	for _, ev := range events {
		if isTimedEvent(ev) {
			return true
		}
	}
	return false
}
