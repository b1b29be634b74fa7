package semantics

import (
	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/theory"
)

// Pass 3: expand ornament and tremolo markers. A marker applies to the note
// immediately after it; the marker node is replaced by the expansion. The
// expansion preserves the principal note's total duration, so measure
// validation in the timing pass is unaffected.

func (a *Analyzer) expandOrnaments(comp *ast.Composition) *ast.Composition {
	out := &ast.Composition{
		Instruments: make(map[string]*ast.Instrument, len(comp.Instruments)),
		Order:       comp.Order,
		Defaults:    comp.Defaults,
	}
	for _, inst := range comp.InstrumentsInOrder() {
		ni := *inst
		ni.Voices = make(map[int][]ast.Event, len(inst.Voices))
		for _, num := range inst.VoiceOrder {
			key := theory.KeyInfo{}
			ni.Voices[num] = a.expandEvents(inst.Name, inst.Voices[num], &key)
		}
		out.Instruments[ni.Name] = &ni
	}
	return out
}

func (a *Analyzer) expandEvents(instName string, events []ast.Event, key *theory.KeyInfo) []ast.Event {
	out := make([]ast.Event, 0, len(events))
	for i := 0; i < len(events); i++ {
		switch e := events[i].(type) {
		case *ast.KeySignature:
			*key = theory.KeyInfoFor(e)
			out = append(out, e)
		case *ast.Measure:
			nm := *e
			nm.Events = a.expandEvents(instName, e.Events, key)
			out = append(out, &nm)
		case *ast.Ornament:
			note, ok := nextNote(events, i)
			if !ok {
				a.errorf("instrument %q line %d: %s marker must be immediately followed by a note", instName, e.Line, e.Type)
				continue
			}
			i++
			for _, n := range theory.ExpandOrnament(e.Type, note, *key) {
				out = append(out, n)
			}
		case *ast.Tremolo:
			note, ok := nextNote(events, i)
			if !ok {
				a.errorf("instrument %q line %d: tremolo marker must be immediately followed by a note", instName, e.Line)
				continue
			}
			i++
			for _, n := range theory.ExpandOrnament("tremolo", note, *key) {
				out = append(out, n)
			}
		default:
			out = append(out, e)
		}
	}
	return out
}

func nextNote(events []ast.Event, i int) (*ast.Note, bool) {
	if i+1 >= len(events) {
		return nil, false
	}
	n, ok := events[i+1].(*ast.Note)
	return n, ok
}
