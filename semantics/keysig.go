package semantics

import (
	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/theory"
)

// Pass 2: apply key signatures. Each KeySignature node changes the active
// key for the notes that follow it in the same voice; every pitch without an
// explicit accidental picks up the key's accidental. Nodes are replaced by
// copies, never mutated, because composition-scope key signature nodes are
// shared between voices.

func (a *Analyzer) applyKeySignatures(comp *ast.Composition) *ast.Composition {
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
			ni.Voices[num] = a.keyedEvents(inst.Voices[num], &key)
		}
		out.Instruments[ni.Name] = &ni
	}
	return out
}

func (a *Analyzer) keyedEvents(events []ast.Event, key *theory.KeyInfo) []ast.Event {
	out := make([]ast.Event, len(events))
	for i, ev := range events {
		out[i] = a.keyedEvent(ev, key)
	}
	return out
}

func (a *Analyzer) keyedEvent(ev ast.Event, key *theory.KeyInfo) ast.Event {
	switch e := ev.(type) {
	case *ast.KeySignature:
		*key = theory.KeyInfoFor(e)
		return e
	case *ast.Note:
		return theory.ApplyKeySignature(e, *key)
	case *ast.GraceNote:
		return &ast.GraceNote{Note: theory.ApplyKeySignature(e.Note, *key)}
	case *ast.Tuplet:
		nt := *e
		nt.Notes = make([]*ast.Note, len(e.Notes))
		for i, n := range e.Notes {
			nt.Notes[i] = theory.ApplyKeySignature(n, *key)
		}
		return &nt
	case *ast.Slide:
		ns := *e
		ns.FromNote = theory.ApplyKeySignature(e.FromNote, *key)
		ns.ToNote = theory.ApplyKeySignature(e.ToNote, *key)
		return &ns
	case *ast.Measure:
		nm := *e
		nm.Events = a.keyedEvents(e.Events, key)
		return &nm
	default:
		return ev
	}
}
