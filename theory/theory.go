// Package theory implements key signatures, diatonic neighbors, and ornament
// expansion as pure functions over AST notes.
package theory

import (
	"strings"

	"github.com/scorelang/scorelang/ast"
)

// PitchAccidental is one entry of a key signature: a pitch class and the
// accidental the key applies to it.
type PitchAccidental struct {
	Class      string
	Accidental ast.Accidental
}

// Major key signatures on the circle of fifths. Roots with accidentals are
// written as suffixed strings ("b-" = B flat, "f+" = F sharp).
var majorKeys = map[string][]PitchAccidental{
	// Sharp keys
	"c": {},
	"g": {{"f", ast.Sharp}},
	"d": {{"f", ast.Sharp}, {"c", ast.Sharp}},
	"a": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}},
	"e": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}, {"d", ast.Sharp}},
	"b": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}, {"d", ast.Sharp}, {"a", ast.Sharp}},
	// Flat keys
	"f":  {{"b", ast.Flat}},
	"b-": {{"b", ast.Flat}, {"e", ast.Flat}},
	"e-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}},
	"a-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}},
	"d-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}, {"g", ast.Flat}},
	"g-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}, {"g", ast.Flat}, {"c", ast.Flat}},
}

// Minor key signatures (relative minors of the majors above).
var minorKeys = map[string][]PitchAccidental{
	// Sharp keys
	"a":  {},
	"e":  {{"f", ast.Sharp}},
	"b":  {{"f", ast.Sharp}, {"c", ast.Sharp}},
	"f+": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}},
	"c+": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}, {"d", ast.Sharp}},
	"g+": {{"f", ast.Sharp}, {"c", ast.Sharp}, {"g", ast.Sharp}, {"d", ast.Sharp}, {"a", ast.Sharp}},
	// Flat keys
	"d":  {{"b", ast.Flat}},
	"g":  {{"b", ast.Flat}, {"e", ast.Flat}},
	"c":  {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}},
	"f":  {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}},
	"b-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}, {"g", ast.Flat}},
	"e-": {{"b", ast.Flat}, {"e", ast.Flat}, {"a", ast.Flat}, {"d", ast.Flat}, {"g", ast.Flat}, {"c", ast.Flat}},
}

// pitchClasses in scale order, used for diatonic neighbors.
var pitchClasses = []string{"c", "d", "e", "f", "g", "a", "b"}

// ClassSemitone maps a pitch class to its semitone offset within an octave.
var ClassSemitone = map[string]int{
	"c": 0, "d": 2, "e": 4, "f": 5, "g": 7, "a": 9, "b": 11,
}

// KeyInfo is a resolved key signature.
type KeyInfo struct {
	Root        string
	Mode        string
	Accidentals []PitchAccidental
}

// NewKeyInfo resolves a root ("c", "b-", "f+") and mode into its ordered
// accidental list. Unknown keys resolve to no accidentals.
func NewKeyInfo(root, mode string) KeyInfo {
	root = strings.ToLower(root)
	mode = strings.ToLower(mode)
	table := majorKeys
	if mode == "minor" {
		table = minorKeys
	}
	return KeyInfo{Root: root, Mode: mode, Accidentals: table[root]}
}

// KeyInfoFor resolves a KeySignature node.
func KeyInfoFor(ks *ast.KeySignature) KeyInfo {
	root := ks.Root
	switch ks.Accidental {
	case ast.Sharp:
		root += "+"
	case ast.Flat:
		root += "-"
	}
	return NewKeyInfo(root, ks.Mode)
}

// AccidentalFor returns the key's accidental for a pitch class, or
// NoAccidental if the key does not affect it.
func (k KeyInfo) AccidentalFor(class string) ast.Accidental {
	for _, pa := range k.Accidentals {
		if pa.Class == class {
			return pa.Accidental
		}
	}
	return ast.NoAccidental
}

// Affects reports whether the key signature alters the pitch class.
func (k KeyInfo) Affects(class string) bool {
	return k.AccidentalFor(class) != ast.NoAccidental
}

// ApplyKeySignature returns the note with key accidentals applied to every
// pitch that carries no explicit accidental. Explicit accidentals, including
// naturals, are never overridden.
func ApplyKeySignature(note *ast.Note, key KeyInfo) *ast.Note {
	changed := false
	pitches := make([]ast.Pitch, len(note.Pitches))
	for i, p := range note.Pitches {
		if p.Accidental == ast.NoAccidental && key.Affects(p.Class) {
			p.Accidental = key.AccidentalFor(p.Class)
			changed = true
		}
		pitches[i] = p
	}
	if !changed {
		return note
	}
	return note.WithPitches(pitches)
}

// UpperNeighbor returns the diatonic step above p, wrapping B to C with an
// octave increment, with the key's accidental applied.
func UpperNeighbor(p ast.Pitch, key KeyInfo) ast.Pitch {
	idx := classIndex(p.Class)
	next := (idx + 1) % len(pitchClasses)
	octave := p.Octave
	if next == 0 {
		octave++
	}
	class := pitchClasses[next]
	return ast.Pitch{Class: class, Octave: octave, Accidental: key.AccidentalFor(class)}
}

// LowerNeighbor returns the diatonic step below p, wrapping C to B with an
// octave decrement, with the key's accidental applied.
func LowerNeighbor(p ast.Pitch, key KeyInfo) ast.Pitch {
	idx := classIndex(p.Class)
	prev := (idx + len(pitchClasses) - 1) % len(pitchClasses)
	octave := p.Octave
	if prev == len(pitchClasses)-1 {
		octave--
	}
	class := pitchClasses[prev]
	return ast.Pitch{Class: class, Octave: octave, Accidental: key.AccidentalFor(class)}
}

// MIDINumber converts a pitch to its MIDI note number, clamped to [0, 127].
// C4 maps to middle C (60).
func MIDINumber(p ast.Pitch) int {
	n := (p.Octave+1)*12 + ClassSemitone[p.Class]
	switch p.Accidental {
	case ast.Sharp:
		n++
	case ast.Flat:
		n--
	}
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return n
}

// NoteNumber returns the MIDI number of a note's first pitch.
func NoteNumber(n *ast.Note) int {
	if len(n.Pitches) == 0 {
		return 60
	}
	return MIDINumber(n.Pitches[0])
}

func classIndex(class string) int {
	for i, c := range pitchClasses {
		if c == class {
			return i
		}
	}
	return 0
}
