package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scorelang/scorelang/ast"
)

func TestGMajorSharpensF(t *testing.T) {
	key := NewKeyInfo("g", "major")
	note := &ast.Note{Pitches: []ast.Pitch{{Class: "f", Octave: 4}}, Duration: 4}
	applied := ApplyKeySignature(note, key)

	assert := assert.New(t)
	assert.Equal(ast.Sharp, applied.Pitches[0].Accidental)
	assert.Equal(ast.NoAccidental, note.Pitches[0].Accidental, "input note must not be mutated")
}

func TestExplicitAccidentalWinsOverKey(t *testing.T) {
	key := NewKeyInfo("g", "major")
	note := &ast.Note{Pitches: []ast.Pitch{{Class: "f", Octave: 4, Accidental: ast.Natural}}, Duration: 4}
	applied := ApplyKeySignature(note, key)

	assert.Equal(t, ast.Natural, applied.Pitches[0].Accidental)
	assert.Same(t, note, applied, "unchanged notes are returned as-is")
}

func TestKeyApplicationIsIdempotent(t *testing.T) {
	key := NewKeyInfo("d", "major")
	note := &ast.Note{
		Pitches:  []ast.Pitch{{Class: "f", Octave: 4}, {Class: "c", Octave: 5}, {Class: "g", Octave: 4}},
		Duration: 2,
	}
	once := ApplyKeySignature(note, key)
	twice := ApplyKeySignature(once, key)

	assert.Equal(t, once, twice)
}

func TestMinorKeyLookup(t *testing.T) {
	key := NewKeyInfo("a", "minor")
	assert.Empty(t, key.Accidentals)

	key = NewKeyInfo("e", "minor")
	assert.Equal(t, ast.Sharp, key.AccidentalFor("f"))
	assert.False(t, key.Affects("c"))
}

func TestKeyInfoForResolvesRootAccidental(t *testing.T) {
	key := KeyInfoFor(&ast.KeySignature{Root: "b", Mode: "major", Accidental: ast.Flat})

	assert := assert.New(t)
	assert.Equal("b-", key.Root)
	assert.Equal(ast.Flat, key.AccidentalFor("b"))
	assert.Equal(ast.Flat, key.AccidentalFor("e"))
}

func TestUpperNeighborWrapsBToC(t *testing.T) {
	up := UpperNeighbor(ast.Pitch{Class: "b", Octave: 4}, KeyInfo{})

	assert := assert.New(t)
	assert.Equal("c", up.Class)
	assert.Equal(5, up.Octave)
}

func TestLowerNeighborWrapsCToB(t *testing.T) {
	down := LowerNeighbor(ast.Pitch{Class: "c", Octave: 4}, KeyInfo{})

	assert := assert.New(t)
	assert.Equal("b", down.Class)
	assert.Equal(3, down.Octave)
}

func TestNeighborsPickUpKeyAccidentals(t *testing.T) {
	key := NewKeyInfo("g", "major")
	up := UpperNeighbor(ast.Pitch{Class: "e", Octave: 4}, key)

	assert := assert.New(t)
	assert.Equal("f", up.Class)
	assert.Equal(ast.Sharp, up.Accidental)
}

func TestMIDINumber(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(60, MIDINumber(ast.Pitch{Class: "c", Octave: 4}))
	assert.Equal(61, MIDINumber(ast.Pitch{Class: "c", Octave: 4, Accidental: ast.Sharp}))
	assert.Equal(59, MIDINumber(ast.Pitch{Class: "c", Octave: 4, Accidental: ast.Flat}))
	assert.Equal(69, MIDINumber(ast.Pitch{Class: "a", Octave: 4}))
	assert.Equal(127, MIDINumber(ast.Pitch{Class: "b", Octave: 10}))
}
