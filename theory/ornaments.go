package theory

import "github.com/scorelang/scorelang/ast"

// Ornament expansion works in integer units of 1/128 of a whole note, the
// finest grid on which every representable duration (a denominator in
// {1..64}, possibly dotted) has an exact size. Working on this grid lets the
// expansion guarantee that the expanded notes always sum to exactly the
// principal note's duration.

type durSpec struct {
	duration int
	dotted   bool
}

// unitToDuration is the single source of truth for mapping a unit count back
// to a representable (duration, dotted) pair.
var unitToDuration = map[int]durSpec{
	192: {1, true},
	128: {1, false},
	96:  {2, true},
	64:  {2, false},
	48:  {4, true},
	32:  {4, false},
	24:  {8, true},
	16:  {8, false},
	12:  {16, true},
	8:   {16, false},
	6:   {32, true},
	4:   {32, false},
	3:   {64, true},
	2:   {64, false},
}

// NoteUnits returns a duration's size in 1/128-whole-note units, or 0 if the
// denominator is not representable.
func NoteUnits(duration int, dotted bool) int {
	if duration <= 0 || 128%duration != 0 {
		return 0
	}
	units := 128 / duration
	if dotted {
		units = units * 3 / 2
	}
	return units
}

func representable(units int) bool {
	_, ok := unitToDuration[units]
	return ok
}

// ExpandOrnament expands an ornament on a principal note into the note
// sequence that performs it. Supported kinds: trill, mordent, turn, tremolo.
// The returned notes always sum to exactly the principal note's duration;
// when the duration cannot be subdivided representably the principal note is
// returned unchanged.
func ExpandOrnament(kind string, note *ast.Note, key KeyInfo) []*ast.Note {
	total := NoteUnits(note.Duration, note.Dotted)
	if total <= 0 {
		return []*ast.Note{note}
	}

	switch kind {
	case "trill":
		upper := UpperNeighbor(principalPitch(note), key)
		return alternation(note, total, trillSegment(total), func(i int) *ast.Pitch {
			if i%2 == 1 {
				return &upper
			}
			return nil
		})
	case "mordent":
		return expandMordent(note, total, key)
	case "turn":
		return expandTurn(note, total, key)
	case "tremolo":
		return alternation(note, total, tremoloSegment(total), func(int) *ast.Pitch { return nil })
	default:
		return []*ast.Note{note}
	}
}

func principalPitch(note *ast.Note) ast.Pitch {
	if len(note.Pitches) == 0 {
		return ast.Pitch{Class: "c", Octave: 4}
	}
	return note.Pitches[0]
}

// segmentNote builds one expansion note of the given unit size. A nil pitch
// means the principal note's own pitches; otherwise the single substitute
// pitch is used.
func segmentNote(note *ast.Note, units int, pitch *ast.Pitch) *ast.Note {
	spec := unitToDuration[units]
	c := note.Clone()
	c.Duration = spec.duration
	c.Dotted = spec.dotted
	if pitch != nil {
		c.Pitches = []ast.Pitch{*pitch}
	}
	return c
}

func trillSegment(total int) int {
	if total < 4 {
		return 2
	}
	return 4
}

func tremoloSegment(total int) int {
	switch {
	case total >= 8:
		return 8
	case total >= 4:
		return 4
	default:
		return 2
	}
}

// alternation emits count segments of fixed size, choosing each segment's
// pitch via pitchAt, then covers any remainder with one principal-note
// segment when the remainder is representable. Otherwise it falls back to
// the single principal note so no duration is ever dropped.
func alternation(note *ast.Note, total, segment int, pitchAt func(i int) *ast.Pitch) []*ast.Note {
	count := total / segment
	rem := total - count*segment
	if count == 0 || (rem != 0 && !representable(rem)) {
		return []*ast.Note{note}
	}

	notes := make([]*ast.Note, 0, count+1)
	for i := 0; i < count; i++ {
		notes = append(notes, segmentNote(note, segment, pitchAt(i)))
	}
	if rem != 0 {
		notes = append(notes, segmentNote(note, rem, nil))
	}
	return notes
}

// expandMordent plays principal, lower neighbor, then the rest on the
// principal. Short-segment sizes 4 then 2 units are tried for the first two
// notes; whatever remains goes to the final principal note.
func expandMordent(note *ast.Note, total int, key KeyInfo) []*ast.Note {
	lower := LowerNeighbor(principalPitch(note), key)
	for _, segment := range []int{4, 2} {
		rem := total - 2*segment
		if rem > 0 && representable(rem) {
			return []*ast.Note{
				segmentNote(note, segment, nil),
				segmentNote(note, segment, &lower),
				segmentNote(note, rem, nil),
			}
		}
	}
	return []*ast.Note{note}
}

// expandTurn plays upper, principal, lower, principal in four near-equal
// parts. When the total does not divide evenly the extra units go to the
// last notes first.
func expandTurn(note *ast.Note, total int, key KeyInfo) []*ast.Note {
	quarter := total / 4
	if quarter == 0 {
		return []*ast.Note{note}
	}
	parts := [4]int{quarter, quarter, quarter, quarter}
	for i := 0; i < total%4; i++ {
		parts[3-i]++
	}
	for _, p := range parts {
		if !representable(p) {
			return []*ast.Note{note}
		}
	}

	upper := UpperNeighbor(principalPitch(note), key)
	lower := LowerNeighbor(principalPitch(note), key)
	return []*ast.Note{
		segmentNote(note, parts[0], &upper),
		segmentNote(note, parts[1], nil),
		segmentNote(note, parts[2], &lower),
		segmentNote(note, parts[3], nil),
	}
}
