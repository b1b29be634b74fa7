package midigen

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
	"github.com/scorelang/scorelang/theory"
	"github.com/scorelang/scorelang/util"
)

// emitSlide renders a glide between two notes. All three styles consume the
// from-note's and to-note's durations back to back.
func (g *Generator) emitSlide(st *instrState, s *ast.Slide, t float64) (float64, error) {
	fromTicks := g.durationTicks(s.FromNote.Duration, s.FromNote.Dotted)
	toTicks := g.durationTicks(s.ToNote.Duration, s.ToNote.Dotted)
	total := fromTicks + toTicks

	switch s.Style {
	case ast.SlideStepped:
		g.emitSteppedSlide(st, s, t, total)
	case ast.SlidePortamento:
		g.emitPortamentoSlide(st, s, t, fromTicks, toTicks)
	default:
		g.emitChromaticSlide(st, s, t, fromTicks, total)
	}
	return t + total, nil
}

// emitChromaticSlide holds the from-note for the combined duration and bends
// the pitch wheel toward the target over the from-note's written duration.
// The interpolation emits SLIDE_STEPS+1 bend events; the wheel always
// returns to center when the note ends.
func (g *Generator) emitChromaticSlide(st *instrState, s *ast.Slide, t, fromTicks, total float64) {
	from := uint8(theory.NoteNumber(s.FromNote))
	semitones := theory.NoteNumber(s.ToNote) - theory.NoteNumber(s.FromNote)
	velocity := st.noteVelocity(s.FromNote)

	st.buf.add(t, midi.NoteOn(st.channel, from, velocity))
	for i := 0; i <= constants.SlideSteps; i++ {
		tick := t + fromTicks*float64(i)/float64(constants.SlideSteps)
		bend := 8192 * semitones * i / (constants.SlideSteps * constants.PitchBendRange)
		st.buf.add(tick, midi.Pitchbend(st.channel, int16(util.Clamp(bend, -8192, 8191))))
	}
	st.buf.add(t+total, midi.NoteOff(st.channel, from))
	st.buf.add(t+total, midi.Pitchbend(st.channel, 0))
}

// emitSteppedSlide plays one short note per semitone from the start pitch to
// the target inclusive, dividing the combined duration evenly. The target
// pitch is always sounded as the final step.
func (g *Generator) emitSteppedSlide(st *instrState, s *ast.Slide, t, total float64) {
	from := theory.NoteNumber(s.FromNote)
	to := theory.NoteNumber(s.ToNote)
	velocity := st.noteVelocity(s.FromNote)

	dir := 1
	if to < from {
		dir = -1
	}
	steps := (to-from)*dir + 1
	sub := total / float64(steps)

	for i := 0; i < steps; i++ {
		key := uint8(util.Clamp(from+i*dir, 0, 127))
		start := t + float64(i)*sub
		st.buf.add(start, midi.NoteOn(st.channel, key, velocity))
		st.buf.add(start+sub, midi.NoteOff(st.channel, key))
	}
}

// emitPortamentoSlide plays both notes normally and lets the synth glide:
// portamento time proportional to the glide duration, switched on before the
// first note and off after the second.
func (g *Generator) emitPortamentoSlide(st *instrState, s *ast.Slide, t, fromTicks, toTicks float64) {
	portamentoTime := uint8(util.Clamp(int(fromTicks/10), 0, 127))
	st.buf.add(t, midi.ControlChange(st.channel, constants.CCPortamentoTime, portamentoTime))
	st.buf.add(t, midi.ControlChange(st.channel, constants.CCPortamentoOnOff, 127))

	g.emitNote(st, s.FromNote, t, fromTicks)
	g.emitNote(st, s.ToNote, t+fromTicks, toTicks)

	st.buf.add(t+fromTicks+toTicks, midi.ControlChange(st.channel, constants.CCPortamentoOnOff, 0))
}
