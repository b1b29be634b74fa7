package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scorelang/scorelang/ast"
)

func firstMeasure(t *testing.T, comp *ast.Composition, instrument string, voice int) *ast.Measure {
	t.Helper()
	inst := comp.Instruments[instrument]
	if !assert.NotNil(t, inst) {
		t.FailNow()
	}
	for _, ev := range inst.Voices[voice] {
		if m, ok := ev.(*ast.Measure); ok {
			return m
		}
	}
	t.Fatal("no measure found")
	return nil
}

func TestParseSimpleMelody(t *testing.T) {
	comp, err := Parse(`piano { V1: c4/4 d4/4 e4/4 f4/4; }`)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"piano"}, comp.Order)

	m := firstMeasure(t, comp, "piano", 1)
	assert.Len(m.Events, 4)
	first := m.Events[0].(*ast.Note)
	assert.Equal("c", first.Pitches[0].Class)
	assert.Equal(4, first.Pitches[0].Octave)
	assert.Equal(4, first.Duration)
}

func TestParseAccidentalsAndDots(t *testing.T) {
	comp, err := Parse(`piano { V1: c4+/8. b3-/8 f4=/4 g4/2; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	n0 := m.Events[0].(*ast.Note)
	assert.Equal(ast.Sharp, n0.Pitches[0].Accidental)
	assert.True(n0.Dotted)
	n1 := m.Events[1].(*ast.Note)
	assert.Equal(ast.Flat, n1.Pitches[0].Accidental)
	assert.Equal(3, n1.Pitches[0].Octave)
	n2 := m.Events[2].(*ast.Note)
	assert.Equal(ast.Natural, n2.Pitches[0].Accidental)
}

func TestParseChord(t *testing.T) {
	comp, err := Parse(`piano { V1: c4,e4,g4/4; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	chord := m.Events[0].(*ast.Note)
	assert.Len(chord.Pitches, 3)
	assert.Equal(4, chord.Duration)
	assert.Equal("e", chord.Pitches[1].Class)
}

func TestDurationInheritance(t *testing.T) {
	comp, err := Parse(`piano { V1: c4/8 d4 e4 f4/4; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	assert.Equal(8, m.Events[1].(*ast.Note).Duration)
	assert.Equal(8, m.Events[2].(*ast.Note).Duration)
	assert.Equal(4, m.Events[3].(*ast.Note).Duration)
}

func TestParseRestAndDrums(t *testing.T) {
	comp, err := Parse(`drums { V1: kick/4 r/4 snare/4 hat/4; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "drums", 1)
	assert.Equal("kick", m.Events[0].(*ast.PercussionNote).DrumSound)
	assert.Equal(4, m.Events[1].(*ast.Rest).Duration)
	assert.Equal("snare", m.Events[2].(*ast.PercussionNote).DrumSound)
}

func TestBarLinesNumberMeasures(t *testing.T) {
	comp, err := Parse(`piano { V1: c4/2 d4/2 | e4/2 f4/2 | g4/1; }`)

	assert := assert.New(t)
	assert.NoError(err)

	events := comp.Instruments["piano"].Voices[1]
	var numbers []int
	for _, ev := range events {
		if m, ok := ev.(*ast.Measure); ok {
			numbers = append(numbers, m.Number)
		}
	}
	assert.Equal([]int{1, 2, 3}, numbers)
}

func TestVoiceBlocksAreIndependent(t *testing.T) {
	comp, err := Parse(`
piano {
  V1: c4/1;
  V2: c3/1;
}`)

	assert := assert.New(t)
	assert.NoError(err)

	inst := comp.Instruments["piano"]
	assert.Equal([]int{1, 2}, inst.VoiceOrder)
	assert.Equal(4, firstMeasure(t, comp, "piano", 1).Events[0].(*ast.Note).Pitches[0].Octave)
	assert.Equal(3, firstMeasure(t, comp, "piano", 2).Events[0].(*ast.Note).Pitches[0].Octave)
}

func TestCompositionDirectivesAreInjected(t *testing.T) {
	comp, err := Parse(`
(tempo 90)
(time 3 4)
(key g 'major)
piano { V1: c4/4 d4/4 e4/4; }`)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(90, comp.Defaults.Tempo)

	events := comp.Instruments["piano"].Voices[1]
	assert.IsType(&ast.Tempo{}, events[0])
	assert.IsType(&ast.TimeSignature{}, events[1])
	assert.IsType(&ast.KeySignature{}, events[2])

	ks := events[2].(*ast.KeySignature)
	assert.Equal("g", ks.Root)
	assert.Equal("major", ks.Mode)
}

func TestInstrumentScopeDefaultsPerVoice(t *testing.T) {
	comp, err := Parse(`
piano {
  @ff
  V1: c4/1;
  @pp
  V2: c3/1;
}`)

	assert := assert.New(t)
	assert.NoError(err)

	inst := comp.Instruments["piano"]
	assert.Len(inst.DefaultsSequence, 2)
	assert.Equal(1, inst.DefaultsSequence[0].Voice)
	assert.Equal("ff", inst.DefaultsSequence[0].Defaults.DynamicLevel)
	assert.Equal(2, inst.DefaultsSequence[1].Voice)
	assert.Equal("pp", inst.DefaultsSequence[1].Defaults.DynamicLevel)
}

func TestSameNameInstrumentsMerge(t *testing.T) {
	comp, err := Parse(`
piano { V1: c4/1; }
piano { V1: d4/1; V2: e4/1; }`)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"piano"}, comp.Order)

	inst := comp.Instruments["piano"]
	assert.Equal([]int{1, 2}, inst.VoiceOrder)

	var numbers []int
	for _, ev := range inst.Voices[1] {
		if m, ok := ev.(*ast.Measure); ok {
			numbers = append(numbers, m.Number)
		}
	}
	assert.Equal([]int{1, 2}, numbers, "measure numbering continues across blocks")
}

func TestParseGraceNote(t *testing.T) {
	comp, err := Parse(`piano { V1: ~c4/4 d4/1; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	grace := m.Events[0].(*ast.GraceNote)
	assert.Equal("c", grace.Note.Pitches[0].Class)
}

func TestParseTuplet(t *testing.T) {
	comp, err := Parse(`piano { V1: (c4/8 d4/8 e4/8):3 f4/4 g4/2; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	tuplet := m.Events[0].(*ast.Tuplet)
	assert.Equal(3, tuplet.Ratio)
	assert.Equal(4, tuplet.ActualDuration, "a triplet of eighths fills a quarter")
	assert.Len(tuplet.Notes, 3)
}

func TestParseSlides(t *testing.T) {
	comp, err := Parse(`piano { V1: <c4/2 c5/2> | <stepped: c4/2 e4/2> | <portamento: c4/2 g4/2>; }`)

	assert := assert.New(t)
	assert.NoError(err)

	events := comp.Instruments["piano"].Voices[1]
	styles := []ast.SlideStyle{}
	for _, ev := range events {
		m := ev.(*ast.Measure)
		styles = append(styles, m.Events[0].(*ast.Slide).Style)
	}
	assert.Equal([]ast.SlideStyle{ast.SlideChromatic, ast.SlideStepped, ast.SlidePortamento}, styles)
}

func TestParseArticulationsAndDynamics(t *testing.T) {
	comp, err := Parse(`piano { V1: :legato @mf c4/2 @sforzando d4/2 | :reset @crescendo(ff) e4/1; }`)

	assert := assert.New(t)
	assert.NoError(err)

	events := comp.Instruments["piano"].Voices[1]
	m1 := events[0].(*ast.Measure)
	assert.Equal("legato", m1.Events[0].(*ast.Articulation).Type)
	assert.Equal("mf", m1.Events[1].(*ast.DynamicLevel).Level)
	assert.Equal("sforzando", m1.Events[3].(*ast.DynamicAccent).Type)

	m2 := events[1].(*ast.Measure)
	assert.Equal(ast.ResetArticulation, m2.Events[0].(*ast.Reset).Kind)
	transition := m2.Events[1].(*ast.DynamicTransition)
	assert.Equal("crescendo", transition.Type)
	assert.Equal("ff", transition.TargetLevel)
}

func TestParseOrnaments(t *testing.T) {
	comp, err := Parse(`piano { V1: %trill c4/2 %tremolo d4/2; }`)

	assert := assert.New(t)
	assert.NoError(err)

	m := firstMeasure(t, comp, "piano", 1)
	assert.Equal("trill", m.Events[0].(*ast.Ornament).Type)
	assert.IsType(&ast.Tremolo{}, m.Events[2])
}

func TestCommentsAreIgnored(t *testing.T) {
	comp, err := Parse(`
# a four note scale
piano {
  V1: c4/4 d4/4 e4/4 f4/4; # inline too
}`)

	assert.NoError(t, err)
	assert.Len(t, firstMeasure(t, comp, "piano", 1).Events, 4)
}

func TestLineNumbersInErrors(t *testing.T) {
	_, err := Parse("piano {\n  V1: c4/4 x9/4;\n}")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestUnknownDirectiveFails(t *testing.T) {
	_, err := Parse(`(swing 50) piano { V1: c4/1; }`)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "swing")
}

func TestUnterminatedInstrumentFails(t *testing.T) {
	_, err := Parse(`piano { V1: c4/1;`)

	assert.Error(t, err)
}
