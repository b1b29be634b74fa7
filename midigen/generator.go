// Package midigen renders an analyzed composition to a Standard MIDI File.
// Each instrument gets its own track and channel; channel 9 is reserved for
// percussion per General MIDI.
package midigen

import (
	"errors"
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/scorelang/scorelang/articulation"
	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
	"github.com/scorelang/scorelang/gm"
	"github.com/scorelang/scorelang/theory"
	"github.com/scorelang/scorelang/util"
)

var (
	ErrNoInstruments      = errors.New("composition has no instruments")
	ErrTooManyInstruments = errors.New("too many instruments: 15 melodic channels are available")
	ErrUnknownDrum        = errors.New("unknown drum sound")
	ErrUnexpandedOrnament = errors.New("ornament marker was not expanded before generation")
)

// Generator renders compositions. A Generator allocates channels as it goes,
// so use a fresh one per composition.
type Generator struct {
	ppq      int
	nextChan int
}

func New() *Generator {
	return NewWithPPQ(constants.DefaultPPQ)
}

func NewWithPPQ(ppq int) *Generator {
	if ppq <= 0 {
		ppq = constants.DefaultPPQ
	}
	return &Generator{ppq: ppq}
}

// Generate renders the composition and writes it to path. The file is
// written through a temp file and renamed into place, so a failed render
// never leaves a truncated .mid behind.
func (g *Generator) Generate(comp *ast.Composition, path string) error {
	s, err := g.Render(comp)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
}

// Render builds the SMF in memory: a conductor track with the initial tempo,
// then one track per instrument in declaration order.
func (g *Generator) Render(comp *ast.Composition) (*smf.SMF, error) {
	if len(comp.Instruments) == 0 {
		return nil, ErrNoInstruments
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(g.ppq)

	tempo := comp.Defaults.Tempo
	if tempo <= 0 {
		tempo = constants.DefaultTempo
	}
	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("conductor"))
	conductor.Add(0, smf.MetaTempo(float64(tempo)))
	conductor.Close(0)
	s.Add(conductor)

	for _, inst := range comp.InstrumentsInOrder() {
		track, err := g.renderInstrument(inst)
		if err != nil {
			return nil, err
		}
		s.Add(track)
	}
	return s, nil
}

// instrState is the per-track rendering state.
type instrState struct {
	channel       uint8
	buf           *trackBuffer
	mapper        *articulation.Mapper
	pendingAccent string
	legatoOn      bool
}

func (g *Generator) allocChannel(name string) (uint8, error) {
	if gm.IsPercussion(name) {
		return constants.DrumChannel, nil
	}
	ch := g.nextChan
	if ch == constants.DrumChannel {
		ch++
	}
	if ch > constants.MaxChannel {
		return 0, fmt.Errorf("%w (instrument %q)", ErrTooManyInstruments, name)
	}
	g.nextChan = ch + 1
	return uint8(ch), nil
}

func (g *Generator) renderInstrument(inst *ast.Instrument) (smf.Track, error) {
	channel, err := g.allocChannel(inst.Name)
	if err != nil {
		return nil, err
	}

	st := &instrState{
		channel: channel,
		buf:     &trackBuffer{},
		mapper:  articulation.NewMapper(),
	}
	st.buf.add(0, smf.MetaTrackSequenceName(inst.Name))
	if channel != constants.DrumChannel {
		st.buf.add(0, midi.ProgramChange(channel, gm.Program(inst.Name)))
	}

	for _, ev := range inst.Events {
		if _, err := g.processEvent(st, ev, 0); err != nil {
			return nil, err
		}
	}
	// Voices share the channel but each starts at tick 0.
	for _, num := range inst.VoiceOrder {
		t := 0.0
		for _, ev := range inst.Voices[num] {
			t, err = g.processEvent(st, ev, t)
			if err != nil {
				return nil, err
			}
		}
	}
	return st.buf.track(), nil
}

// processEvent emits the MIDI messages for one event starting at tick t and
// returns the tick position after it.
func (g *Generator) processEvent(st *instrState, ev ast.Event, t float64) (float64, error) {
	switch e := ev.(type) {
	case *ast.Measure:
		var err error
		for _, inner := range e.Events {
			t, err = g.processEvent(st, inner, t)
			if err != nil {
				return 0, err
			}
		}
		return t, nil

	case *ast.Note:
		base := g.durationTicks(e.Duration, e.Dotted)
		g.emitNote(st, e, t, base)
		return t + base, nil

	case *ast.Rest:
		return t + g.durationTicks(e.Duration, e.Dotted), nil

	case *ast.PercussionNote:
		key, err := gm.DrumNote(e.DrumSound)
		if err != nil {
			return 0, fmt.Errorf("%w: %q at line %d", ErrUnknownDrum, e.DrumSound, e.Line)
		}
		base := g.durationTicks(e.Duration, e.Dotted)
		velocity := e.Velocity
		if velocity <= 0 {
			velocity = st.mapper.NoteVelocity(st.takeAccent())
		}
		sounded := float64(st.mapper.NoteDuration(int(base)))
		st.buf.add(t, midi.NoteOn(constants.DrumChannel, key, uint8(velocity)))
		st.buf.add(t+sounded, midi.NoteOff(constants.DrumChannel, key))
		return t + base, nil

	case *ast.GraceNote:
		d := e.Note.EndTime - e.Note.StartTime
		if d <= 0 {
			d = float64(g.ppq) * constants.GraceNoteDurationRatio
		}
		g.emitNote(st, e.Note, t, d)
		return t + d, nil

	case *ast.Tuplet:
		span := g.durationTicks(e.ActualDuration, false)
		per := span / float64(e.Ratio)
		for i, n := range e.Notes {
			g.emitNote(st, n, t+float64(i)*per, per)
		}
		return t + span, nil

	case *ast.Slide:
		return g.emitSlide(st, e, t)

	case *ast.Articulation:
		st.mapper.ProcessArticulation(e.Type)
		return t, nil

	case *ast.DynamicLevel:
		st.mapper.ProcessDynamicLevel(e.Level)
		return t, nil

	case *ast.DynamicTransition:
		st.mapper.ProcessDynamicTransition(e.Type, e.TargetLevel)
		return t, nil

	case *ast.DynamicAccent:
		st.pendingAccent = e.Type
		return t, nil

	case *ast.Reset:
		st.mapper.ProcessReset(string(e.Kind))
		return t, nil

	case *ast.Tempo:
		st.buf.add(t, smf.MetaTempo(float64(e.BPM)))
		return t, nil

	case *ast.TimeSignature:
		st.buf.add(t, smf.MetaTimeSig(uint8(e.Numerator), uint8(e.Denominator), 24, 8))
		return t, nil

	case *ast.Pan:
		st.buf.add(t, midi.ControlChange(st.channel, constants.CCPan, uint8(util.Clamp(e.Position, 0, 127))))
		return t, nil

	case *ast.KeySignature:
		// Key signatures are applied to pitches during analysis.
		return t, nil

	case *ast.Ornament:
		return 0, fmt.Errorf("%w: %s at line %d", ErrUnexpandedOrnament, e.Type, e.Line)

	case *ast.Tremolo:
		return 0, fmt.Errorf("%w: tremolo at line %d", ErrUnexpandedOrnament, e.Line)

	default:
		return t, nil
	}
}

// emitNote writes note-on/note-off pairs for every pitch of a note (a chord
// shares one start and one duration). The sounded length is the articulation
// percent of the written length; legato additionally toggles CC#68.
func (g *Generator) emitNote(st *instrState, n *ast.Note, t, base float64) {
	artic := n.Articulation
	if artic == "" {
		artic = st.mapper.Articulation()
	}
	sounded := base * float64(articulation.DurationPercent(artic)) / 100.0

	legato := artic == "legato"
	if legato && !st.legatoOn {
		st.buf.add(t, midi.ControlChange(st.channel, constants.CCLegato, 127))
		st.legatoOn = true
	} else if !legato && st.legatoOn {
		st.buf.add(t, midi.ControlChange(st.channel, constants.CCLegato, 0))
		st.legatoOn = false
	}

	velocity := st.noteVelocity(n)
	for _, p := range n.Pitches {
		key := uint8(theory.MIDINumber(p))
		st.buf.add(t, midi.NoteOn(st.channel, key, velocity))
		st.buf.add(t+sounded, midi.NoteOff(st.channel, key))
	}
}

// noteVelocity prefers the velocity stamped by analysis; raw trees fall back
// to the generator's own running mapper.
func (st *instrState) noteVelocity(n *ast.Note) uint8 {
	if n.Velocity > 0 {
		return uint8(util.Clamp(n.Velocity, 0, 127))
	}
	return uint8(st.mapper.NoteVelocity(st.takeAccent()))
}

func (st *instrState) takeAccent() string {
	accent := st.pendingAccent
	st.pendingAccent = ""
	return accent
}

func (g *Generator) durationTicks(duration int, dotted bool) float64 {
	if duration <= 0 {
		duration = constants.DefaultDuration
	}
	ticks := 4.0 * float64(g.ppq) / float64(duration)
	if dotted {
		ticks *= constants.DotMultiplier
	}
	return ticks
}
