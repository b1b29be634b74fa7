// Package ast defines the syntax tree the parser produces and the semantic
// analyzer rewrites. Nodes form a closed sum type over the Event interface;
// passes never mutate a node in place, they copy it and change fields on the
// copy, because injected composition-scope events may be shared between
// voices.
package ast

// Accidental is an explicit pitch modifier.
type Accidental string

const (
	NoAccidental Accidental = ""
	Sharp        Accidental = "sharp"
	Flat         Accidental = "flat"
	Natural      Accidental = "natural"
)

// Pitch is one letter class (a-g) with an octave and an optional accidental.
type Pitch struct {
	Class      string
	Octave     int
	Accidental Accidental
}

// Event is the closed set of nodes that can appear in an event stream.
type Event interface {
	event()
}

// Note is a single pitch or a chord (2+ pitches sharing one duration,
// velocity and timing). Duration is a denominator: 1=whole, 2=half, etc.
// StartTime/EndTime/Velocity/Articulation/DynamicLevel are populated by the
// analyzer.
type Note struct {
	Pitches  []Pitch
	Duration int
	Dotted   bool
	Line     int

	StartTime    float64
	EndTime      float64
	Velocity     int
	Articulation string
	DynamicLevel string
}

// Rest is silence: duration only, no pitch or velocity.
type Rest struct {
	Duration int
	Dotted   bool
	Line     int

	StartTime float64
	EndTime   float64
}

// PercussionNote is a drum hit named by drum sound rather than pitch. The
// name resolves to a General MIDI note number at generation time.
type PercussionNote struct {
	DrumSound string
	Duration  int
	Dotted    bool
	Line      int

	StartTime float64
	EndTime   float64
	Velocity  int
}

// GraceNote wraps one note played in a small fixed duration that does not
// count toward its measure's required duration.
type GraceNote struct {
	Note *Note
}

// Tuplet fits Ratio notes into the time span of ActualDuration.
type Tuplet struct {
	Notes          []*Note
	Ratio          int
	ActualDuration int
	Line           int
}

// SlideStyle selects how a slide is rendered.
type SlideStyle string

const (
	SlideChromatic  SlideStyle = "chromatic"
	SlideStepped    SlideStyle = "stepped"
	SlidePortamento SlideStyle = "portamento"
)

// Slide glides from one note to another. It consumes FromNote's duration and
// then ToNote's duration sequentially.
type Slide struct {
	FromNote *Note
	ToNote   *Note
	Style    SlideStyle
	Line     int
}

// Measure groups the events between bar lines. Number is 1-indexed.
type Measure struct {
	Events []Event
	Number int
	Line   int

	StartTime float64
	EndTime   float64
}

// Articulation changes the running articulation for following notes.
type Articulation struct {
	Type string // legato, staccato, tenuto, marcato, natural
}

// Ornament marks the immediately following note for expansion.
type Ornament struct {
	Type string // trill, mordent, turn
	Line int
}

// Tremolo marks the immediately following note for rapid repetition.
type Tremolo struct {
	Line int
}

// ResetKind selects which state stack a Reset pops.
type ResetKind string

const (
	ResetArticulation ResetKind = "articulation"
	ResetDynamic      ResetKind = "dynamic"
)

// Reset pops the articulation or dynamic stack.
type Reset struct {
	Kind ResetKind
}

// DynamicLevel sets an absolute dynamic (pp..ff).
type DynamicLevel struct {
	Level string
}

// DynamicTransition starts a crescendo or diminuendo, optionally toward an
// explicit target level.
type DynamicTransition struct {
	Type        string // crescendo, diminuendo
	TargetLevel string // "" means the direction's default target
}

// DynamicAccent boosts only the next note's velocity.
type DynamicAccent struct {
	Type string // sforzando, marcato, forte-piano
}

// Tempo sets beats per minute. Consumes no time.
type Tempo struct {
	BPM  int
	Line int
}

// TimeSignature sets the meter for following measures. Consumes no time.
type TimeSignature struct {
	Numerator   int
	Denominator int
	Line        int
}

// KeySignature sets the key for following notes.
type KeySignature struct {
	Root       string // a-g
	Mode       string // major, minor
	Accidental Accidental
}

// Pan sets stereo position 0 (left) .. 127 (right).
type Pan struct {
	Position int
}

func (*Note) event()              {}
func (*Rest) event()              {}
func (*PercussionNote) event()    {}
func (*GraceNote) event()         {}
func (*Tuplet) event()            {}
func (*Slide) event()             {}
func (*Measure) event()           {}
func (*Articulation) event()      {}
func (*Ornament) event()          {}
func (*Tremolo) event()           {}
func (*Reset) event()             {}
func (*DynamicLevel) event()      {}
func (*DynamicTransition) event() {}
func (*DynamicAccent) event()     {}
func (*Tempo) event()             {}
func (*TimeSignature) event()     {}
func (*KeySignature) event()      {}
func (*Pan) event()               {}

// Clone returns a shallow copy sharing the Pitches slice. Callers that
// modify pitches must copy that slice too.
func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// WithPitches returns a copy carrying the given pitches.
func (n *Note) WithPitches(pitches []Pitch) *Note {
	c := *n
	c.Pitches = pitches
	return &c
}

// WithTiming returns a copy with start/end times set.
func (n *Note) WithTiming(start, end float64) *Note {
	c := *n
	c.StartTime = start
	c.EndTime = end
	return &c
}

// WithState returns a copy with performance state applied.
func (n *Note) WithState(velocity int, articulation, dynamicLevel string) *Note {
	c := *n
	c.Velocity = velocity
	c.Articulation = articulation
	c.DynamicLevel = dynamicLevel
	return &c
}

// Defaults records which directive values were active at a scope boundary.
// Zero values mean "not set" (Pan uses -1 because 0 is full left).
type Defaults struct {
	Tempo         int
	TimeSignature *TimeSignature
	KeySignature  *KeySignature
	Pan           int
	Articulation  string
	DynamicLevel  string
	Transition    *DynamicTransition
}

// NewDefaults returns a Defaults with every field unset.
func NewDefaults() Defaults {
	return Defaults{Pan: -1}
}

// VoiceDefaults pairs a voice id with the instrument-scope defaults active
// immediately before that voice block was declared.
type VoiceDefaults struct {
	Voice    int
	Defaults Defaults
}

// Instrument is one named part. Voices maps voice id to its measures; each
// voice is an independent timeline starting at tick 0. DefaultsSequence
// records, in declaration order, the instrument-scope defaults in force
// before each voice block, so directives interleaved with voice blocks
// apply only to the voices that follow them.
type Instrument struct {
	Name             string
	Events           []Event
	Voices           map[int][]Event
	VoiceOrder       []int
	DefaultsSequence []VoiceDefaults
}

// Voice returns the event stream for a voice id.
func (in *Instrument) Voice(num int) []Event {
	return in.Voices[num]
}

// Composition is the parse result: instruments in declaration order plus
// the composition-scope defaults active before the first instrument.
type Composition struct {
	Instruments map[string]*Instrument
	Order       []string
	Defaults    Defaults
}

// InstrumentsInOrder returns instruments in declaration order.
func (c *Composition) InstrumentsInOrder() []*Instrument {
	res := make([]*Instrument, 0, len(c.Order))
	for _, name := range c.Order {
		res = append(res, c.Instruments[name])
	}
	return res
}
