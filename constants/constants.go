package constants

// DefaultPPQ is the MIDI timing resolution in pulses per quarter note.
const DefaultPPQ = 480

// DefaultTempo is used when a composition declares no tempo directive.
const DefaultTempo = 120

// DefaultDuration is the note duration denominator assumed when the source
// gives none (1 = whole note).
const DefaultDuration = 1

// DotMultiplier is the duration factor added by a dot.
const DotMultiplier = 1.5

// ValidDurations are the accepted duration denominators.
var ValidDurations = []int{1, 2, 4, 8, 16, 32, 64}

// Dynamic level velocities.
const (
	VelocityPP = 40
	VelocityP  = 55
	VelocityMP = 70
	VelocityMF = 85
	VelocityF  = 100
	VelocityFF = 115
)

// One-shot accent velocity boosts.
const (
	SforzandoBoost  = 20
	MarcatoBoost    = 30
	FortePianoBoost = 35
)

// Articulation duration percentages (note-on to note-off as a share of the
// written duration).
const (
	NaturalDurationPercent  = 92
	StaccatoDurationPercent = 55
	LegatoDurationPercent   = 100
	TenutoDurationPercent   = 100
	MarcatoDurationPercent  = 90
)

// DynamicTransitionStep is the per-note velocity delta while a
// crescendo/diminuendo is active.
const DynamicTransitionStep = 6

// GraceNoteDurationRatio is a grace note's sounded length as a fraction of
// one quarter note.
const GraceNoteDurationRatio = 0.05

// SlideSteps is the number of pitch-bend steps for chromatic slides.
const SlideSteps = 20

// PitchBendRange is the assumed synth bend range in semitones.
const PitchBendRange = 2

// MIDI Control Change numbers.
const (
	CCPan             = 10
	CCExpression      = 11
	CCLegato          = 68
	CCPortamentoTime  = 5
	CCPortamentoOnOff = 65
)

// DrumChannel is the General MIDI percussion channel (0-indexed).
const DrumChannel = 9

// MaxChannel is the highest MIDI channel (0-indexed).
const MaxChannel = 15

const (
	MinOctave = 0
	MaxOctave = 10
)

const (
	MinTempo = 20
	MaxTempo = 400
)

// MaxTimeSigNumerator bounds the meter numerator; the SMF meta event stores
// it in a single byte.
const MaxTimeSigNumerator = 64

// LargeSlideSemitones is the interval above which a slide draws a warning.
const LargeSlideSemitones = 24
