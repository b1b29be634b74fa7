// Package articulation maps the running articulation and dynamic state to
// per-note MIDI velocity and sounded duration.
package articulation

import (
	"github.com/scorelang/scorelang/constants"
	"github.com/scorelang/scorelang/util"
)

// ArticulationState is the current articulation and its duration percent.
type ArticulationState struct {
	Type            string
	DurationPercent int
}

// DynamicState is the current dynamic level, its velocity, and any active
// crescendo/diminuendo.
type DynamicState struct {
	Level                   string
	Velocity                int
	TransitionActive        string // "", "crescendo" or "diminuendo"
	TransitionStartVelocity int
	TransitionTarget        int
}

var durationPercents = map[string]int{
	"natural":  constants.NaturalDurationPercent,
	"staccato": constants.StaccatoDurationPercent,
	"legato":   constants.LegatoDurationPercent,
	"tenuto":   constants.TenutoDurationPercent,
	"marcato":  constants.MarcatoDurationPercent,
}

var levelVelocities = map[string]int{
	"pp": constants.VelocityPP,
	"p":  constants.VelocityP,
	"mp": constants.VelocityMP,
	"mf": constants.VelocityMF,
	"f":  constants.VelocityF,
	"ff": constants.VelocityFF,
}

var accentBoosts = map[string]int{
	"sforzando":   constants.SforzandoBoost,
	"marcato":     constants.MarcatoBoost,
	"forte-piano": constants.FortePianoBoost,
}

// DurationPercent returns the sounded-duration percent for an articulation
// type, defaulting to natural.
func DurationPercent(kind string) int {
	if pct, ok := durationPercents[kind]; ok {
		return pct
	}
	return constants.NaturalDurationPercent
}

// LevelVelocity returns the velocity for a dynamic level, defaulting to mf.
func LevelVelocity(level string) int {
	if v, ok := levelVelocities[level]; ok {
		return v
	}
	return constants.VelocityMF
}

// Mapper tracks articulation and dynamic state across a performance stream.
// NoteVelocity must be called exactly once per note in performance order
// because it advances any active transition.
type Mapper struct {
	artic   ArticulationState
	dynamic DynamicState
}

func NewMapper() *Mapper {
	m := &Mapper{}
	m.artic = defaultArticulation()
	m.dynamic = defaultDynamic()
	return m
}

func defaultArticulation() ArticulationState {
	return ArticulationState{Type: "natural", DurationPercent: constants.NaturalDurationPercent}
}

func defaultDynamic() DynamicState {
	return DynamicState{Level: "mf", Velocity: constants.VelocityMF}
}

// ProcessArticulation sets the current articulation. Unknown types are
// ignored.
func (m *Mapper) ProcessArticulation(kind string) {
	if pct, ok := durationPercents[kind]; ok {
		m.artic = ArticulationState{Type: kind, DurationPercent: pct}
	}
}

// ProcessDynamicLevel sets an absolute dynamic level and cancels any active
// transition.
func (m *Mapper) ProcessDynamicLevel(level string) {
	m.dynamic.Level = level
	m.dynamic.Velocity = LevelVelocity(level)
	m.dynamic.TransitionActive = ""
}

// SetDynamic forces the level and velocity directly (used when a reset pops
// back to a remembered stack entry).
func (m *Mapper) SetDynamic(level string, velocity int) {
	m.dynamic.Level = level
	m.dynamic.Velocity = velocity
	m.dynamic.TransitionActive = ""
}

// ProcessDynamicTransition arms a crescendo or diminuendo. The target is the
// explicit level's velocity when given, otherwise ff for crescendo and pp
// for diminuendo.
func (m *Mapper) ProcessDynamicTransition(kind, targetLevel string) {
	if kind == "decresc" {
		kind = "diminuendo"
	}
	m.dynamic.TransitionActive = kind
	m.dynamic.TransitionStartVelocity = m.dynamic.Velocity

	if targetLevel != "" {
		m.dynamic.TransitionTarget = LevelVelocity(targetLevel)
		return
	}
	if kind == "crescendo" {
		m.dynamic.TransitionTarget = constants.VelocityFF
	} else {
		m.dynamic.TransitionTarget = constants.VelocityPP
	}
}

// ProcessReset restores one side of the state to its default: "articulation"
// resets only the articulation, "dynamic" only the dynamics.
func (m *Mapper) ProcessReset(kind string) {
	switch kind {
	case "articulation":
		m.artic = defaultArticulation()
	case "dynamic":
		m.dynamic = defaultDynamic()
	}
}

// NoteVelocity returns the velocity for the next note, applying a one-shot
// accent boost and advancing any active transition by one step. The stored
// velocity moves monotonically toward the target and never overshoots it.
func (m *Mapper) NoteVelocity(accent string) int {
	velocity := m.dynamic.Velocity

	if boost, ok := accentBoosts[accent]; ok {
		velocity = util.Min(127, velocity+boost)
	}

	if m.dynamic.TransitionActive != "" {
		target := m.dynamic.TransitionTarget
		if m.dynamic.TransitionActive == "crescendo" {
			if m.dynamic.Velocity < target {
				m.dynamic.Velocity = util.Min(target, m.dynamic.Velocity+constants.DynamicTransitionStep)
			}
		} else {
			if m.dynamic.Velocity > target {
				m.dynamic.Velocity = util.Max(target, m.dynamic.Velocity-constants.DynamicTransitionStep)
			}
		}
		velocity = m.dynamic.Velocity
	}

	return util.Clamp(velocity, 0, 127)
}

// NoteDuration converts a base tick duration to the sounded duration under
// the current articulation.
func (m *Mapper) NoteDuration(baseTicks int) int {
	return baseTicks * m.artic.DurationPercent / 100
}

// IsLegato reports whether the current articulation wants a CC#68 event at
// note start.
func (m *Mapper) IsLegato() bool {
	return m.artic.Type == "legato"
}

// Articulation returns the current articulation type.
func (m *Mapper) Articulation() string {
	return m.artic.Type
}

// DynamicLevel returns the current dynamic level.
func (m *Mapper) DynamicLevel() string {
	return m.dynamic.Level
}

// InTransition reports whether a crescendo or diminuendo is active.
func (m *Mapper) InTransition() bool {
	return m.dynamic.TransitionActive != ""
}

// CancelTransition stops any active transition without changing the level.
func (m *Mapper) CancelTransition() {
	m.dynamic.TransitionActive = ""
}
