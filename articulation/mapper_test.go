package articulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreNaturalMF(t *testing.T) {
	m := NewMapper()

	assert := assert.New(t)
	assert.Equal("natural", m.Articulation())
	assert.Equal("mf", m.DynamicLevel())
	assert.Equal(85, m.NoteVelocity(""))
	assert.Equal(441, m.NoteDuration(480))
}

func TestStaccatoShortensNotes(t *testing.T) {
	m := NewMapper()
	m.ProcessArticulation("staccato")

	assert := assert.New(t)
	assert.Equal(264, m.NoteDuration(480))
	assert.False(m.IsLegato())
}

func TestLegatoKeepsFullDuration(t *testing.T) {
	m := NewMapper()
	m.ProcessArticulation("legato")

	assert := assert.New(t)
	assert.Equal(480, m.NoteDuration(480))
	assert.True(m.IsLegato())
}

func TestUnknownArticulationIsIgnored(t *testing.T) {
	m := NewMapper()
	m.ProcessArticulation("spiccato")

	assert.Equal(t, "natural", m.Articulation())
}

func TestDynamicLevels(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicLevel("pp")
	assert.Equal(t, 40, m.NoteVelocity(""))

	m.ProcessDynamicLevel("ff")
	assert.Equal(t, 115, m.NoteVelocity(""))
}

func TestAccentBoostIsOneShot(t *testing.T) {
	m := NewMapper()

	assert := assert.New(t)
	assert.Equal(105, m.NoteVelocity("sforzando"))
	assert.Equal(85, m.NoteVelocity(""), "boost applies to one note only")
	assert.Equal(115, m.NoteVelocity("marcato"))
	assert.Equal(120, m.NoteVelocity("forte-piano"))
}

func TestAccentNeverExceedsMIDIRange(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicLevel("ff")

	assert.Equal(t, 127, m.NoteVelocity("forte-piano"))
}

func TestCrescendoStepsMonotonically(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicLevel("p")
	m.ProcessDynamicTransition("crescendo", "")

	assert := assert.New(t)
	prev := 55
	for i := 0; i < 20; i++ {
		v := m.NoteVelocity("")
		assert.GreaterOrEqual(v, prev)
		assert.LessOrEqual(v, 115, "never overshoots the ff target")
		prev = v
	}
	assert.Equal(115, prev, "crescendo without a target lands on ff")
}

func TestDiminuendoTowardExplicitTarget(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicTransition("diminuendo", "mp")

	assert := assert.New(t)
	prev := 85
	for i := 0; i < 10; i++ {
		v := m.NoteVelocity("")
		assert.LessOrEqual(v, prev)
		assert.GreaterOrEqual(v, 70)
		prev = v
	}
	assert.Equal(70, prev)
}

func TestDecrescAliasesDiminuendo(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicTransition("decresc", "")
	m.NoteVelocity("")

	assert.True(t, m.InTransition())
	assert.Less(t, m.NoteVelocity(""), 85)
}

func TestExplicitLevelCancelsTransition(t *testing.T) {
	m := NewMapper()
	m.ProcessDynamicTransition("crescendo", "")
	m.NoteVelocity("")
	m.ProcessDynamicLevel("mp")

	assert := assert.New(t)
	assert.False(m.InTransition())
	assert.Equal(70, m.NoteVelocity(""))
}

func TestResetRestoresOneSideOnly(t *testing.T) {
	m := NewMapper()
	m.ProcessArticulation("staccato")
	m.ProcessDynamicLevel("ff")

	m.ProcessReset("articulation")
	assert := assert.New(t)
	assert.Equal("natural", m.Articulation())
	assert.Equal(115, m.NoteVelocity(""))

	m.ProcessReset("dynamic")
	assert.Equal("mf", m.DynamicLevel())
	assert.Equal(85, m.NoteVelocity(""))
}

func TestDurationPercentLookup(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(55, DurationPercent("staccato"))
	assert.Equal(100, DurationPercent("tenuto"))
	assert.Equal(92, DurationPercent(""))
}
