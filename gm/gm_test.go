package gm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramLookup(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(0), Program("piano"))
	assert.Equal(uint8(40), Program("violin"))
	assert.Equal(uint8(0), Program("theremin"), "unknown instruments fall back to piano")
}

func TestDrumNote(t *testing.T) {
	assert := assert.New(t)

	n, err := DrumNote("kick")
	assert.NoError(err)
	assert.Equal(uint8(36), n)

	n, err = DrumNote("SNARE")
	assert.NoError(err)
	assert.Equal(uint8(38), n, "lookups are case insensitive")

	_, err = DrumNote("gong")
	assert.Error(err)
}

func TestIsPercussion(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsPercussion("drums"))
	assert.True(IsPercussion("Drumkit"))
	assert.False(IsPercussion("piano"))
}
