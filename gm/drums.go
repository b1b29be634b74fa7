package gm

import (
	"fmt"
	"sort"
	"strings"
)

// DrumMap maps drum sound names to General MIDI note numbers on the
// percussion channel.
var DrumMap = map[string]uint8{
	// Bass drums
	"kick":  36,
	"kick2": 35,

	// Snares
	"snare":   38,
	"snare2":  40,
	"rimshot": 37,
	"clap":    39,

	// Hi-hats
	"hat":      42,
	"hihat":    42,
	"openhat":  46,
	"pedalhat": 44,

	// Cymbals
	"crash":    49,
	"crash2":   57,
	"ride":     51,
	"ride2":    59,
	"splash":   55,
	"china":    52,
	"ridebell": 53,

	// Toms
	"tom1":    48,
	"tom2":    47,
	"tom3":    45,
	"tom4":    43,
	"tom5":    41,
	"hightom": 50,
	"lowtom":  41,

	// Percussion
	"cowbell":    56,
	"tambourine": 54,
	"vibraslap":  58,
	"maracas":    70,
	"shaker":     82,
	"woodblock":  76,
	"woodblock2": 77,
	"cabasa":     69,
	"guiro":      73,
	"guiro2":     74,
	"claves":     75,
	"triangle":   81,
	"triangle2":  80,

	// Latin percussion
	"bongo":    60,
	"bongo2":   61,
	"conga":    62,
	"conga2":   63,
	"conga3":   64,
	"timbale":  65,
	"timbale2": 66,
	"agogo":    67,
	"agogo2":   68,

	// Additional percussion
	"whistle":  71,
	"whistle2": 72,
	"cuica":    78,
	"cuica2":   79,
	"bellcym":  83,
}

var percussionAliases = map[string]bool{
	"drums":      true,
	"percussion": true,
	"kit":        true,
	"drumkit":    true,
}

func lower(s string) string { return strings.ToLower(s) }

// DrumNote returns the GM note number for a drum name.
func DrumNote(name string) (uint8, error) {
	if n, ok := DrumMap[lower(name)]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown drum name %q (available: %v)", name, DrumNames())
}

// IsDrumName reports whether the drum name is known.
func IsDrumName(name string) bool {
	_, ok := DrumMap[lower(name)]
	return ok
}

// IsPercussion reports whether an instrument name refers to the drum kit.
// Percussion instruments play on MIDI channel 9 and resolve drum names
// instead of pitches.
func IsPercussion(instrumentName string) bool {
	return percussionAliases[lower(instrumentName)]
}

// DrumNames returns all known drum names, sorted.
func DrumNames() []string {
	names := make([]string, 0, len(DrumMap))
	for name := range DrumMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
