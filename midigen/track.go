package midigen

import (
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// trackBuffer collects messages at absolute float tick positions and turns
// them into a delta-encoded SMF track. Events are kept in insertion order
// within the same tick, so a note-off added before a simultaneous note-on
// stays before it.
type trackBuffer struct {
	events []absEvent
}

// absEvent holds the raw message bytes so channel and meta messages flow
// through the same buffer.
type absEvent struct {
	tick int64
	msg  []byte
}

// add rounds the absolute position to the nearest tick. Rounding absolute
// positions rather than deltas keeps tuplet fractional ticks from drifting.
func (b *trackBuffer) add(tick float64, msg []byte) {
	t := int64(math.Round(tick))
	if t < 0 {
		t = 0
	}
	b.events = append(b.events, absEvent{tick: t, msg: msg})
}

func (b *trackBuffer) track() smf.Track {
	sort.SliceStable(b.events, func(i, j int) bool {
		return b.events[i].tick < b.events[j].tick
	})

	var tr smf.Track
	var last int64
	for _, ev := range b.events {
		tr.Add(uint32(ev.tick-last), ev.msg)
		last = ev.tick
	}
	tr.Close(0)
	return tr
}
