package semantics

import (
	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/articulation"
	"github.com/scorelang/scorelang/constants"
)

// Pass 5: performance state. Every note is stamped with the velocity,
// articulation and dynamic level in force at its position. Articulation and
// dynamics are scoped with stacks: the base entry is the system default,
// then the composition default, then the instrument default for the voice,
// then voice-level events. A reset pops back to the enclosing scope's value
// and is a no-op at the base.

type dynEntry struct {
	level    string
	velocity int
}

type voiceState struct {
	artics        []string
	dyns          []dynEntry
	mapper        *articulation.Mapper
	pendingAccent string
}

func newVoiceState() *voiceState {
	return &voiceState{
		artics: []string{"natural"},
		dyns:   []dynEntry{{"mf", constants.VelocityMF}},
		mapper: articulation.NewMapper(),
	}
}

// pushDefaults enters a scope: the scope's articulation and dynamic level, if
// set, become the new stack tops. A transition default arms the mapper but is
// not a stack entry.
func (st *voiceState) pushDefaults(d ast.Defaults) {
	if d.Articulation != "" {
		st.mapper.ProcessArticulation(d.Articulation)
		st.artics = append(st.artics, d.Articulation)
	}
	if d.DynamicLevel != "" {
		st.mapper.ProcessDynamicLevel(d.DynamicLevel)
		st.dyns = append(st.dyns, dynEntry{d.DynamicLevel, articulation.LevelVelocity(d.DynamicLevel)})
	}
	if d.Transition != nil {
		st.mapper.ProcessDynamicTransition(d.Transition.Type, d.Transition.TargetLevel)
	}
}

func (a *Analyzer) trackState(comp *ast.Composition) *ast.Composition {
	out := &ast.Composition{
		Instruments: make(map[string]*ast.Instrument, len(comp.Instruments)),
		Order:       comp.Order,
		Defaults:    comp.Defaults,
	}
	for _, inst := range comp.InstrumentsInOrder() {
		voiceDefaults := make(map[int]ast.Defaults, len(inst.DefaultsSequence))
		for _, vd := range inst.DefaultsSequence {
			if _, seen := voiceDefaults[vd.Voice]; !seen {
				voiceDefaults[vd.Voice] = vd.Defaults
			}
		}

		ni := *inst
		ni.Voices = make(map[int][]ast.Event, len(inst.Voices))
		for _, num := range inst.VoiceOrder {
			st := newVoiceState()
			st.pushDefaults(comp.Defaults)
			st.pushDefaults(voiceDefaults[num])

			events := make([]ast.Event, len(inst.Voices[num]))
			for i, ev := range inst.Voices[num] {
				events[i] = st.apply(ev)
			}
			ni.Voices[num] = events
		}
		out.Instruments[ni.Name] = &ni
	}
	return out
}

func (st *voiceState) apply(ev ast.Event) ast.Event {
	switch e := ev.(type) {
	case *ast.Measure:
		nm := *e
		nm.Events = make([]ast.Event, len(e.Events))
		for i, inner := range e.Events {
			nm.Events[i] = st.apply(inner)
		}
		return &nm

	case *ast.Articulation:
		st.mapper.ProcessArticulation(e.Type)
		st.artics = append(st.artics, e.Type)
		return e

	case *ast.DynamicLevel:
		st.mapper.ProcessDynamicLevel(e.Level)
		st.dyns = append(st.dyns, dynEntry{e.Level, articulation.LevelVelocity(e.Level)})
		return e

	case *ast.DynamicTransition:
		st.mapper.ProcessDynamicTransition(e.Type, e.TargetLevel)
		return e

	case *ast.DynamicAccent:
		st.pendingAccent = e.Type
		return e

	case *ast.Reset:
		st.reset(e.Kind)
		return e

	case *ast.Note:
		return st.stampNote(e)

	case *ast.PercussionNote:
		np := *e
		np.Velocity = st.mapper.NoteVelocity(st.takeAccent())
		return &np

	case *ast.GraceNote:
		return &ast.GraceNote{Note: st.stampNote(e.Note)}

	case *ast.Tuplet:
		nt := *e
		nt.Notes = make([]*ast.Note, len(e.Notes))
		for i, n := range e.Notes {
			nt.Notes[i] = st.stampNote(n)
		}
		return &nt

	case *ast.Slide:
		ns := *e
		ns.FromNote = st.stampNote(e.FromNote)
		ns.ToNote = st.stampNote(e.ToNote)
		return &ns

	default:
		return ev
	}
}

func (st *voiceState) stampNote(n *ast.Note) *ast.Note {
	v := st.mapper.NoteVelocity(st.takeAccent())
	return n.WithState(v, st.mapper.Articulation(), st.mapper.DynamicLevel())
}

func (st *voiceState) takeAccent() string {
	accent := st.pendingAccent
	st.pendingAccent = ""
	return accent
}

func (st *voiceState) reset(kind ast.ResetKind) {
	switch kind {
	case ast.ResetArticulation:
		if len(st.artics) > 1 {
			st.artics = st.artics[:len(st.artics)-1]
		}
		st.mapper.ProcessArticulation(st.artics[len(st.artics)-1])
	case ast.ResetDynamic:
		if len(st.dyns) > 1 {
			st.dyns = st.dyns[:len(st.dyns)-1]
		}
		top := st.dyns[len(st.dyns)-1]
		st.mapper.SetDynamic(top.level, top.velocity)
	}
}
