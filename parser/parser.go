// Package parser turns score source text into an AST composition.
//
// The source is organized as composition-scope directives followed by
// instrument blocks, each holding instrument-scope directives and numbered
// voice blocks. Directives in force at a scope boundary are injected into
// the voices that follow them, so every voice stream is self-contained.
package parser

import (
	"fmt"
	"strconv"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/constants"
)

type Parser struct {
	src  string
	pos  int
	line int

	// Duration inheritance: a note without an explicit duration reuses the
	// previous one. Reset at the start of each voice block.
	lastDuration int
	lastDotted   bool
}

// Parse parses a complete score.
func Parse(src string) (*ast.Composition, error) {
	p := &Parser{src: src, line: 1}
	return p.parseComposition()
}

// scope is the directive state carried across a scope boundary. Composition
// scope flows into instrument scope, which flows into each voice block.
type scope struct {
	tempo      *ast.Tempo
	timeSig    *ast.TimeSignature
	keySig     *ast.KeySignature
	pan        *ast.Pan
	artic      string
	dynLevel   string
	transition *ast.DynamicTransition
}

// set folds a scope-level event into the state. It returns false for events
// that make no sense outside a voice.
func (s *scope) set(ev ast.Event) bool {
	switch e := ev.(type) {
	case *ast.Tempo:
		s.tempo = e
	case *ast.TimeSignature:
		s.timeSig = e
	case *ast.KeySignature:
		s.keySig = e
	case *ast.Pan:
		s.pan = e
	case *ast.Articulation:
		s.artic = e.Type
	case *ast.DynamicLevel:
		s.dynLevel = e.Level
	case *ast.DynamicTransition:
		s.transition = e
	case *ast.Reset:
		if e.Kind == ast.ResetArticulation {
			s.artic = ""
		} else {
			s.dynLevel = ""
			s.transition = nil
		}
	default:
		return false
	}
	return true
}

// directiveEvents returns the timed-stream directives of the scope. These
// nodes are shared between every voice they are injected into; analysis
// passes copy nodes instead of mutating them for exactly this reason.
func (s *scope) directiveEvents() []ast.Event {
	var events []ast.Event
	if s.tempo != nil {
		events = append(events, s.tempo)
	}
	if s.timeSig != nil {
		events = append(events, s.timeSig)
	}
	if s.keySig != nil {
		events = append(events, s.keySig)
	}
	if s.pan != nil {
		events = append(events, s.pan)
	}
	return events
}

func (s *scope) defaults() ast.Defaults {
	d := ast.NewDefaults()
	if s.tempo != nil {
		d.Tempo = s.tempo.BPM
	}
	d.TimeSignature = s.timeSig
	d.KeySignature = s.keySig
	if s.pan != nil {
		d.Pan = s.pan.Position
	}
	d.Articulation = s.artic
	d.DynamicLevel = s.dynLevel
	d.Transition = s.transition
	return d
}

func (p *Parser) parseComposition() (*ast.Composition, error) {
	comp := &ast.Composition{
		Instruments: make(map[string]*ast.Instrument),
		Defaults:    ast.NewDefaults(),
	}
	var compScope scope
	sawInstrument := false

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		c := p.peek()
		switch {
		case c == '(' || c == ':' || c == '@':
			ev, err := p.parseScopeEvent()
			if err != nil {
				return nil, err
			}
			if !compScope.set(ev) {
				return nil, fmt.Errorf("line %d: event not allowed at composition scope", p.line)
			}
		case isLetter(c):
			name := p.parseWord()
			p.skipSpace()
			if err := p.expect('{'); err != nil {
				return nil, fmt.Errorf("line %d: expected '{' after instrument name %q", p.line, name)
			}
			if !sawInstrument {
				comp.Defaults = compScope.defaults()
				sawInstrument = true
			}
			if err := p.parseInstrument(comp, name, compScope); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected character %q", p.line, c)
		}
	}

	if !sawInstrument {
		comp.Defaults = compScope.defaults()
	}
	return comp, nil
}

func (p *Parser) parseInstrument(comp *ast.Composition, name string, compScope scope) error {
	inst := comp.Instruments[name]
	if inst == nil {
		inst = &ast.Instrument{Name: name, Voices: make(map[int][]ast.Event)}
		comp.Instruments[name] = inst
		comp.Order = append(comp.Order, name)
	}
	instScope := compScope

	for {
		p.skipSpace()
		if p.eof() {
			return fmt.Errorf("line %d: unterminated instrument block %q", p.line, name)
		}
		c := p.peek()
		switch {
		case c == '}':
			p.advance()
			return nil
		case p.voiceHeaderAhead():
			num, err := p.parseVoiceHeader()
			if err != nil {
				return err
			}
			inst.DefaultsSequence = append(inst.DefaultsSequence, ast.VoiceDefaults{
				Voice:    num,
				Defaults: instScope.defaults(),
			})
			if _, seen := inst.Voices[num]; !seen {
				inst.VoiceOrder = append(inst.VoiceOrder, num)
			}
			events, err := p.parseVoiceBody(countMeasures(inst.Voices[num]))
			if err != nil {
				return err
			}
			stream := append([]ast.Event{}, instScope.directiveEvents()...)
			inst.Voices[num] = append(inst.Voices[num], append(stream, events...)...)
		case c == '(' || c == ':' || c == '@':
			ev, err := p.parseScopeEvent()
			if err != nil {
				return err
			}
			if !instScope.set(ev) {
				return fmt.Errorf("line %d: event not allowed at instrument scope", p.line)
			}
		default:
			return fmt.Errorf("line %d: unexpected character %q in instrument %q", p.line, c, name)
		}
	}
}

// parseScopeEvent parses a directive, articulation or dynamic marking used
// at composition or instrument scope.
func (p *Parser) parseScopeEvent() (ast.Event, error) {
	switch p.peek() {
	case '(':
		return p.parseDirective()
	case ':':
		return p.parseArticulationEvent()
	default:
		return p.parseDynamicEvent()
	}
}

func (p *Parser) parseVoiceHeader() (int, error) {
	p.advance() // 'V'
	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}
	num, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid voice number", p.line)
	}
	if err := p.expect(':'); err != nil {
		return 0, err
	}
	return num, nil
}

func (p *Parser) voiceHeaderAhead() bool {
	i := p.pos
	if i >= len(p.src) || (p.src[i] != 'V' && p.src[i] != 'v') {
		return false
	}
	i++
	start := i
	for i < len(p.src) && isDigit(p.src[i]) {
		i++
	}
	return i > start && i < len(p.src) && p.src[i] == ':'
}

func countMeasures(events []ast.Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(*ast.Measure); ok {
			n++
		}
	}
	return n
}

// parseVoiceBody reads events until ';', the next voice header, or the
// closing '}'. Bar lines close measures; a trailing unbarred run becomes a
// final measure.
func (p *Parser) parseVoiceBody(measuresSoFar int) ([]ast.Event, error) {
	p.lastDuration = constants.DefaultDuration
	p.lastDotted = false

	var out []ast.Event
	var current []ast.Event
	number := measuresSoFar
	openLine := p.line

	flush := func() {
		if len(current) == 0 {
			return
		}
		number++
		out = append(out, &ast.Measure{Events: current, Number: number, Line: openLine})
		current = nil
	}

	for {
		p.skipSpace()
		if p.eof() {
			flush()
			return out, nil
		}
		switch c := p.peek(); {
		case c == ';':
			p.advance()
			flush()
			return out, nil
		case c == '}':
			flush()
			return out, nil
		case p.voiceHeaderAhead():
			flush()
			return out, nil
		case c == '|':
			p.advance()
			flush()
			continue
		default:
			if len(current) == 0 {
				openLine = p.line
			}
			ev, err := p.parseVoiceEvent()
			if err != nil {
				return nil, err
			}
			current = append(current, ev)
		}
	}
}

// --- low level scanning ---

func (p *Parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *Parser) peek() byte {
	return p.src[p.pos]
}

func (p *Parser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *Parser) expect(c byte) error {
	if p.eof() || p.peek() != c {
		return fmt.Errorf("line %d: expected %q", p.line, string(c))
	}
	p.advance()
	return nil
}

// skipSpace consumes whitespace and '#' line comments.
func (p *Parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.advance()
			continue
		}
		if c == '#' {
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
			continue
		}
		return
	}
}

func (p *Parser) parseWord() string {
	start := p.pos
	for !p.eof() && isWordChar(p.peek()) {
		p.advance()
	}
	return p.src[start:p.pos]
}

func (p *Parser) parseInt() (int, error) {
	start := p.pos
	if !p.eof() && p.peek() == '-' {
		p.advance()
	}
	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("line %d: expected a number", p.line)
	}
	return n, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c)
}
