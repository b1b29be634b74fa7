package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scorelang/scorelang/ast"
	"github.com/scorelang/scorelang/gm"
)

var articulations = map[string]bool{
	"legato": true, "staccato": true, "tenuto": true, "marcato": true, "natural": true,
}

var dynamicLevels = map[string]bool{
	"pp": true, "p": true, "mp": true, "mf": true, "f": true, "ff": true,
}

func (p *Parser) parseVoiceEvent() (ast.Event, error) {
	line := p.line
	switch c := p.peek(); {
	case c == '(':
		return p.parseParen()

	case c == '<':
		return p.parseSlide()

	case c == '~':
		p.advance()
		note, err := p.parseNoteEvent()
		if err != nil {
			return nil, err
		}
		return &ast.GraceNote{Note: note}, nil

	case c == ':':
		return p.parseArticulationEvent()

	case c == '@':
		return p.parseDynamicEvent()

	case c == '%':
		return p.parseOrnamentEvent()

	case isLetter(c):
		word := strings.ToLower(p.parseWord())
		if word == "r" {
			duration, dotted, err := p.parseDuration()
			if err != nil {
				return nil, err
			}
			return &ast.Rest{Duration: duration, Dotted: dotted, Line: line}, nil
		}
		if isNoteWord(word) {
			return p.parseNoteFromWord(word, line)
		}
		if !gm.IsDrumName(word) {
			return nil, fmt.Errorf("line %d: unknown note or drum name %q", line, word)
		}
		duration, dotted, err := p.parseDuration()
		if err != nil {
			return nil, err
		}
		return &ast.PercussionNote{DrumSound: word, Duration: duration, Dotted: dotted, Line: line}, nil

	default:
		return nil, fmt.Errorf("line %d: unexpected character %q", line, c)
	}
}

// parseNoteEvent parses one note (or chord) starting at a word.
func (p *Parser) parseNoteEvent() (*ast.Note, error) {
	p.skipSpace()
	line := p.line
	word := strings.ToLower(p.parseWord())
	if !isNoteWord(word) {
		return nil, fmt.Errorf("line %d: expected a note, got %q", line, word)
	}
	return p.parseNoteFromWord(word, line)
}

// parseNoteFromWord parses the rest of a note whose pitch word was already
// consumed: optional accidental and duration, plus comma-joined chord
// pitches. The last explicit duration wins for the whole chord.
func (p *Parser) parseNoteFromWord(word string, line int) (*ast.Note, error) {
	pitch, err := p.pitch(word)
	if err != nil {
		return nil, err
	}
	pitches := []ast.Pitch{pitch}

	duration, dotted := p.lastDuration, p.lastDotted
	explicit := false
	if d, dt, ok, err := p.tryParseDuration(); err != nil {
		return nil, err
	} else if ok {
		duration, dotted, explicit = d, dt, true
	}

	for !p.eof() && p.peek() == ',' {
		p.advance()
		p.skipSpace()
		w := strings.ToLower(p.parseWord())
		if !isNoteWord(w) {
			return nil, fmt.Errorf("line %d: expected a note after ',', got %q", p.line, w)
		}
		next, err := p.pitch(w)
		if err != nil {
			return nil, err
		}
		pitches = append(pitches, next)
		if d, dt, ok, err := p.tryParseDuration(); err != nil {
			return nil, err
		} else if ok {
			duration, dotted, explicit = d, dt, true
		}
	}

	if explicit {
		p.lastDuration, p.lastDotted = duration, dotted
	}
	return &ast.Note{Pitches: pitches, Duration: duration, Dotted: dotted, Line: line}, nil
}

func (p *Parser) pitch(word string) (ast.Pitch, error) {
	if !isNoteWord(word) {
		return ast.Pitch{}, fmt.Errorf("line %d: invalid note %q", p.line, word)
	}
	octave, err := strconv.Atoi(word[1:])
	if err != nil {
		return ast.Pitch{}, fmt.Errorf("line %d: invalid octave in %q", p.line, word)
	}
	pitch := ast.Pitch{Class: word[:1], Octave: octave}
	if !p.eof() {
		switch p.peek() {
		case '+':
			p.advance()
			pitch.Accidental = ast.Sharp
		case '-':
			p.advance()
			pitch.Accidental = ast.Flat
		case '=':
			p.advance()
			pitch.Accidental = ast.Natural
		}
	}
	return pitch, nil
}

// isNoteWord reports whether a word is a pitch: one letter a-g followed by
// an octave number. Anything else inside a voice is a drum name.
func isNoteWord(w string) bool {
	if len(w) < 2 || w[0] < 'a' || w[0] > 'g' {
		return false
	}
	for i := 1; i < len(w); i++ {
		if !isDigit(w[i]) {
			return false
		}
	}
	return true
}

// parseDuration returns the explicit duration if present, otherwise the
// inherited one. Explicit durations become the new inherited value.
func (p *Parser) parseDuration() (int, bool, error) {
	d, dt, ok, err := p.tryParseDuration()
	if err != nil {
		return 0, false, err
	}
	if ok {
		p.lastDuration, p.lastDotted = d, dt
		return d, dt, nil
	}
	return p.lastDuration, p.lastDotted, nil
}

func (p *Parser) tryParseDuration() (int, bool, bool, error) {
	if p.eof() || p.peek() != '/' {
		return 0, false, false, nil
	}
	p.advance()
	d, err := p.parseInt()
	if err != nil {
		return 0, false, false, fmt.Errorf("line %d: expected a duration after '/'", p.line)
	}
	dotted := false
	if !p.eof() && p.peek() == '.' {
		p.advance()
		dotted = true
	}
	return d, dotted, true, nil
}

// parseParen distinguishes directives from tuplets: both open with '('.
func (p *Parser) parseParen() (ast.Event, error) {
	line := p.line
	p.advance() // '('
	p.skipSpace()

	savePos, saveLine := p.pos, p.line
	word := strings.ToLower(p.parseWord())
	switch word {
	case "tempo", "time", "key", "pan":
		if !p.eof() && p.peek() == '!' {
			p.advance()
		}
		return p.parseDirectiveBody(word, line)
	}
	p.pos, p.line = savePos, saveLine
	return p.parseTupletBody(line)
}

// parseDirective parses a directive at composition or instrument scope,
// where tuplets are not allowed.
func (p *Parser) parseDirective() (ast.Event, error) {
	line := p.line
	p.advance() // '('
	p.skipSpace()
	word := strings.ToLower(p.parseWord())
	switch word {
	case "tempo", "time", "key", "pan":
		if !p.eof() && p.peek() == '!' {
			p.advance()
		}
		return p.parseDirectiveBody(word, line)
	}
	return nil, fmt.Errorf("line %d: unknown directive %q", line, word)
}

func (p *Parser) parseDirectiveBody(word string, line int) (ast.Event, error) {
	switch word {
	case "tempo":
		p.skipSpace()
		bpm, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.closeParen(); err != nil {
			return nil, err
		}
		return &ast.Tempo{BPM: bpm, Line: line}, nil

	case "time":
		p.skipSpace()
		num, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		den, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.closeParen(); err != nil {
			return nil, err
		}
		return &ast.TimeSignature{Numerator: num, Denominator: den, Line: line}, nil

	case "key":
		return p.parseKeyBody(line)

	default: // pan
		p.skipSpace()
		pos, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.closeParen(); err != nil {
			return nil, err
		}
		return &ast.Pan{Position: pos}, nil
	}
}

func (p *Parser) parseKeyBody(line int) (ast.Event, error) {
	p.skipSpace()
	root := strings.ToLower(p.parseWord())
	if len(root) != 1 || root[0] < 'a' || root[0] > 'g' {
		return nil, fmt.Errorf("line %d: invalid key root %q", line, root)
	}
	accidental := ast.NoAccidental
	if !p.eof() {
		switch p.peek() {
		case '+':
			p.advance()
			accidental = ast.Sharp
		case '-':
			p.advance()
			accidental = ast.Flat
		}
	}
	p.skipSpace()
	if !p.eof() && p.peek() == '\'' {
		p.advance()
	}
	mode := strings.ToLower(p.parseWord())
	if mode != "major" && mode != "minor" {
		return nil, fmt.Errorf("line %d: key mode must be major or minor, got %q", line, mode)
	}
	if err := p.closeParen(); err != nil {
		return nil, err
	}
	return &ast.KeySignature{Root: root, Mode: mode, Accidental: accidental}, nil
}

func (p *Parser) closeParen() error {
	p.skipSpace()
	return p.expect(')')
}

// parseTupletBody parses "(note note ...):ratio". The tuplet occupies the
// span of the written duration times the nearest power of two below the
// ratio, so a triplet of eighths fills one quarter.
func (p *Parser) parseTupletBody(line int) (ast.Event, error) {
	var notes []*ast.Note
	for {
		p.skipSpace()
		if p.eof() {
			return nil, fmt.Errorf("line %d: unterminated tuplet", line)
		}
		if p.peek() == ')' {
			p.advance()
			break
		}
		note, err := p.parseNoteEvent()
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := p.expect(':'); err != nil {
		return nil, fmt.Errorf("line %d: tuplet needs a ':ratio' suffix", p.line)
	}
	ratio, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("line %d: empty tuplet", line)
	}

	actual := notes[0].Duration / powerOfTwoBelow(ratio)
	if actual < 1 {
		actual = 1
	}
	return &ast.Tuplet{Notes: notes, Ratio: ratio, ActualDuration: actual, Line: line}, nil
}

func powerOfTwoBelow(n int) int {
	pow := 1
	for pow*2 < n {
		pow *= 2
	}
	return pow
}

// parseSlide parses "<[style:] note note>".
func (p *Parser) parseSlide() (ast.Event, error) {
	line := p.line
	p.advance() // '<'
	p.skipSpace()

	style := ast.SlideChromatic
	savePos, saveLine := p.pos, p.line
	word := strings.ToLower(p.parseWord())
	if !p.eof() && p.peek() == ':' {
		switch word {
		case "stepped":
			style = ast.SlideStepped
			p.advance()
		case "portamento":
			style = ast.SlidePortamento
			p.advance()
		case "chromatic":
			p.advance()
		default:
			return nil, fmt.Errorf("line %d: unknown slide style %q", line, word)
		}
	} else {
		p.pos, p.line = savePos, saveLine
	}

	from, err := p.parseNoteEvent()
	if err != nil {
		return nil, err
	}
	to, err := p.parseNoteEvent()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if err := p.expect('>'); err != nil {
		return nil, fmt.Errorf("line %d: unterminated slide", line)
	}
	return &ast.Slide{FromNote: from, ToNote: to, Style: style, Line: line}, nil
}

func (p *Parser) parseArticulationEvent() (ast.Event, error) {
	line := p.line
	p.advance() // ':'
	word := strings.ToLower(p.parseWord())
	if word == "reset" {
		return &ast.Reset{Kind: ast.ResetArticulation}, nil
	}
	if !articulations[word] {
		return nil, fmt.Errorf("line %d: unknown articulation %q", line, word)
	}
	return &ast.Articulation{Type: word}, nil
}

func (p *Parser) parseDynamicEvent() (ast.Event, error) {
	line := p.line
	p.advance() // '@'
	word := strings.ToLower(p.parseWord())

	switch {
	case word == "reset":
		return &ast.Reset{Kind: ast.ResetDynamic}, nil

	case dynamicLevels[word]:
		return &ast.DynamicLevel{Level: word}, nil

	case word == "crescendo" || word == "cresc":
		return p.parseTransition("crescendo")
	case word == "diminuendo" || word == "decresc" || word == "dim":
		return p.parseTransition("diminuendo")

	case word == "sforzando" || word == "sfz" || word == "sf":
		return &ast.DynamicAccent{Type: "sforzando"}, nil
	case word == "marcato":
		return &ast.DynamicAccent{Type: "marcato"}, nil
	case word == "fp":
		return &ast.DynamicAccent{Type: "forte-piano"}, nil
	case word == "forte" && !p.eof() && p.peek() == '-':
		p.advance()
		if strings.ToLower(p.parseWord()) != "piano" {
			return nil, fmt.Errorf("line %d: unknown dynamic marking", line)
		}
		return &ast.DynamicAccent{Type: "forte-piano"}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown dynamic marking %q", line, word)
	}
}

// parseTransition reads an optional explicit target level: "@crescendo(ff)".
func (p *Parser) parseTransition(kind string) (ast.Event, error) {
	target := ""
	if !p.eof() && p.peek() == '(' {
		p.advance()
		p.skipSpace()
		target = strings.ToLower(p.parseWord())
		if !dynamicLevels[target] {
			return nil, fmt.Errorf("line %d: unknown dynamic level %q", p.line, target)
		}
		if err := p.closeParen(); err != nil {
			return nil, err
		}
	}
	return &ast.DynamicTransition{Type: kind, TargetLevel: target}, nil
}

func (p *Parser) parseOrnamentEvent() (ast.Event, error) {
	line := p.line
	p.advance() // '%'
	word := strings.ToLower(p.parseWord())
	switch word {
	case "tr":
		return &ast.Ornament{Type: "trill", Line: line}, nil
	case "trill", "mordent", "turn":
		return &ast.Ornament{Type: word, Line: line}, nil
	case "tremolo":
		return &ast.Tremolo{Line: line}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown ornament %q", line, word)
	}
}
