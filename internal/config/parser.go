package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tran/internal/core"
)

// state is a position in the section/line scanner.
type state int

const (
	stateStart        state = iota // before the first section header
	stateBraceOpen                 // inside "[...]"
	stateBraceClosed               // right after ']'
	stateNewLine                   // at the start of a line
	stateText                      // inside a content line
)

// section identifies which [name] block content lines belong to.
type section int

const (
	sectionNone section = iota
	sectionMode
	sectionColors
	sectionTargetFiles
	sectionCurrentColor
	sectionOverwrite
)

var sectionNames = map[string]section{
	"mode":          sectionMode,
	"colors":        sectionColors,
	"target_files":  sectionTargetFiles,
	"current_color": sectionCurrentColor,
	"overwrite":     sectionOverwrite,
}

func (s section) String() string {
	for name, sec := range sectionNames {
		if sec == s {
			return name
		}
	}
	return "none"
}

// parser is a character-at-a-time state machine over the config text.
// Section content is interpreted as soon as a line completes, so the
// [mode] section has to appear before any color section.
type parser struct {
	state   state
	section section
	buf     strings.Builder
	line    int

	mode        Mode
	hasCurrent  bool
	weights     []uint
	targets     []string
	overwrite   bool
	gradCurrent core.Color
	gradColors  []core.Color
	mapCurrent  core.Row
	mapColors   []core.Row
}

// Parse turns config text into a *GradientConfig or *MapConfig.
// Parsing stops at the first error; no partial config is returned.
func Parse(text string) (Config, error) {
	p := &parser{line: 1}
	for i := 0; i < len(text); i++ {
		if err := p.step(text[i]); err != nil {
			return nil, err
		}
		if text[i] == '\n' {
			p.line++
		}
	}
	return p.finish()
}

func (p *parser) step(ch byte) error {
	switch p.state {
	case stateStart:
		return p.start(ch)
	case stateBraceOpen:
		return p.braceOpen(ch)
	case stateBraceClosed:
		return p.braceClosed(ch)
	case stateNewLine:
		return p.newLine(ch)
	case stateText:
		return p.text(ch)
	}
	panic(fmt.Sprintf("config: unknown parser state %d", p.state))
}

func (p *parser) start(ch byte) error {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return nil
	case '[':
		p.state = stateBraceOpen
		return nil
	}
	return p.errorf("expected '[' to open a section, found %q", ch)
}

func (p *parser) braceOpen(ch byte) error {
	switch ch {
	case ']':
		name := p.buf.String()
		p.buf.Reset()
		sec, ok := sectionNames[name]
		if !ok {
			return p.errorf("unknown section [%s]", name)
		}
		p.section = sec
		p.state = stateBraceClosed
		return nil
	case '\n':
		return p.errorf("section header is not closed with ']'")
	}
	p.buf.WriteByte(ch)
	return nil
}

func (p *parser) braceClosed(ch byte) error {
	if ch != '\n' {
		return p.errorf("expected newline after [%s], found %q", p.section, ch)
	}
	p.state = stateNewLine
	return nil
}

func (p *parser) newLine(ch byte) error {
	switch ch {
	case '[':
		p.state = stateBraceOpen
		return nil
	case '\n':
		return nil
	}
	p.buf.WriteByte(ch)
	p.state = stateText
	return nil
}

func (p *parser) text(ch byte) error {
	if ch != '\n' {
		p.buf.WriteByte(ch)
		return nil
	}
	line := p.buf.String()
	p.buf.Reset()
	p.state = stateNewLine
	return p.dispatch(line)
}

// finish flushes a trailing unterminated line and assembles the config.
func (p *parser) finish() (Config, error) {
	switch p.state {
	case stateStart:
		return nil, p.errorf("config is empty")
	case stateBraceOpen:
		return nil, p.errorf("section header is not closed with ']'")
	case stateText:
		line := p.buf.String()
		p.buf.Reset()
		if err := p.dispatch(line); err != nil {
			return nil, err
		}
	}

	switch p.mode {
	case ModeGradient:
		if len(p.gradColors) == 0 {
			return nil, p.errorf("missing [colors] section")
		}
		if !p.hasCurrent {
			p.gradCurrent = p.gradColors[0]
		}
		return &GradientConfig{
			CurrentColor: p.gradCurrent,
			Colors:       p.gradColors,
			Weights:      p.weights,
			TargetFiles:  p.targetList(),
			Overwrite:    p.overwrite,
		}, nil
	case ModeMap:
		if len(p.mapColors) == 0 {
			return nil, p.errorf("missing [colors] section")
		}
		if !p.hasCurrent {
			p.mapCurrent = p.mapColors[0]
		}
		return &MapConfig{
			CurrentColors: p.mapCurrent,
			Colors:        p.mapColors,
			Weights:       p.weights,
			TargetFiles:   p.targetList(),
			Overwrite:     p.overwrite,
		}, nil
	}
	return nil, p.errorf("missing [mode] section")
}

func (p *parser) targetList() []string {
	if p.targets == nil {
		return []string{}
	}
	return p.targets
}

// dispatch interprets one completed content line for the current section.
func (p *parser) dispatch(line string) error {
	switch p.section {
	case sectionMode:
		return p.parseMode(strings.TrimSpace(line))
	case sectionColors:
		if p.mode == "" {
			return p.errorf("mode must precede color sections")
		}
		return p.parseColors(strings.TrimSpace(line))
	case sectionCurrentColor:
		if p.mode == "" {
			return p.errorf("mode must precede color sections")
		}
		return p.parseCurrent(strings.TrimSpace(line))
	case sectionTargetFiles:
		p.targets = append(p.targets, line)
		return nil
	case sectionOverwrite:
		p.overwrite = strings.TrimSpace(line) == "true"
		return nil
	}
	return p.errorf("line outside of any section")
}

func (p *parser) parseMode(line string) error {
	if p.mode != "" {
		return p.errorf("mode is already set to %q", p.mode)
	}
	switch Mode(line) {
	case ModeGradient, ModeMap:
		p.mode = Mode(line)
		return nil
	}
	return p.errorf("unknown mode %q, expected %q or %q", line, ModeMap, ModeGradient)
}

func (p *parser) parseColors(line string) error {
	switch p.mode {
	case ModeGradient:
		weight, hex := uint(1), line
		if i := strings.IndexByte(line, '#'); i >= 0 {
			weight = parseWeight(line[:i])
			hex = line[i+1:]
		}
		c, err := core.ParseHex(hex)
		if err != nil {
			return p.hexError(err)
		}
		p.gradColors = append(p.gradColors, c)
		p.weights = append(p.weights, weight)
		return nil

	case ModeMap:
		tokens := strings.Split(line, "#")
		row, err := p.parseRow(tokens[1:])
		if err != nil {
			return err
		}
		p.mapColors = append(p.mapColors, row)
		p.weights = append(p.weights, parseWeight(tokens[0]))
		return nil
	}
	panic(fmt.Sprintf("config: unknown mode %q", p.mode))
}

func (p *parser) parseCurrent(line string) error {
	switch p.mode {
	case ModeGradient:
		c, err := core.ParseHex(line)
		if err != nil {
			return p.hexError(err)
		}
		p.gradCurrent = c

	case ModeMap:
		row, err := p.parseRow(strings.Split(line, "#"))
		if err != nil {
			return err
		}
		p.mapCurrent = row

	default:
		panic(fmt.Sprintf("config: unknown mode %q", p.mode))
	}
	p.hasCurrent = true
	return nil
}

// parseRow decodes every non-empty token as a hex color.
func (p *parser) parseRow(tokens []string) (core.Row, error) {
	var row core.Row
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		c, err := core.ParseHex(tok)
		if err != nil {
			return nil, p.hexError(err)
		}
		row = append(row, c)
	}
	if len(row) == 0 {
		return nil, p.errorf("color row is empty")
	}
	return row, nil
}

// parseWeight reads a selection weight; anything that is not a uint means 1.
func parseWeight(s string) uint {
	w, err := strconv.ParseUint(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return 1
	}
	return uint(w)
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", core.ErrConfig, p.line, fmt.Sprintf(format, args...))
}

// hexError reports a color decoding failure in the same layout as errorf.
func (p *parser) hexError(err error) error {
	var he *core.HexError
	if errors.As(err, &he) {
		return fmt.Errorf("%w: line %d: %w", core.ErrConfig, p.line, he)
	}
	return fmt.Errorf("%w: line %d: %w", core.ErrConfig, p.line, err)
}
