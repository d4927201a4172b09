package dice

import (
	"errors"
	"fmt"
	"strings"
)

// Parse limits keep every total well inside the range a float64 represents
// exactly, so results survive structured encodings without loss.
const (
	// MaxDice is the largest dice count accepted in one term.
	MaxDice = 1000
	// MaxSides is the largest die size accepted.
	MaxSides = 1_000_000
	// MaxConstant is the largest constant term magnitude accepted.
	MaxConstant = 1_000_000_000
)

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("invalid dice syntax")

// ParseError describes malformed source text.
type ParseError struct {
	Input  string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Unwrap returns ErrSyntax.
func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// ParseExpression parses text such as "2d6 + 1d4 - 2".
func ParseExpression(text string) (*Expression, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("expression is empty")
	}

	negative := false
	if c := p.peek(); c == '+' || c == '-' {
		negative = c == '-'
		p.pos++
	}

	var terms []*Term
	for {
		term, err := p.term(negative)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)

		p.skipSpace()
		if p.eof() {
			break
		}
		switch p.peek() {
		case '+':
			negative = false
		case '-':
			negative = true
		default:
			return nil, p.fail(fmt.Sprintf("expected '+' or '-', found %q", p.peek()))
		}
		p.pos++
	}

	return &Expression{terms: terms, source: strings.TrimSpace(text)}, nil
}

// ParseTerm parses exactly one unsigned term such as "3d8" or "4".
func ParseTerm(text string) (*Term, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("term is empty")
	}
	term, err := p.term(false)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.fail(fmt.Sprintf("unexpected %q after term", p.peek()))
	}
	return term, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) fail(reason string) *ParseError {
	return &ParseError{Input: p.src, Offset: p.pos, Reason: reason}
}

func (p *parser) term(negative bool) (*Term, error) {
	p.skipSpace()
	start := p.pos

	count, hasCount, err := p.integer()
	if err != nil {
		return nil, err
	}

	if c := p.peek(); c == 'd' || c == 'D' {
		p.pos++
		sidesAt := p.pos
		sides, hasSides, err := p.integer()
		if err != nil {
			return nil, err
		}
		if !hasSides {
			return nil, p.fail("die sides are missing")
		}
		if !hasCount {
			count = 1
		}
		if count < 1 || count > MaxDice {
			return nil, &ParseError{Input: p.src, Offset: start, Reason: fmt.Sprintf("dice count must be between 1 and %d", MaxDice)}
		}
		if sides < 1 || sides > MaxSides {
			return nil, &ParseError{Input: p.src, Offset: sidesAt, Reason: fmt.Sprintf("die sides must be between 1 and %d", MaxSides)}
		}
		return &Term{
			kind:     termDice,
			count:    int(count),
			sides:    int(sides),
			negative: negative,
			source:   p.src[start:p.pos],
		}, nil
	}

	if !hasCount {
		return nil, p.fail("expected a dice term or a number")
	}
	return &Term{
		kind:     termConstant,
		value:    count,
		negative: negative,
		source:   p.src[start:p.pos],
	}, nil
}

// integer reads a run of decimal digits. It reports false when no digit is
// present at the current position.
func (p *parser) integer() (int64, bool, error) {
	start := p.pos
	var value int64
	for !p.eof() {
		c := p.src[p.pos]
		if c < '0' || c > '9' {
			break
		}
		value = value*10 + int64(c-'0')
		if value > MaxConstant {
			return 0, false, &ParseError{Input: p.src, Offset: start, Reason: fmt.Sprintf("number exceeds %d", int64(MaxConstant))}
		}
		p.pos++
	}
	return value, p.pos > start, nil
}
