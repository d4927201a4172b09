// Package dice parses and evaluates dice-roll expressions.
//
// An expression is a sequence of terms joined by '+' or '-', for example
// "3d6 + 2d4 - 1". A term is either a dice group ("NdS", or "dS" for a single
// die) or an integer constant. Parsed expressions and terms are immutable and
// may be shared across goroutines and evaluated any number of times.
package dice

import (
	"errors"
	"fmt"
)

// ErrHalted indicates the caller's KeepGoing predicate stopped evaluation.
var ErrHalted = errors.New("evaluation halted by caller")

// ErrMissingRoller indicates evaluation was attempted without a roller.
var ErrMissingRoller = errors.New("a roller is required")

// Roller produces individual die values. Implementations return a value in
// [1, sides] for any positive sides.
type Roller interface {
	Roll(sides int) int64
}

// EvaluationError reports why a parsed expression or term could not be
// evaluated. No partial result accompanies it.
type EvaluationError struct {
	Source string
	Cause  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

type termKind int

const (
	termDice termKind = iota
	termConstant
)

// Term is a single dice group or constant.
type Term struct {
	kind     termKind
	count    int
	sides    int
	value    int64
	negative bool
	source   string
}

// Expression is an ordered sequence of terms.
type Expression struct {
	terms  []*Term
	source string
}

// TermResult captures the outcome of evaluating one term.
type TermResult struct {
	// Total is the sum of Rolls, or the constant value, negated for
	// subtracted terms.
	Total int64
	// Rolls holds each die value in the order it was rolled. It is empty for
	// constant terms.
	Rolls []int64
}

// ExpressionResult holds one TermResult per term, in source order.
type ExpressionResult []TermResult

// Total returns the sum of every term total.
func (r ExpressionResult) Total() int64 {
	var total int64
	for _, term := range r {
		total += term.Total
	}
	return total
}

// String returns the source text of the term.
func (t *Term) String() string {
	return t.source
}

// Dice reports the number of dice the term rolls; zero for constants.
func (t *Term) Dice() int {
	if t.kind != termDice {
		return 0
	}
	return t.count
}

// Sides reports the die size; zero for constants.
func (t *Term) Sides() int {
	if t.kind != termDice {
		return 0
	}
	return t.sides
}

// Negative reports whether the term is subtracted.
func (t *Term) Negative() bool {
	return t.negative
}

// String returns the source text of the expression.
func (e *Expression) String() string {
	return e.source
}

// Len returns the number of top-level terms.
func (e *Expression) Len() int {
	return len(e.terms)
}

// Term returns the i-th term.
func (e *Expression) Term(i int) *Term {
	return e.terms[i]
}

// Evaluate rolls every term of the expression with roller.
//
// # Ordering
//
// Terms are evaluated in source order and their results appear in the same
// order in the returned ExpressionResult. Within a term, Rolls keeps the
// order the dice were rolled.
//
// # Continuation
//
// keepGoing is consulted once before each term and once before each die. A
// false answer aborts evaluation with an *EvaluationError wrapping
// ErrHalted. A nil keepGoing never halts.
func (e *Expression) Evaluate(keepGoing KeepGoing, roller Roller) (ExpressionResult, error) {
	if roller == nil {
		return nil, &EvaluationError{Source: e.source, Cause: ErrMissingRoller}
	}
	if keepGoing == nil {
		keepGoing = Always()
	}

	results := make(ExpressionResult, 0, len(e.terms))
	for _, term := range e.terms {
		result, err := term.evaluate(keepGoing, roller)
		if err != nil {
			return nil, &EvaluationError{Source: e.source, Cause: err}
		}
		results = append(results, result)
	}
	return results, nil
}

// Evaluate rolls the term with roller. keepGoing follows the same rules as
// Expression.Evaluate.
func (t *Term) Evaluate(keepGoing KeepGoing, roller Roller) (TermResult, error) {
	if roller == nil {
		return TermResult{}, &EvaluationError{Source: t.source, Cause: ErrMissingRoller}
	}
	if keepGoing == nil {
		keepGoing = Always()
	}

	result, err := t.evaluate(keepGoing, roller)
	if err != nil {
		return TermResult{}, &EvaluationError{Source: t.source, Cause: err}
	}
	return result, nil
}

func (t *Term) evaluate(keepGoing KeepGoing, roller Roller) (TermResult, error) {
	if !keepGoing() {
		return TermResult{}, ErrHalted
	}

	var result TermResult
	switch t.kind {
	case termConstant:
		result = TermResult{Total: t.value, Rolls: []int64{}}
	default:
		rolls := make([]int64, t.count)
		var total int64
		for i := range rolls {
			if !keepGoing() {
				return TermResult{}, ErrHalted
			}
			value := roller.Roll(t.sides)
			rolls[i] = value
			total += value
		}
		result = TermResult{Total: total, Rolls: rolls}
	}

	if t.negative {
		result.Total = -result.Total
	}
	return result, nil
}
