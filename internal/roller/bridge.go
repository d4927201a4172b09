// Package roller evaluates parsed dice expressions and terms for a session,
// either on the caller's goroutine or on a dedicated goroutine whose outcome
// is delivered through a notifier ticket.
package roller

import (
	"context"
	"errors"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrMissingTarget indicates a roll was requested without a parsed expression or term.
	ErrMissingTarget = errors.New("expression or term is required")
	// ErrMissingNotifier indicates an asynchronous roll was requested without a notifier.
	ErrMissingNotifier = errors.New("notifier is required")
	// ErrInvalidGenerator indicates a zero-value generator was supplied.
	ErrInvalidGenerator = errors.New("generator was not derived from a seed source")
)

// Evaluable is a parsed dice structure. *dice.Expression and *dice.Term
// implement it.
type Evaluable[R any] interface {
	Evaluate(dice.KeepGoing, dice.Roller) (R, error)
	String() string
}

// Evaluate runs target with gen, forwarding keepGoing untouched. Evaluator
// failures are returned as-is and never retried.
func Evaluate[R any](ctx context.Context, target Evaluable[R], gen random.Generator, keepGoing dice.KeepGoing) (R, error) {
	var zero R
	if !gen.Valid() {
		return zero, ErrInvalidGenerator
	}

	_, span := tracer.Start(ctx, "diceroll.evaluate", trace.WithAttributes(
		attribute.String("dice.kind", kindOf(target)),
		attribute.String("dice.source", target.String()),
	))
	defer span.End()

	result, err := target.Evaluate(keepGoing, gen)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return zero, err
	}
	return result, nil
}

func kindOf(target any) string {
	switch target.(type) {
	case *dice.Term:
		return kindTerm
	default:
		return kindExpression
	}
}
