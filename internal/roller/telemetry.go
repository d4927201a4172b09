package roller

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/louisbranch/diceroll/internal/roller"

const (
	modeSync  = "sync"
	modeAsync = "async"

	kindExpression = "expression"
	kindTerm       = "term"
)

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	rollCounter     = newRollCounter()
	inflightCounter = newInflightCounter()
)

func newRollCounter() metric.Int64Counter {
	counter, err := meter.Int64Counter("diceroll.rolls",
		metric.WithDescription("Completed roll evaluations."),
		metric.WithUnit("{roll}"),
	)
	if err != nil {
		otel.Handle(err)
		counter, _ = noop.Meter{}.Int64Counter("diceroll.rolls")
	}
	return counter
}

func newInflightCounter() metric.Int64UpDownCounter {
	counter, err := meter.Int64UpDownCounter("diceroll.async.inflight",
		metric.WithDescription("Asynchronous rolls dispatched but not yet submitted."),
		metric.WithUnit("{roll}"),
	)
	if err != nil {
		otel.Handle(err)
		counter, _ = noop.Meter{}.Int64UpDownCounter("diceroll.async.inflight")
	}
	return counter
}

func recordRoll(ctx context.Context, mode, kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	rollCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}
