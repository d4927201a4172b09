package roller

import (
	"context"
	"log"
	"sync"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/random"
	"google.golang.org/protobuf/types/known/structpb"
)

// Notifier issues tickets and accepts their results.
type Notifier interface {
	Register() notify.Ticket
	Submit(notify.Ticket, notify.Delivery) error
}

// Dispatcher runs each asynchronous roll on its own goroutine. There is no
// queue or pool, and a dispatched roll cannot be cancelled.
type Dispatcher struct {
	wg sync.WaitGroup
}

// Wait blocks until every dispatched roll has submitted its outcome.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// dispatch registers a ticket, then evaluates target on a new goroutine and
// submits exactly one delivery for that ticket. The goroutine owns gen and
// only reads target, which is immutable.
func dispatch[R any](
	ctx context.Context,
	d *Dispatcher,
	target Evaluable[R],
	gen random.Generator,
	keepGoing dice.KeepGoing,
	notifier Notifier,
	convert func(R) *structpb.ListValue,
) notify.Ticket {
	ticket := notifier.Register()

	// Keep trace linkage but not the caller's cancellation.
	ctx = context.WithoutCancel(ctx)
	kind := kindOf(target)
	inflightCounter.Add(ctx, 1)

	d.wg.Go(func() {
		defer inflightCounter.Add(ctx, -1)

		result, err := Evaluate(ctx, target, gen, keepGoing)
		recordRoll(ctx, modeAsync, kind, err)

		delivery := func() (*structpb.ListValue, error) {
			if err != nil {
				return nil, err
			}
			return convert(result), nil
		}
		if submitErr := notifier.Submit(ticket, delivery); submitErr != nil {
			log.Printf("submit roll ticket %d: %v", ticket, submitErr)
		}
	})
	return ticket
}
