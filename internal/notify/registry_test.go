package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/structpb"
)

func listOf(values ...float64) *structpb.ListValue {
	list := &structpb.ListValue{}
	for _, value := range values {
		list.Values = append(list.Values, structpb.NewNumberValue(value))
	}
	return list
}

func deliver(list *structpb.ListValue) Delivery {
	return func() (*structpb.ListValue, error) { return list, nil }
}

func TestRegisterIssuesDistinctTickets(t *testing.T) {
	registry := NewRegistry(0)
	first := registry.Register()
	second := registry.Register()
	if first != 1 || second != 2 {
		t.Fatalf("expected tickets 1 and 2, got %d and %d", first, second)
	}
	if registry.Pending() != 2 {
		t.Fatalf("expected 2 pending tickets, got %d", registry.Pending())
	}
}

func TestSubmitRejectsUnknownAndDuplicateTickets(t *testing.T) {
	registry := NewRegistry(0)
	if err := registry.Submit(99, deliver(listOf(1))); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("Submit error = %v, want %v", err, ErrUnknownTicket)
	}

	ticket := registry.Register()
	if err := registry.Submit(ticket, nil); !errors.Is(err, ErrNilDelivery) {
		t.Fatalf("Submit error = %v, want %v", err, ErrNilDelivery)
	}
	if err := registry.Submit(ticket, deliver(listOf(1))); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := registry.Submit(ticket, deliver(listOf(2))); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("Submit error = %v, want %v", err, ErrAlreadySubmitted)
	}
}

func TestAwaitBlocksUntilSubmit(t *testing.T) {
	registry := NewRegistry(0)
	ticket := registry.Register()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = registry.Submit(ticket, deliver(listOf(4, 2)))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	value, err := registry.Await(ctx, ticket)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if len(value.GetValues()) != 2 || value.GetValues()[0].GetNumberValue() != 4 {
		t.Fatalf("unexpected value: %v", value)
	}
	if registry.Pending() != 0 {
		t.Fatalf("expected ticket to be consumed, %d pending", registry.Pending())
	}
	if _, err := registry.Await(ctx, ticket); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("second Await error = %v, want %v", err, ErrUnknownTicket)
	}
}

func TestAwaitHonorsContext(t *testing.T) {
	registry := NewRegistry(0)
	ticket := registry.Register()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := registry.Await(ctx, ticket); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Await error = %v, want %v", err, context.DeadlineExceeded)
	}
	if registry.Pending() != 1 {
		t.Fatal("expected ticket to remain pending after a timed out await")
	}
}

// TestDeliveryRunsWhenObserved ensures conversion is deferred to the observer.
func TestDeliveryRunsWhenObserved(t *testing.T) {
	registry := NewRegistry(0)
	ticket := registry.Register()

	var calls atomic.Int32
	failure := errors.New("boom")
	err := registry.Submit(ticket, func() (*structpb.ListValue, error) {
		calls.Add(1)
		return nil, failure
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("expected delivery to wait for the observer")
	}

	value, ready, err := registry.Poll(ticket)
	if !ready {
		t.Fatal("expected result to be ready")
	}
	if !errors.Is(err, failure) || value != nil {
		t.Fatalf("Poll = (%v, %v), want failure only", value, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one delivery call, got %d", calls.Load())
	}
}

func TestPollReportsNotReady(t *testing.T) {
	registry := NewRegistry(0)
	ticket := registry.Register()

	value, ready, err := registry.Poll(ticket)
	if err != nil || ready || value != nil {
		t.Fatalf("Poll = (%v, %v, %v), want not ready", value, ready, err)
	}
	if _, _, err := registry.Poll(ticket + 1); !errors.Is(err, ErrUnknownTicket) {
		t.Fatalf("Poll error = %v, want %v", err, ErrUnknownTicket)
	}
}

func TestReadyReceivesSubmittedTickets(t *testing.T) {
	registry := NewRegistry(1)
	first := registry.Register()
	second := registry.Register()

	if err := registry.Submit(second, deliver(listOf(2))); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// Buffer is full: the wake-up is dropped but the result is kept.
	if err := registry.Submit(first, deliver(listOf(1))); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case got := <-registry.Ready():
		if got != second {
			t.Fatalf("ready ticket = %d, want %d", got, second)
		}
	default:
		t.Fatal("expected a ready ticket")
	}

	value, ready, err := registry.Poll(first)
	if err != nil || !ready || value.GetValues()[0].GetNumberValue() != 1 {
		t.Fatalf("Poll = (%v, %v, %v), want first result", value, ready, err)
	}
}

func TestConcurrentSubmissionsResolveOnce(t *testing.T) {
	registry := NewRegistry(0)
	const n = 64

	tickets := make([]Ticket, n)
	for i := range tickets {
		tickets[i] = registry.Register()
	}

	var group errgroup.Group
	for i, ticket := range tickets {
		value := float64(i)
		group.Go(func() error {
			return registry.Submit(ticket, deliver(listOf(value)))
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	ctx := context.Background()
	for i, ticket := range tickets {
		value, err := registry.Await(ctx, ticket)
		if err != nil {
			t.Fatalf("await %d: %v", ticket, err)
		}
		if got := value.GetValues()[0].GetNumberValue(); got != float64(i) {
			t.Fatalf("ticket %d resolved to %v, want %d", ticket, got, i)
		}
	}
	if registry.Pending() != 0 {
		t.Fatalf("expected no pending tickets, got %d", registry.Pending())
	}
}
