// Package notify correlates asynchronous roll results with the tickets handed
// to callers.
//
// A ticket is issued by Register before any work starts, filled exactly once
// by Submit from whichever goroutine produced the result, and consumed by the
// first Await or successful Poll. Each ticket owns a single-assignment slot.
package notify

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"
)

var (
	// ErrUnknownTicket indicates the ticket was never issued or was already consumed.
	ErrUnknownTicket = errors.New("ticket is unknown or already consumed")
	// ErrAlreadySubmitted indicates a second submission for the same ticket.
	ErrAlreadySubmitted = errors.New("ticket already has a result")
	// ErrNilDelivery indicates Submit was called without a delivery.
	ErrNilDelivery = errors.New("delivery is required")
)

// Ticket is an opaque correlation id for one asynchronous roll.
type Ticket int64

// Delivery produces the marshaled outcome of a roll. It runs when the
// observer takes the result, so conversion failures surface alongside
// evaluation failures.
type Delivery func() (*structpb.ListValue, error)

type slot struct {
	done      chan struct{}
	delivery  Delivery
	submitted bool
}

// Registry issues tickets and stores their single-assignment result slots.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	last  Ticket
	slots map[Ticket]*slot
	ready chan Ticket
}

// NewRegistry creates a Registry. readyBuffer sizes the Ready channel; zero
// disables ready notifications.
func NewRegistry(readyBuffer int) *Registry {
	r := &Registry{slots: map[Ticket]*slot{}}
	if readyBuffer > 0 {
		r.ready = make(chan Ticket, readyBuffer)
	}
	return r
}

// Register issues a new ticket. Tickets start at 1 and are never reused.
func (r *Registry) Register() Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last++
	r.slots[r.last] = &slot{done: make(chan struct{})}
	return r.last
}

// Submit fills the slot for ticket. It may be called from any goroutine, at
// most once per ticket.
func (r *Registry) Submit(ticket Ticket, delivery Delivery) error {
	if delivery == nil {
		return ErrNilDelivery
	}

	r.mu.Lock()
	s, ok := r.slots[ticket]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownTicket
	}
	if s.submitted {
		r.mu.Unlock()
		return ErrAlreadySubmitted
	}
	s.delivery = delivery
	s.submitted = true
	close(s.done)
	r.mu.Unlock()

	if r.ready != nil {
		// A full buffer drops the wake-up, never the result.
		select {
		case r.ready <- ticket:
		default:
		}
	}
	return nil
}

// Await blocks until ticket has a result or ctx is done, then consumes the
// ticket and resolves its delivery.
func (r *Registry) Await(ctx context.Context, ticket Ticket) (*structpb.ListValue, error) {
	r.mu.Lock()
	s, ok := r.slots[ticket]
	r.mu.Unlock()
	if !ok {
		return nil, ErrUnknownTicket
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	delivery, err := r.take(ticket)
	if err != nil {
		return nil, err
	}
	return delivery()
}

// Poll consumes and resolves ticket if its result is available. ready is
// false while the roll is still running.
func (r *Registry) Poll(ticket Ticket) (value *structpb.ListValue, ready bool, err error) {
	r.mu.Lock()
	s, ok := r.slots[ticket]
	if !ok {
		r.mu.Unlock()
		return nil, false, ErrUnknownTicket
	}
	if !s.submitted {
		r.mu.Unlock()
		return nil, false, nil
	}
	delete(r.slots, ticket)
	r.mu.Unlock()

	value, err = s.delivery()
	return value, true, err
}

// Ready returns a channel that receives tickets as their results arrive. It
// is nil when the registry was created without a ready buffer.
func (r *Registry) Ready() <-chan Ticket {
	return r.ready
}

// Pending returns the number of issued tickets that were not consumed yet.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func (r *Registry) take(ticket Ticket) (Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[ticket]
	if !ok {
		return nil, ErrUnknownTicket
	}
	delete(r.slots, ticket)
	return s.delivery, nil
}
