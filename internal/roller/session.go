package roller

import (
	"context"
	"sync"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/marshal"
	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/random"
	"google.golang.org/protobuf/types/known/structpb"
)

// Session owns the seed source every roll derives its generator from. The
// session lock is held only while deriving; evaluation never holds it.
type Session struct {
	mu         sync.Mutex
	seeds      *random.SeedSource
	dispatcher Dispatcher
}

// NewSession creates a session keyed from operating system entropy.
func NewSession() *Session {
	return NewSessionWithSource(random.NewSeedSource())
}

// NewSessionWithSource creates a session backed by seeds.
func NewSessionWithSource(seeds *random.SeedSource) *Session {
	return &Session{seeds: seeds}
}

// Derived reports how many generators the session has handed out.
func (s *Session) Derived() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds.Derived()
}

// Wait blocks until every asynchronous roll started by the session has
// submitted its outcome.
func (s *Session) Wait() {
	s.dispatcher.Wait()
}

func (s *Session) derive() random.Generator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds.Derive()
}

// RollExpression evaluates expr on the caller's goroutine and returns the
// marshaled result.
func (s *Session) RollExpression(ctx context.Context, expr *dice.Expression, keepGoing dice.KeepGoing) (*structpb.ListValue, error) {
	if expr == nil {
		return nil, ErrMissingTarget
	}
	result, err := Evaluate[dice.ExpressionResult](ctx, expr, s.derive(), keepGoing)
	recordRoll(ctx, modeSync, kindExpression, err)
	if err != nil {
		return nil, err
	}
	return marshal.Expression(result), nil
}

// RollTerm evaluates term on the caller's goroutine and returns the
// marshaled result.
func (s *Session) RollTerm(ctx context.Context, term *dice.Term, keepGoing dice.KeepGoing) (*structpb.ListValue, error) {
	if term == nil {
		return nil, ErrMissingTarget
	}
	result, err := Evaluate[dice.TermResult](ctx, term, s.derive(), keepGoing)
	recordRoll(ctx, modeSync, kindTerm, err)
	if err != nil {
		return nil, err
	}
	return marshal.Term(result), nil
}

// RollExpressionAsync registers a ticket with notifier, starts evaluating
// expr on a new goroutine and returns the ticket immediately. The outcome,
// success or failure, is submitted to notifier exactly once.
func (s *Session) RollExpressionAsync(ctx context.Context, expr *dice.Expression, keepGoing dice.KeepGoing, notifier Notifier) (notify.Ticket, error) {
	if expr == nil {
		return 0, ErrMissingTarget
	}
	if notifier == nil {
		return 0, ErrMissingNotifier
	}
	return dispatch[dice.ExpressionResult](ctx, &s.dispatcher, expr, s.derive(), keepGoing, notifier, marshal.Expression), nil
}

// RollTermAsync is the single-term counterpart of RollExpressionAsync.
func (s *Session) RollTermAsync(ctx context.Context, term *dice.Term, keepGoing dice.KeepGoing, notifier Notifier) (notify.Ticket, error) {
	if term == nil {
		return 0, ErrMissingTarget
	}
	if notifier == nil {
		return 0, ErrMissingNotifier
	}
	return dispatch[dice.TermResult](ctx, &s.dispatcher, term, s.derive(), keepGoing, notifier, marshal.Term), nil
}
