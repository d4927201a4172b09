// Package rolls implements the diceroll.v1 gRPC service on top of a roller
// session and a notification registry.
package rolls

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/platform/timeouts"
	"github.com/louisbranch/diceroll/internal/roller"
	dicev1 "github.com/louisbranch/diceroll/internal/services/dice/api/grpc/dicev1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Options tunes evaluation bounds for a Service.
type Options struct {
	// MaxSteps caps the evaluation steps of one roll. Zero means unbounded.
	MaxSteps int
	// AwaitTimeout caps how long AwaitRoll blocks. Zero uses timeouts.AwaitRoll.
	AwaitTimeout time.Duration
}

// Service exposes diceroll.v1 gRPC operations.
type Service struct {
	dicev1.UnimplementedDiceRollServiceServer
	session      *roller.Session
	registry     *notify.Registry
	maxSteps     int
	awaitTimeout time.Duration
}

// NewService creates a dice roll service rolling with session and publishing
// asynchronous results to registry.
func NewService(session *roller.Session, registry *notify.Registry, opts Options) *Service {
	awaitTimeout := opts.AwaitTimeout
	if awaitTimeout <= 0 {
		awaitTimeout = timeouts.AwaitRoll
	}
	return &Service{
		session:      session,
		registry:     registry,
		maxSteps:     opts.MaxSteps,
		awaitTimeout: awaitTimeout,
	}
}

// RollExpression rolls a full expression on the request goroutine.
func (s *Service) RollExpression(ctx context.Context, in *wrapperspb.StringValue) (*structpb.ListValue, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	expr, err := dice.ParseExpression(in.GetValue())
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	value, err := s.session.RollExpression(ctx, expr, s.syncKeepGoing(ctx))
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	return value, nil
}

// RollTerm rolls a single term on the request goroutine.
func (s *Service) RollTerm(ctx context.Context, in *wrapperspb.StringValue) (*structpb.ListValue, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	term, err := dice.ParseTerm(in.GetValue())
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	value, err := s.session.RollTerm(ctx, term, s.syncKeepGoing(ctx))
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	return value, nil
}

// RollExpressionAsync starts an expression roll and returns its ticket
// without waiting for the result.
func (s *Service) RollExpressionAsync(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	expr, err := dice.ParseExpression(in.GetValue())
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	ticket, err := s.session.RollExpressionAsync(ctx, expr, s.asyncKeepGoing(), s.registry)
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	return wrapperspb.Int64(int64(ticket)), nil
}

// RollTermAsync starts a term roll and returns its ticket without waiting
// for the result.
func (s *Service) RollTermAsync(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	term, err := dice.ParseTerm(in.GetValue())
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	ticket, err := s.session.RollTermAsync(ctx, term, s.asyncKeepGoing(), s.registry)
	if err != nil {
		return nil, rollStatus(ctx, in.GetValue(), err)
	}
	return wrapperspb.Int64(int64(ticket)), nil
}

// AwaitRoll blocks until the ticket's result is ready and consumes it.
func (s *Service) AwaitRoll(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "await roll request is required")
	}
	if s == nil || s.registry == nil {
		return nil, status.Error(codes.Internal, "notification registry is not configured")
	}
	if in.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "ticket must be positive")
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.awaitTimeout)
	defer cancel()
	ticket := notify.Ticket(in.GetValue())
	value, err := s.registry.Await(waitCtx, ticket)
	if err != nil {
		return nil, ticketStatus(ctx, ticket, err)
	}
	return value, nil
}

func (s *Service) validate(in *wrapperspb.StringValue) error {
	if in == nil {
		return status.Error(codes.InvalidArgument, "roll request is required")
	}
	if s == nil || s.session == nil || s.registry == nil {
		return status.Error(codes.Internal, "dice roller is not configured")
	}
	if strings.TrimSpace(in.GetValue()) == "" {
		return status.Error(codes.InvalidArgument, "roll source is required")
	}
	return nil
}

// syncKeepGoing stops a request-bound roll when the caller goes away or the
// step budget runs out.
func (s *Service) syncKeepGoing(ctx context.Context) dice.KeepGoing {
	if s.maxSteps > 0 {
		return dice.All(dice.UntilDone(ctx), dice.MaxSteps(s.maxSteps))
	}
	return dice.UntilDone(ctx)
}

// asyncKeepGoing only applies the step budget; asynchronous rolls outlive
// the request that started them.
func (s *Service) asyncKeepGoing() dice.KeepGoing {
	if s.maxSteps > 0 {
		return dice.MaxSteps(s.maxSteps)
	}
	return dice.Always()
}

var _ dicev1.DiceRollServiceServer = (*Service)(nil)
