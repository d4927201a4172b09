package rolls

import (
	"context"
	"errors"
	"strconv"

	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/notify"
	apperrors "github.com/louisbranch/diceroll/internal/platform/errors"
	"github.com/louisbranch/diceroll/internal/roller"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const acceptLanguageKey = "accept-language"

// acceptLanguage returns the caller's Accept-Language metadata, if any.
func acceptLanguage(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(acceptLanguageKey)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// rollStatus maps parse and evaluation failures for source to a localized
// gRPC status.
func rollStatus(ctx context.Context, source string, err error) error {
	var parseErr *dice.ParseError
	switch {
	case errors.As(err, &parseErr):
		return apperrors.WrapWithMetadata(
			apperrors.CodeDiceParseFailed,
			err.Error(),
			map[string]string{
				"Source": source,
				"Reason": parseErr.Reason,
				"Offset": strconv.Itoa(parseErr.Offset),
			},
			err,
		).GRPCStatus(acceptLanguage(ctx))
	case errors.Is(err, dice.ErrHalted):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return status.FromContextError(ctxErr).Err()
		}
		return apperrors.WrapWithMetadata(
			apperrors.CodeDiceEvaluationHalted,
			err.Error(),
			map[string]string{"Source": source},
			err,
		).GRPCStatus(acceptLanguage(ctx))
	case errors.Is(err, roller.ErrMissingTarget):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return apperrors.WrapWithMetadata(
			apperrors.CodeDiceEvaluationFailed,
			err.Error(),
			map[string]string{"Source": source},
			err,
		).GRPCStatus(acceptLanguage(ctx))
	}
}

// ticketStatus maps AwaitRoll failures to a localized gRPC status. A failed
// roll delivered through the ticket maps like a synchronous failure.
func ticketStatus(ctx context.Context, ticket notify.Ticket, err error) error {
	meta := map[string]string{"Ticket": strconv.FormatInt(int64(ticket), 10)}
	switch {
	case errors.Is(err, notify.ErrUnknownTicket):
		return apperrors.WrapWithMetadata(apperrors.CodeTicketUnknown, err.Error(), meta, err).
			GRPCStatus(acceptLanguage(ctx))
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return status.FromContextError(ctxErr).Err()
		}
		return apperrors.WrapWithMetadata(apperrors.CodeTicketPending, err.Error(), meta, err).
			GRPCStatus(acceptLanguage(ctx))
	default:
		var evalErr *dice.EvaluationError
		source := ""
		if errors.As(err, &evalErr) {
			source = evalErr.Source
		}
		return rollStatus(context.WithoutCancel(ctx), source, err)
	}
}
