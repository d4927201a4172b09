// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice errors
	CodeDiceParseFailed      Code = "DICE_PARSE_FAILED"
	CodeDiceEvaluationHalted Code = "DICE_EVALUATION_HALTED"
	CodeDiceEvaluationFailed Code = "DICE_EVALUATION_FAILED"

	// Ticket errors
	CodeTicketUnknown Code = "TICKET_UNKNOWN"
	CodeTicketPending Code = "TICKET_PENDING"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed input
	case CodeDiceParseFailed:
		return codes.InvalidArgument

	// ResourceExhausted - evaluation stopped by a caller-side bound
	case CodeDiceEvaluationHalted:
		return codes.ResourceExhausted

	// NotFound - ticket never issued or already consumed
	case CodeTicketUnknown:
		return codes.NotFound

	// DeadlineExceeded - result not ready before the caller gave up
	case CodeTicketPending:
		return codes.DeadlineExceeded

	default:
		return codes.Internal
	}
}
