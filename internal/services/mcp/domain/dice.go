package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/diceroll/internal/marshal"
	dicev1 "github.com/louisbranch/diceroll/internal/services/dice/api/grpc/dicev1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Result kinds reported by await_roll.
const (
	KindExpression = "expression"
	KindTerm       = "term"
)

// RollInput represents the MCP tool input for every roll tool.
type RollInput struct {
	Source string `json:"source" jsonschema:"dice notation, for example 2d6 + 1d4 - 2"`
	Locale string `json:"locale,omitempty" jsonschema:"optional locale for error messages, for example pt-BR"`
}

// TermRoll represents one evaluated term.
type TermRoll struct {
	Total int64   `json:"total" jsonschema:"term total, negative for subtracted terms"`
	Rolls []int64 `json:"rolls" jsonschema:"die results in roll order, empty for constants"`
}

// ExpressionRollResult represents the MCP tool output for an expression roll.
type ExpressionRollResult struct {
	Source string     `json:"source" jsonschema:"the rolled notation"`
	Terms  []TermRoll `json:"terms" jsonschema:"term results in source order"`
	Total  int64      `json:"total" jsonschema:"sum of every term total"`
}

// TermRollResult represents the MCP tool output for a single-term roll.
type TermRollResult struct {
	Source string  `json:"source" jsonschema:"the rolled notation"`
	Total  int64   `json:"total" jsonschema:"term total"`
	Rolls  []int64 `json:"rolls" jsonschema:"die results in roll order"`
}

// AsyncRollResult represents the MCP tool output when a roll is started.
type AsyncRollResult struct {
	Ticket int64 `json:"ticket" jsonschema:"ticket to pass to await_roll"`
}

// AwaitRollInput represents the MCP tool input for collecting a roll.
type AwaitRollInput struct {
	Ticket int64  `json:"ticket" jsonschema:"ticket returned by an async roll tool"`
	Locale string `json:"locale,omitempty" jsonschema:"optional locale for error messages"`
}

// AwaitRollResult represents the MCP tool output for a collected roll.
type AwaitRollResult struct {
	Ticket int64      `json:"ticket" jsonschema:"the collected ticket"`
	Kind   string     `json:"kind" jsonschema:"expression or term"`
	Terms  []TermRoll `json:"terms" jsonschema:"term results in source order"`
	Total  int64      `json:"total" jsonschema:"sum of every term total"`
}

// RollExpressionTool defines the MCP tool schema for expression rolls.
func RollExpressionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_expression",
		Description: "Rolls a dice expression such as 2d6 + 1d4 - 2 and returns every term",
	}
}

// RollTermTool defines the MCP tool schema for single-term rolls.
func RollTermTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_term",
		Description: "Rolls a single term such as 4d6 and returns its dice",
	}
}

// RollExpressionAsyncTool defines the MCP tool schema for background rolls.
func RollExpressionAsyncTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_expression_async",
		Description: "Starts rolling a dice expression and returns a ticket for await_roll",
	}
}

// RollTermAsyncTool defines the MCP tool schema for background term rolls.
func RollTermAsyncTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_term_async",
		Description: "Starts rolling a single term and returns a ticket for await_roll",
	}
}

// AwaitRollTool defines the MCP tool schema for collecting background rolls.
func AwaitRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "await_roll",
		Description: "Waits for a background roll and returns its result; each ticket can be collected once",
	}
}

// RollExpressionHandler executes an expression roll.
func RollExpressionHandler(client dicev1.DiceRollServiceClient) mcp.ToolHandlerFor[RollInput, ExpressionRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, ExpressionRollResult, error) {
		source, err := requireSource(input.Source)
		if err != nil {
			return nil, ExpressionRollResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		value, err := client.RollExpression(outgoingContext(runCtx, input.Locale), wrapperspb.String(source))
		if err != nil {
			return nil, ExpressionRollResult{}, fmt.Errorf("roll expression failed: %s", describeError(err))
		}
		terms, total, err := expressionTerms(value)
		if err != nil {
			return nil, ExpressionRollResult{}, err
		}
		return nil, ExpressionRollResult{Source: source, Terms: terms, Total: total}, nil
	}
}

// RollTermHandler executes a single-term roll.
func RollTermHandler(client dicev1.DiceRollServiceClient) mcp.ToolHandlerFor[RollInput, TermRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, TermRollResult, error) {
		source, err := requireSource(input.Source)
		if err != nil {
			return nil, TermRollResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		value, err := client.RollTerm(outgoingContext(runCtx, input.Locale), wrapperspb.String(source))
		if err != nil {
			return nil, TermRollResult{}, fmt.Errorf("roll term failed: %s", describeError(err))
		}
		term, err := marshal.TermResult(value)
		if err != nil {
			return nil, TermRollResult{}, fmt.Errorf("read term result: %w", err)
		}
		return nil, TermRollResult{Source: source, Total: term.Total, Rolls: nonNil(term.Rolls)}, nil
	}
}

// RollExpressionAsyncHandler starts a background expression roll.
func RollExpressionAsyncHandler(client dicev1.DiceRollServiceClient) mcp.ToolHandlerFor[RollInput, AsyncRollResult] {
	return asyncHandler("roll expression async", client.RollExpressionAsync)
}

// RollTermAsyncHandler starts a background term roll.
func RollTermAsyncHandler(client dicev1.DiceRollServiceClient) mcp.ToolHandlerFor[RollInput, AsyncRollResult] {
	return asyncHandler("roll term async", client.RollTermAsync)
}

type asyncCall func(context.Context, *wrapperspb.StringValue, ...grpc.CallOption) (*wrapperspb.Int64Value, error)

func asyncHandler(label string, call asyncCall) mcp.ToolHandlerFor[RollInput, AsyncRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, AsyncRollResult, error) {
		source, err := requireSource(input.Source)
		if err != nil {
			return nil, AsyncRollResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		ticket, err := call(outgoingContext(runCtx, input.Locale), wrapperspb.String(source))
		if err != nil {
			return nil, AsyncRollResult{}, fmt.Errorf("%s failed: %s", label, describeError(err))
		}
		return nil, AsyncRollResult{Ticket: ticket.GetValue()}, nil
	}
}

// AwaitRollHandler collects a background roll.
func AwaitRollHandler(client dicev1.DiceRollServiceClient) mcp.ToolHandlerFor[AwaitRollInput, AwaitRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AwaitRollInput) (*mcp.CallToolResult, AwaitRollResult, error) {
		if input.Ticket <= 0 {
			return nil, AwaitRollResult{}, fmt.Errorf("ticket must be positive")
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcAwaitTimeout)
		defer cancel()

		value, err := client.AwaitRoll(outgoingContext(runCtx, input.Locale), wrapperspb.Int64(input.Ticket))
		if err != nil {
			return nil, AwaitRollResult{}, fmt.Errorf("await roll failed: %s", describeError(err))
		}

		result := AwaitRollResult{Ticket: input.Ticket}
		if isTermResult(value) {
			term, err := marshal.TermResult(value)
			if err != nil {
				return nil, AwaitRollResult{}, fmt.Errorf("read term result: %w", err)
			}
			result.Kind = KindTerm
			result.Terms = []TermRoll{{Total: term.Total, Rolls: nonNil(term.Rolls)}}
			result.Total = term.Total
			return nil, result, nil
		}

		terms, total, err := expressionTerms(value)
		if err != nil {
			return nil, AwaitRollResult{}, err
		}
		result.Kind = KindExpression
		result.Terms = terms
		result.Total = total
		return nil, result, nil
	}
}

func requireSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("source is required")
	}
	return source, nil
}

// outgoingContext forwards the caller's locale as accept-language metadata.
func outgoingContext(ctx context.Context, locale string) context.Context {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "accept-language", locale)
}

// describeError prefers the server's localized message over the raw status.
func describeError(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	for _, detail := range st.Details() {
		if localized, ok := detail.(*errdetails.LocalizedMessage); ok && localized.GetMessage() != "" {
			return localized.GetMessage()
		}
	}
	return st.Message()
}

func expressionTerms(value *structpb.ListValue) ([]TermRoll, int64, error) {
	result, err := marshal.ExpressionResult(value)
	if err != nil {
		return nil, 0, fmt.Errorf("read expression result: %w", err)
	}
	terms := make([]TermRoll, 0, len(result))
	for _, term := range result {
		terms = append(terms, TermRoll{Total: term.Total, Rolls: nonNil(term.Rolls)})
	}
	return terms, result.Total(), nil
}

// isTermResult reports whether value has the [total,[rolls]] shape of a
// single term rather than the list-of-terms shape of an expression.
func isTermResult(value *structpb.ListValue) bool {
	values := value.GetValues()
	if len(values) != 2 {
		return false
	}
	_, isNumber := values[0].GetKind().(*structpb.Value_NumberValue)
	return isNumber
}

func nonNil(rolls []int64) []int64 {
	if rolls == nil {
		return []int64{}
	}
	return rolls
}
