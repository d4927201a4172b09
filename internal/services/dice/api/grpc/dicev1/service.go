// Package dicev1 declares the diceroll.v1.DiceRollService wire contract.
//
// The service is built from well-known protobuf messages: roll sources travel
// as StringValue, tickets as Int64Value and results as ListValue, so the
// descriptor and client below are written by hand in the shape protoc-gen-go-grpc
// would produce.
package dicev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "diceroll.v1.DiceRollService"

const (
	DiceRollService_RollExpression_FullMethodName      = "/diceroll.v1.DiceRollService/RollExpression"
	DiceRollService_RollTerm_FullMethodName            = "/diceroll.v1.DiceRollService/RollTerm"
	DiceRollService_RollExpressionAsync_FullMethodName = "/diceroll.v1.DiceRollService/RollExpressionAsync"
	DiceRollService_RollTermAsync_FullMethodName       = "/diceroll.v1.DiceRollService/RollTermAsync"
	DiceRollService_AwaitRoll_FullMethodName           = "/diceroll.v1.DiceRollService/AwaitRoll"
)

// DiceRollServiceClient is the client API for DiceRollService.
type DiceRollServiceClient interface {
	// RollExpression rolls a full expression and returns [[total,[rolls]]...].
	RollExpression(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// RollTerm rolls a single term and returns [total,[rolls]].
	RollTerm(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// RollExpressionAsync starts an expression roll and returns its ticket.
	RollExpressionAsync(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
	// RollTermAsync starts a term roll and returns its ticket.
	RollTermAsync(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
	// AwaitRoll collects the result of an asynchronous roll.
	AwaitRoll(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type diceRollServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDiceRollServiceClient creates a client bound to cc.
func NewDiceRollServiceClient(cc grpc.ClientConnInterface) DiceRollServiceClient {
	return &diceRollServiceClient{cc}
}

func (c *diceRollServiceClient) RollExpression(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, DiceRollService_RollExpression_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diceRollServiceClient) RollTerm(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, DiceRollService_RollTerm_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diceRollServiceClient) RollExpressionAsync(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, DiceRollService_RollExpressionAsync_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diceRollServiceClient) RollTermAsync(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, DiceRollService_RollTermAsync_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *diceRollServiceClient) AwaitRoll(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, DiceRollService_AwaitRoll_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DiceRollServiceServer is the server API for DiceRollService.
type DiceRollServiceServer interface {
	RollExpression(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	RollTerm(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	RollExpressionAsync(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	RollTermAsync(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error)
	AwaitRoll(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error)
}

// UnimplementedDiceRollServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedDiceRollServiceServer struct{}

func (UnimplementedDiceRollServiceServer) RollExpression(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RollExpression not implemented")
}

func (UnimplementedDiceRollServiceServer) RollTerm(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RollTerm not implemented")
}

func (UnimplementedDiceRollServiceServer) RollExpressionAsync(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method RollExpressionAsync not implemented")
}

func (UnimplementedDiceRollServiceServer) RollTermAsync(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method RollTermAsync not implemented")
}

func (UnimplementedDiceRollServiceServer) AwaitRoll(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AwaitRoll not implemented")
}

// RegisterDiceRollServiceServer registers srv with s.
func RegisterDiceRollServiceServer(s grpc.ServiceRegistrar, srv DiceRollServiceServer) {
	s.RegisterService(&DiceRollService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp proto.Message](
	fullMethod string,
	newRequest func() Req,
	call func(DiceRollServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(DiceRollServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStringValue() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func newInt64Value() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }

// DiceRollService_ServiceDesc is the grpc.ServiceDesc for DiceRollService.
var DiceRollService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiceRollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RollExpression",
			Handler:    unaryHandler(DiceRollService_RollExpression_FullMethodName, newStringValue, DiceRollServiceServer.RollExpression),
		},
		{
			MethodName: "RollTerm",
			Handler:    unaryHandler(DiceRollService_RollTerm_FullMethodName, newStringValue, DiceRollServiceServer.RollTerm),
		},
		{
			MethodName: "RollExpressionAsync",
			Handler:    unaryHandler(DiceRollService_RollExpressionAsync_FullMethodName, newStringValue, DiceRollServiceServer.RollExpressionAsync),
		},
		{
			MethodName: "RollTermAsync",
			Handler:    unaryHandler(DiceRollService_RollTermAsync_FullMethodName, newStringValue, DiceRollServiceServer.RollTermAsync),
		},
		{
			MethodName: "AwaitRoll",
			Handler:    unaryHandler(DiceRollService_AwaitRoll_FullMethodName, newInt64Value, DiceRollServiceServer.AwaitRoll),
		},
	},
	Streams: []grpc.StreamDesc{},
}
