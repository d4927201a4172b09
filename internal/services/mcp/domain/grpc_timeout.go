package domain

import "github.com/louisbranch/diceroll/internal/platform/timeouts"

// grpcCallTimeout caps the time for a single roll call from an MCP tool handler.
const grpcCallTimeout = timeouts.GRPCRequest

// grpcAwaitTimeout leaves room for the server-side await cap to answer first.
const grpcAwaitTimeout = timeouts.AwaitRoll + timeouts.GRPCRequest
