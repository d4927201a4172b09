// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the dice gRPC server.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single synchronous roll request made by a client such
// as the MCP bridge.
const GRPCRequest = 5 * time.Second

// AwaitRoll caps how long the server holds an AwaitRoll call open before
// reporting the ticket as still pending.
const AwaitRoll = 30 * time.Second

// Shutdown limits how long a process waits for telemetry flushes and
// in-flight work during graceful shutdown.
const Shutdown = 5 * time.Second
