// Package domain translates MCP tool calls into dice roll service requests.
//
// Each tool has a schema constructor and a handler bound to the gRPC client;
// handlers decode the ListValue results into flat structured output that MCP
// clients can render.
package domain
