// Package service hosts the MCP server that fronts the dice roll gRPC API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/diceroll/internal/platform/branding"
	platformgrpc "github.com/louisbranch/diceroll/internal/platform/grpc"
	"github.com/louisbranch/diceroll/internal/platform/timeouts"
	dicev1 "github.com/louisbranch/diceroll/internal/services/dice/api/grpc/dicev1"
	"github.com/louisbranch/diceroll/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

// TransportStdio uses standard input/output for MCP.
const TransportStdio TransportKind = "stdio"

// Config configures the MCP server.
type Config struct {
	GRPCAddr  string
	Transport TransportKind
}

// Server hosts the MCP server and its dice service connection.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// newServer registers every dice tool against client. conn is owned by the
// returned server and closed with it; it may be nil in tests.
func newServer(conn *grpc.ClientConn, client dicev1.DiceRollServiceClient) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerDiceTools(mcpServer, client)
	return &Server{mcpServer: mcpServer, conn: conn}
}

func registerDiceTools(server *mcp.Server, client dicev1.DiceRollServiceClient) {
	mcp.AddTool(server, domain.RollExpressionTool(), domain.RollExpressionHandler(client))
	mcp.AddTool(server, domain.RollTermTool(), domain.RollTermHandler(client))
	mcp.AddTool(server, domain.RollExpressionAsyncTool(), domain.RollExpressionAsyncHandler(client))
	mcp.AddTool(server, domain.RollTermAsyncTool(), domain.RollTermAsyncHandler(client))
	mcp.AddTool(server, domain.AwaitRollTool(), domain.AwaitRollHandler(client))
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg.GRPCAddr, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport dials the dice service and serves MCP over transport.
func runWithTransport(ctx context.Context, grpcAddr string, transport mcp.Transport) error {
	addr := strings.TrimSpace(grpcAddr)
	if addr == "" {
		return errors.New("dice server address is required")
	}
	conn, err := dialDiceGRPC(ctx, addr)
	if err != nil {
		return err
	}
	server := newServer(conn, dicev1.NewDiceRollServiceClient(conn))
	return server.serveWithTransport(ctx, transport)
}

func dialDiceGRPC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	logf := func(format string, args ...any) {
		log.Printf("dice %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.Dial(ctx, addr, dicev1.ServiceName, timeouts.GRPCDial, logf)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageConnect {
			return nil, fmt.Errorf("connect to dice server at %s: %w", addr, dialErr.Err)
		}
		return nil, fmt.Errorf("dice server at %s is not serving: %w", addr, err)
	}
	return conn, nil
}

// serveWithTransport runs the MCP server until the transport closes or ctx
// ends, then releases the gRPC connection.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}
