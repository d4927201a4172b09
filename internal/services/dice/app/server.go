// Package server wires the dice roll runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/roller"
	dicev1 "github.com/louisbranch/diceroll/internal/services/dice/api/grpc/dicev1"
	"github.com/louisbranch/diceroll/internal/services/dice/api/grpc/rolls"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// readyBuffer sizes the registry's ready channel for log-side observers.
const readyBuffer = 64

// Options configures the roll service hosted by a Server.
type Options struct {
	// MaxSteps caps evaluation steps per roll. Zero means unbounded.
	MaxSteps int
	// Session overrides the entropy-keyed session, mainly for tests.
	Session *roller.Session
}

// Server hosts the dice roll gRPC API and the async roll lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	session    *roller.Session
	registry   *notify.Registry
}

// New creates a configured dice server listening on the provided port.
func New(port int, opts Options) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), opts)
}

// NewWithAddr creates a configured dice server for the provided address.
func NewWithAddr(addr string, opts Options) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	session := opts.Session
	if session == nil {
		session = roller.NewSession()
	}
	registry := notify.NewRegistry(readyBuffer)

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	apiService := rolls.NewService(session, registry, rolls.Options{MaxSteps: opts.MaxSteps})
	healthServer := health.NewServer()
	dicev1.RegisterDiceRollServiceServer(grpcServer, apiService)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(dicev1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		session:    session,
		registry:   registry,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a dice server until context cancellation.
func Run(ctx context.Context, port int, opts Options) error {
	server, err := New(port, opts)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("dice server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()
	go s.watchReady(ctx)

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// watchReady logs async completions until ctx is done.
func (s *Server) watchReady(ctx context.Context) {
	ready := s.registry.Ready()
	for {
		select {
		case <-ctx.Done():
			return
		case ticket, ok := <-ready:
			if !ok {
				return
			}
			log.Printf("roll %d ready, %d pending", ticket, s.registry.Pending())
		}
	}
}

// Close stops serving and waits for in-flight async rolls to submit.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.session != nil {
		s.session.Wait()
	}
}
