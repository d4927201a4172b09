package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func startHealthServer(t *testing.T, service string, status grpc_health_v1.HealthCheckResponse_ServingStatus) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := gogrpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus(service, status)
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	t.Cleanup(func() {
		server.GracefulStop()
		select {
		case <-serveErr:
		case <-time.After(time.Second):
		}
	})
	return listener.Addr().String()
}

func TestDialWaitsForServing(t *testing.T) {
	addr := startHealthServer(t, "diceroll.v1.DiceRollService", grpc_health_v1.HealthCheckResponse_SERVING)

	conn, err := Dial(context.Background(), addr, "diceroll.v1.DiceRollService", 2*time.Second, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialReportsHealthStage(t *testing.T) {
	addr := startHealthServer(t, "", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	var lines int
	logf := func(string, ...any) { lines++ }
	start := time.Now()
	conn, err := Dial(context.Background(), addr, "", 250*time.Millisecond, logf)
	if err == nil {
		_ = conn.Close()
		t.Fatal("expected error")
	}
	var dialErr *DialError
	if !errors.As(err, &dialErr) || dialErr.Stage != DialStageHealth {
		t.Fatalf("err = %v, want health stage DialError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("dial took %v, want bounded by timeout", elapsed)
	}
	if lines == 0 {
		t.Fatal("expected wait progress to be logged")
	}
}

func TestWaitForHealthRequiresConnection(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected error for nil connection")
	}
}

func TestDialErrorNil(t *testing.T) {
	var err *DialError
	if err.Error() == "" {
		t.Fatal("expected message for nil dial error")
	}
	if err.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil dial error")
	}
}
