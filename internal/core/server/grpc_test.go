package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/solatis/recordfilter/internal/core/api"
	"github.com/solatis/recordfilter/internal/core/config"
	"github.com/solatis/recordfilter/internal/filter"
)

// slowService blocks Evaluate until its context ends.
type slowService struct {
	*api.FilterService
}

func (s slowService) Evaluate(ctx context.Context, req *api.EvaluateRequest) (*api.EvaluateResponse, error) {
	<-ctx.Done()
	return nil, status.FromContextError(ctx.Err()).Err()
}

func startServer(t *testing.T, cfg config.ServerConfig, svc api.FilterServiceServer, logger *slog.Logger) (*GRPCServer, *grpc.ClientConn) {
	t.Helper()

	srv, err := NewGRPCServer(cfg, svc, logger)
	if err != nil {
		t.Fatalf("NewGRPCServer() error = %v, want nil", err)
	}

	lis := bufconn.Listen(1 << 20)
	go srv.Serve(lis)

	cc, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient() error = %v, want nil", err)
	}
	t.Cleanup(func() { cc.Close() })
	return srv, cc
}

func newService(t *testing.T, cfg config.ServerConfig) *api.FilterService {
	t.Helper()
	svc, err := api.NewFilterService(filter.NewEngine(nil, nil), nil, cfg, nil)
	if err != nil {
		t.Fatalf("NewFilterService() error = %v, want nil", err)
	}
	return svc
}

func TestGRPCServer_HealthAndShutdown(t *testing.T) {
	cfg := config.DefaultConfig().Server
	srv, cc := startServer(t, cfg, newService(t, cfg), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hc := grpc_health_v1.NewHealthClient(cc)
	for _, name := range []string{"", api.ServiceName} {
		resp, err := hc.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: name})
		if err != nil {
			t.Fatalf("Check(%q) error = %v, want nil", name, err)
		}
		if resp.Status != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Errorf("Check(%q) = %v, want SERVING", name, resp.Status)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v, want nil", err)
	}
}

func TestGRPCServer_ServesFilterService(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.DefaultConfig().Server
	srv, cc := startServer(t, cfg, newService(t, cfg), logger)
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := api.NewClient(cc).CollectFields(ctx, &api.CollectFieldsRequest{
		Filter: json.RawMessage(`{"field":"Owner","operator":"is_empty"}`),
	})
	if err != nil {
		t.Fatalf("CollectFields() error = %v, want nil", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0] != "Owner" {
		t.Errorf("CollectFields() = %v, want [Owner]", resp.Fields)
	}

	// the interceptor logs after the handler returns, before the response is sent
	if !strings.Contains(buf.String(), "/recordfilter.v1.FilterService/CollectFields") {
		t.Errorf("log output missing method: %s", buf.String())
	}
}

func TestGRPCServer_RequestTimeout(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.RequestTimeout = 50 * time.Millisecond
	srv, cc := startServer(t, cfg, slowService{newService(t, cfg)}, nil)
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := api.NewClient(cc).Evaluate(ctx, &api.EvaluateRequest{})
	if got := status.Code(err); got != codes.DeadlineExceeded {
		t.Errorf("Evaluate() code = %v, want %v", got, codes.DeadlineExceeded)
	}
}

func TestNewGRPCServer_Validation(t *testing.T) {
	cfg := config.DefaultConfig().Server
	if _, err := NewGRPCServer(cfg, nil, nil); err == nil {
		t.Error("NewGRPCServer(nil service) error = nil, want error")
	}
	svc := newService(t, cfg)
	cfg.RequestTimeout = 0
	if _, err := NewGRPCServer(cfg, svc, nil); err == nil {
		t.Error("NewGRPCServer(zero timeout) error = nil, want error")
	}
}
