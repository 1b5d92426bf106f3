package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

// GRPCClient implements RiskClient using the gRPC transport. Only the
// dashboard and health RPCs exist there.
type GRPCClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

var _ RiskClient = (*GRPCClient)(nil)

// NewGRPCClient connects to the given gRPC address and returns a client.
// Extra dial options are appended after insecure transport credentials.
func NewGRPCClient(addr string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Dashboard(ctx context.Context) (*dashboard.Snapshot, error) {
	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, dashboard.GetMainDashboardMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return dashboard.FromStruct(out)
}

func (c *GRPCClient) Ask(context.Context, string) (string, error) {
	return "", ErrUnsupported
}

func (c *GRPCClient) TriggerExport(context.Context) (*ExportResult, error) {
	return nil, ErrUnsupported
}

// Health reports the serving status of the whole server.
func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", err
	}
	if resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
		return "ok", nil
	}
	return resp.GetStatus().String(), nil
}
