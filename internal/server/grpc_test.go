package server

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

// startBufconn serves rs on an in-memory listener and returns a client connection.
func startBufconn(t *testing.T, rs *RiskServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(rs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %v, got nil", code)
	}
	if st, ok := status.FromError(err); !ok || st.Code() != code {
		t.Fatalf("expected code %v, got %v", code, err)
	}
}

func TestGRPCGetMainDashboard(t *testing.T) {
	pub := &recordingPublisher{}
	conn := startBufconn(t, newTestServer(seededReader(), pub))

	out := &structpb.Struct{}
	if err := conn.Invoke(context.Background(), GetMainDashboardMethod, &emptypb.Empty{}, out); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	fields := out.GetFields()
	if fields["totalAnomalies"].GetNumberValue() != 8 || fields["totalDelayHours"].GetNumberValue() != 29.5 {
		t.Fatalf("unexpected totals: %v", out)
	}
	hist := fields["historyData"].GetListValue().GetValues()
	if len(hist) != 3 {
		t.Fatalf("history length = %d", len(hist))
	}
	last := hist[2].GetStructValue().GetFields()
	if last["날짜"].GetStringValue() != "1/9" {
		t.Fatalf("synthesized point = %v", last)
	}

	snap, err := dashboard.FromStruct(out)
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	if snap.TotalWarnings != 10 || len(snap.ProcessStats) != 2 || snap.ProcessStats[0].Normal != 85 {
		t.Fatalf("round-tripped snapshot = %+v", snap)
	}
	if topics := pub.published(); len(topics) != 1 {
		t.Fatalf("published topics = %v", topics)
	}
}

func TestGRPCGetMainDashboard_StoreError(t *testing.T) {
	conn := startBufconn(t, newTestServer(&mockReader{err: errors.New("db down")}, nil))

	err := conn.Invoke(context.Background(), GetMainDashboardMethod, &emptypb.Empty{}, &structpb.Struct{})
	requireCode(t, err, codes.Internal)
	if st, _ := status.FromError(err); st.Message() != "failed to fetch dashboard data" {
		t.Fatalf("message = %q", st.Message())
	}
}

func TestGRPCHealth(t *testing.T) {
	conn := startBufconn(t, newTestServer(&mockReader{}, nil))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: DashboardServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", resp.GetStatus())
	}
}
