package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

// Service and method names, shared with the gRPC client.
const (
	DashboardServiceName   = dashboard.ServiceName
	GetMainDashboardMethod = dashboard.GetMainDashboardMethod
)

// DashboardServiceServer is the server API for the dashboard service. The
// snapshot travels as a google.protobuf.Struct carrying the same keys as the
// HTTP response body.
type DashboardServiceServer interface {
	GetMainDashboard(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var _ DashboardServiceServer = (*RiskServer)(nil)

func getMainDashboardHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServiceServer).GetMainDashboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetMainDashboardMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServiceServer).GetMainDashboard(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardServiceDesc describes the dashboard service for grpc.Server.RegisterService.
var DashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMainDashboard", Handler: getMainDashboardHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "riskboard/v1/dashboard.proto",
}

// GetMainDashboard computes a fresh snapshot.
func (s *RiskServer) GetMainDashboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	requestID := grpcRequestID(ctx)

	snap, err := s.computeDashboard(ctx, "grpc", requestID)
	if err != nil {
		s.logger.Error("compute dashboard", "request_id", requestID, "error", err)
		return nil, status.Error(codes.Internal, "failed to fetch dashboard data")
	}
	out, err := dashboard.ToStruct(snap)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// NewGRPCServer creates a gRPC server with standard interceptors and
// registers the dashboard service, the health service and reflection.
func NewGRPCServer(rs *RiskServer) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(rs.logger),
			LoggingInterceptor(rs.logger),
		),
	)

	srv.RegisterService(&DashboardServiceDesc, rs)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(DashboardServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)
	return srv
}
