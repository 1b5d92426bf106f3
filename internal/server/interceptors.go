package server

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/riskboard/internal/idgen"
)

// requestIDMetadataKey is the gRPC counterpart of RequestIDHeader.
const requestIDMetadataKey = "x-request-id"

// grpcRequestID resolves the request ID for an RPC: the one stored by
// LoggingInterceptor, else the x-request-id metadata, else a fresh one.
func grpcRequestID(ctx context.Context) string {
	if id := RequestIDFrom(ctx); id != "" {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(requestIDMetadataKey); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return idgen.RequestID()
}

// LoggingInterceptor returns an interceptor that records one line per unary
// RPC on logger, mirroring AccessLogMiddleware. The resolved request ID is
// stored in the context so handlers log under the same ID.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := grpcRequestID(ctx)
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)

		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
			"request_id", requestID,
		}
		if err != nil {
			logger.Error("rpc completed", append(attrs, "error", err)...)
		} else {
			logger.Info("rpc completed", attrs...)
		}
		return resp, err
	}
}

// RecoveryInterceptor returns an interceptor that turns a handler panic into
// codes.Internal and logs the stack on logger.
func RecoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered in gRPC handler",
					"method", info.FullMethod,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
