// Package client provides a transport-agnostic interface for the riskboard
// service with HTTP/JSON and gRPC implementations.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
)

// ErrUnsupported is returned by transports that do not expose an operation.
var ErrUnsupported = errors.New("operation not supported by this transport")

// RiskClient is the interface that riskd CLI commands use to talk to a
// server. It is implemented by HTTPClient (default) and GRPCClient.
type RiskClient interface {
	Dashboard(ctx context.Context) (*dashboard.Snapshot, error)
	Ask(ctx context.Context, message string) (string, error)
	TriggerExport(ctx context.Context) (*ExportResult, error)
	Health(ctx context.Context) (string, error)
	Close() error
}

// ExportResult is the server's report of an on-demand export.
type ExportResult struct {
	ExportID     string    `json:"export_id"`
	Bytes        int       `json:"bytes"`
	Destinations []string  `json:"destinations"`
	Failed       []string  `json:"failed,omitempty"`
	At           time.Time `json:"at"`
}
