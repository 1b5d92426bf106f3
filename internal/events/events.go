package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicDashboardComputed = "risk.dashboard.computed"
	TopicExportCompleted   = "risk.export.completed"
	TopicExportFailed      = "risk.export.failed"
)

// TopicAll matches every riskboard topic on NATS.
const TopicAll = "risk.>"

// Event types

// DashboardComputed is emitted after a snapshot was served.
type DashboardComputed struct {
	RequestID       string  `json:"request_id,omitempty"`
	Transport       string  `json:"transport"` // "http" or "grpc"
	TotalAnomalies  int     `json:"total_anomalies"`
	TotalWarnings   int     `json:"total_warnings"`
	TotalDelayHours float64 `json:"total_delay_hours"`
	HistoryPoints   int     `json:"history_points"`
}

// ExportCompleted is emitted after a snapshot export reached every destination.
type ExportCompleted struct {
	ExportID     string    `json:"export_id"`
	Bytes        int       `json:"bytes"`
	Destinations []string  `json:"destinations"`
	At           time.Time `json:"at"`
}

// ExportFailed is emitted when an export could not be produced or written.
type ExportFailed struct {
	ExportID string `json:"export_id,omitempty"`
	Error    string `json:"error"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
