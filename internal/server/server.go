// Package server exposes the dashboard over HTTP and gRPC.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
	"github.com/alfredjeanlab/riskboard/internal/events"
	"github.com/alfredjeanlab/riskboard/internal/export"
)

// Exporter runs one snapshot export on demand.
type Exporter interface {
	RunNow(ctx context.Context) (*export.Result, error)
}

// RiskServer holds the state shared by the HTTP and gRPC transports.
type RiskServer struct {
	engine    *dashboard.Engine
	publisher events.Publisher
	exporter  Exporter
	sseHub    *sseHub
	logger    *slog.Logger
}

// NewRiskServer returns a server computing snapshots with engine and
// publishing events to p. A nil publisher only feeds the SSE stream.
func NewRiskServer(engine *dashboard.Engine, p events.Publisher, logger *slog.Logger) *RiskServer {
	if p == nil {
		p = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskServer{
		engine:    engine,
		publisher: p,
		sseHub:    newSSEHub(),
		logger:    logger,
	}
}

// SetExporter enables POST /api/v1/exports.
func (s *RiskServer) SetExporter(e Exporter) {
	s.exporter = e
}

// Publisher returns a publisher that forwards to the server's publisher and
// also fans out to SSE clients. Background jobs (the export scheduler) use
// it so their events reach both.
func (s *RiskServer) Publisher() events.Publisher {
	return &fanoutPublisher{s: s}
}

// computeDashboard computes a fresh snapshot and announces it. Store errors
// are returned unchanged.
func (s *RiskServer) computeDashboard(ctx context.Context, transport, requestID string) (*dashboard.Snapshot, error) {
	snap, err := s.engine.Compute(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicDashboardComputed, events.DashboardComputed{
		RequestID:       requestID,
		Transport:       transport,
		TotalAnomalies:  snap.TotalAnomalies,
		TotalWarnings:   snap.TotalWarnings,
		TotalDelayHours: snap.TotalDelayHours,
		HistoryPoints:   len(snap.HistoryData),
	})
	return snap, nil
}

// publish sends an event to the bus and to SSE clients. Both are best-effort;
// failures are logged and never reach the caller.
func (s *RiskServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// broadcastEvent fans an event out to SSE clients.
func (s *RiskServer) broadcastEvent(topic string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}

type fanoutPublisher struct {
	s *RiskServer
}

func (p *fanoutPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.s.broadcastEvent(topic, event)
	return p.s.publisher.Publish(ctx, topic, event)
}

// Close is a no-op; the underlying publisher is owned by the caller of
// NewRiskServer.
func (p *fanoutPublisher) Close() error { return nil }
