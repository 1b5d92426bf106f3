// Package export writes dashboard data as JSONL and ships it to external
// destinations on a schedule.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
	"github.com/alfredjeanlab/riskboard/internal/model"
)

// FormatVersion is written to every header record.
const FormatVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	ExportID     string    `json:"export_id"`
	Timestamp    time.Time `json:"timestamp"`
	ProcessCount int       `json:"process_count"`
	EventCount   int       `json:"event_count"`
	HistoryCount int       `json:"history_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Record types following the header.
const (
	RecordProcess  = "process"
	RecordEvent    = "event"
	RecordHistory  = "history"
	RecordSnapshot = "snapshot"
)

// ExportJSONL writes the stored processes, anomaly and warning aggregates,
// and history points as JSONL to w, followed by the snapshot assembled from
// the same rows.
func ExportJSONL(ctx context.Context, r dashboard.Reader, w io.Writer, exportID string) error {
	processes, err := r.ListProcesses(ctx)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}
	anomalies, err := r.ListEvents(ctx, model.ClassAnomaly)
	if err != nil {
		return fmt.Errorf("list anomalies: %w", err)
	}
	warnings, err := r.ListEvents(ctx, model.ClassWarning)
	if err != nil {
		return fmt.Errorf("list warnings: %w", err)
	}
	history, err := r.ListHistory(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      FormatVersion,
		Type:         "header",
		ExportID:     exportID,
		Timestamp:    time.Now().UTC(),
		ProcessCount: len(processes),
		EventCount:   len(anomalies) + len(warnings),
		HistoryCount: len(history),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range processes {
		if err := enc.Encode(record{Type: RecordProcess, Data: p}); err != nil {
			return fmt.Errorf("encode process %q: %w", p.Name, err)
		}
	}
	for _, events := range [][]*model.EventAggregate{anomalies, warnings} {
		for _, e := range events {
			if err := enc.Encode(record{Type: RecordEvent, Data: e}); err != nil {
				return fmt.Errorf("encode event %d: %w", e.ID, err)
			}
		}
	}
	for _, h := range history {
		if err := enc.Encode(record{Type: RecordHistory, Data: h}); err != nil {
			return fmt.Errorf("encode history %q: %w", h.Date, err)
		}
	}

	snap := dashboard.Assemble(processes, anomalies, warnings, history)
	if err := enc.Encode(record{Type: RecordSnapshot, Data: snap}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
