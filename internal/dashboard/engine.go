// Package dashboard folds the process directory, the event store and the
// delay history into a single dashboard snapshot.
package dashboard

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

// Reader is the read side of the store consumed by the engine.
type Reader interface {
	ListProcesses(ctx context.Context) ([]*model.Process, error)
	ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error)
	ListHistory(ctx context.Context) ([]*model.HistoryPoint, error)
}

// Engine computes dashboard snapshots. It holds no state besides the reader
// and is safe for concurrent use.
type Engine struct {
	reader Reader
}

// New creates an Engine reading from r.
func New(r Reader) *Engine {
	return &Engine{reader: r}
}

// Compute reads the stores and assembles a snapshot. The four reads are
// independent and run concurrently. The first read error is returned as-is
// and no partial snapshot is produced.
func (e *Engine) Compute(ctx context.Context) (*Snapshot, error) {
	var (
		processes []*model.Process
		anomalies []*model.EventAggregate
		warnings  []*model.EventAggregate
		history   []*model.HistoryPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		processes, err = e.reader.ListProcesses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		anomalies, err = e.reader.ListEvents(gctx, model.ClassAnomaly)
		return err
	})
	g.Go(func() error {
		var err error
		warnings, err = e.reader.ListEvents(gctx, model.ClassWarning)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = e.reader.ListHistory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Assemble(processes, anomalies, warnings, history), nil
}

// Assemble builds a snapshot from already-read rows. Input order is kept in
// every output list.
func Assemble(processes []*model.Process, anomalies, warnings []*model.EventAggregate, history []*model.HistoryPoint) *Snapshot {
	totalAnomalies, anomalyDelay := sum(anomalies)
	totalWarnings, warningDelay := sum(warnings)
	totalDelay := anomalyDelay + warningDelay

	hist := make([]HistoryData, 0, len(history)+1)
	for _, h := range history {
		hist = append(hist, HistoryData{Date: h.Date, Delay: h.TotalDelay})
	}
	hist = append(hist, HistoryData{Date: CurrentLabel, Delay: RoundTenth(totalDelay)})

	stats := make([]ProcessStat, 0, len(processes))
	for _, p := range processes {
		stats = append(stats, ProcessStat{
			Name:    p.Name,
			Normal:  p.NormalCount,
			Warning: p.WarningCount,
			Anomaly: p.AnomalyCount,
		})
	}

	return &Snapshot{
		AnomalyData:          issues(anomalies),
		WarningData:          issues(warnings),
		TotalAnomalies:       totalAnomalies,
		TotalWarnings:        totalWarnings,
		TotalDelayHours:      totalDelay,
		OriginalDeadline:     OriginalDeadline,
		OverallEfficiency:    OverallEfficiency,
		ProductionEfficiency: ProductionEfficiency,
		HistoryData:          hist,
		ProcessStats:         stats,
	}
}

// RoundTenth rounds v to one decimal place, halves rounding toward positive
// infinity. The fraction is compared rather than added to 0.5, which would
// carry values just below a half over to the next tenth.
func RoundTenth(v float64) float64 {
	x := v * 10
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r / 10
}

func sum(events []*model.EventAggregate) (count int, delay float64) {
	for _, e := range events {
		count += e.Count
		delay += e.DelayHours()
	}
	return count, delay
}

func issues(events []*model.EventAggregate) []IssueData {
	out := make([]IssueData, 0, len(events))
	for _, e := range events {
		out = append(out, IssueData{
			Process:          e.ProcessName,
			Count:            e.Count,
			AvgDelayPerIssue: e.AvgDelay,
		})
	}
	return out
}
