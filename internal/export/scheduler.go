package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/alfredjeanlab/riskboard/internal/dashboard"
	"github.com/alfredjeanlab/riskboard/internal/events"
	"github.com/alfredjeanlab/riskboard/internal/idgen"
)

// Destination is the interface for an export target (S3, git, etc.).
type Destination interface {
	Name() string
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Result describes one finished export.
type Result struct {
	ExportID     string    `json:"export_id"`
	Bytes        int       `json:"bytes"`
	Destinations []string  `json:"destinations"`
	Failed       []string  `json:"failed,omitempty"`
	At           time.Time `json:"at"`
}

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	reader       dashboard.Reader
	destinations []Destination
	interval     time.Duration
	publisher    events.Publisher
	logger       *slog.Logger

	runMu  sync.Mutex // serializes exports
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from r to the given
// destinations every interval. A nil publisher disables export events.
func NewScheduler(r dashboard.Reader, destinations []Destination, interval time.Duration, pub events.Publisher, logger *slog.Logger) *Scheduler {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		reader:       r,
		destinations: destinations,
		interval:     interval,
		publisher:    pub,
		logger:       logger,
	}
}

// Start runs an initial export immediately, then one per interval. A
// non-positive interval leaves only on-demand exports via RunNow.
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	_, _ = s.RunNow(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunNow(ctx)
		}
	}
}

// RunNow performs one export to every destination. A failing destination
// does not stop the others; their errors are joined in the returned error
// and listed in Result.Failed.
func (s *Scheduler) RunNow(ctx context.Context) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	id, err := idgen.ExportID()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.reader, &buf, id); err != nil {
		s.logger.Error("export failed", "export_id", id, "err", err)
		s.notify(ctx, events.TopicExportFailed, events.ExportFailed{ExportID: id, Error: err.Error()})
		return nil, err
	}
	data := buf.Bytes()

	res := &Result{ExportID: id, Bytes: len(data), At: time.Now().UTC()}
	var errs []error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("export destination write failed", "export_id", id, "destination", dest.Name(), "err", err)
			res.Failed = append(res.Failed, dest.Name())
			errs = append(errs, fmt.Errorf("%s: %w", dest.Name(), err))
			continue
		}
		res.Destinations = append(res.Destinations, dest.Name())
	}

	if err := errors.Join(errs...); err != nil {
		s.notify(ctx, events.TopicExportFailed, events.ExportFailed{ExportID: id, Error: err.Error()})
		return res, err
	}

	s.logger.Info("export completed", "export_id", id, "destinations", len(res.Destinations), "size", humanize.Bytes(uint64(len(data))))
	s.notify(ctx, events.TopicExportCompleted, events.ExportCompleted{
		ExportID:     id,
		Bytes:        len(data),
		Destinations: res.Destinations,
		At:           res.At,
	})
	return res, nil
}

func (s *Scheduler) notify(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish export event", "topic", topic, "err", err)
	}
}
