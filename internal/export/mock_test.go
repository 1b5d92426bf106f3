package export

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

// mockReader serves fixed rows.
type mockReader struct {
	processes []*model.Process
	events    []*model.EventAggregate
	history   []*model.HistoryPoint
	err       error
}

func (m *mockReader) ListProcesses(context.Context) ([]*model.Process, error) {
	return m.processes, m.err
}

func (m *mockReader) ListEvents(_ context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*model.EventAggregate
	for _, e := range m.events {
		if e.Classification == class {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockReader) ListHistory(context.Context) ([]*model.HistoryPoint, error) {
	return m.history, m.err
}

func sampleReader() *mockReader {
	return &mockReader{
		processes: []*model.Process{
			{ID: 1, Name: "프레스", Efficiency: 85, Status: "정상", NormalCount: 85, WarningCount: 10, AnomalyCount: 5},
		},
		events: []*model.EventAggregate{
			{ID: 1, ProcessName: "프레스", Count: 5, AvgDelay: 2.5, Classification: model.ClassAnomaly},
			{ID: 2, ProcessName: "프레스", Count: 10, AvgDelay: 0.5, Classification: model.ClassWarning},
		},
		history: []*model.HistoryPoint{{ID: 1, Date: "1/5", TotalDelay: 35}},
	}
}

// mockDestination records calls to Write.
type mockDestination struct {
	name   string
	fail   bool
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Name() string { return d.name }

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	if d.fail {
		return errors.New("destination unavailable")
	}
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return nil
}

// recordingPublisher keeps every published topic.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) snapshot() ([]string, []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...), append([]any(nil), p.events...)
}
