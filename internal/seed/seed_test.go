package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfredjeanlab/riskboard/internal/model"
	"github.com/alfredjeanlab/riskboard/internal/store"
)

// mockStore records writes in memory. Transactions stage writes on a copy
// and only publish them on success.
type mockStore struct {
	processes []*model.Process
	events    []*model.EventAggregate
	history   []*model.HistoryPoint
	countErr  error
	createErr error
	txCount   int
}

func (m *mockStore) ListProcesses(context.Context) ([]*model.Process, error) {
	return m.processes, nil
}

func (m *mockStore) ListEvents(_ context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	var out []*model.EventAggregate
	for _, e := range m.events {
		if e.Classification == class {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) ListHistory(context.Context) ([]*model.HistoryPoint, error) {
	return m.history, nil
}

func (m *mockStore) CountProcesses(context.Context) (int, error) {
	return len(m.processes), m.countErr
}

func (m *mockStore) CreateProcess(_ context.Context, p *model.Process) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = int64(len(m.processes) + 1)
	m.processes = append(m.processes, p)
	return nil
}

func (m *mockStore) CreateEvent(_ context.Context, e *model.EventAggregate) error {
	e.ID = int64(len(m.events) + 1)
	m.events = append(m.events, e)
	return nil
}

func (m *mockStore) AppendHistory(_ context.Context, h *model.HistoryPoint) error {
	h.ID = int64(len(m.history) + 1)
	m.history = append(m.history, h)
	return nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	m.txCount++
	staged := &mockStore{
		processes: append([]*model.Process(nil), m.processes...),
		events:    append([]*model.EventAggregate(nil), m.events...),
		history:   append([]*model.HistoryPoint(nil), m.history...),
		createErr: m.createErr,
	}
	if err := fn(staged); err != nil {
		return err
	}
	m.processes, m.events, m.history = staged.processes, staged.events, staged.history
	return nil
}

func (m *mockStore) Close() error { return nil }

func TestLoad_Embedded(t *testing.T) {
	fx, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fx.Processes) != 5 || len(fx.Events) != 10 || len(fx.History) != 4 {
		t.Fatalf("unexpected sizes: %d processes, %d events, %d history",
			len(fx.Processes), len(fx.Events), len(fx.History))
	}
	if fx.Processes[2].Name != "차체" || fx.Processes[2].Status != "위험" {
		t.Fatalf("unexpected third process: %+v", fx.Processes[2])
	}
	if fx.History[0].Date != "1/5" || fx.History[3].TotalDelay != 51 {
		t.Fatalf("unexpected history: %+v", fx.History)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fx.yaml")
	data := "processes:\n  - {name: 조립, efficiency: 70, status: 정상}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	fx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fx.Processes) != 1 || fx.Processes[0].Name != "조립" {
		t.Fatalf("unexpected fixture: %+v", fx)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("processes: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApply_EmptyStore(t *testing.T) {
	fx, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	ms := &mockStore{}
	seeded, err := Apply(context.Background(), ms, fx)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !seeded {
		t.Fatal("expected seeded = true")
	}
	if len(ms.processes) != 5 || len(ms.events) != 10 || len(ms.history) != 4 {
		t.Fatalf("unexpected store sizes: %d/%d/%d", len(ms.processes), len(ms.events), len(ms.history))
	}
	if ms.txCount != 1 {
		t.Fatalf("expected one transaction, got %d", ms.txCount)
	}
	if ms.events[1].Classification != model.ClassWarning || ms.events[1].ProcessName != "프레스" {
		t.Fatalf("unexpected second event: %+v", ms.events[1])
	}
}

func TestApply_NonEmptyStoreIsNoop(t *testing.T) {
	fx, _ := Load("")
	ms := &mockStore{processes: []*model.Process{{ID: 1, Name: "설비"}}}
	seeded, err := Apply(context.Background(), ms, fx)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if seeded {
		t.Fatal("expected seeded = false")
	}
	if len(ms.events) != 0 || ms.txCount != 0 {
		t.Fatal("non-empty store must not be written")
	}
}

func TestApply_InvalidRowRollsBack(t *testing.T) {
	fx := &Fixture{
		Processes: []ProcessRow{{Name: "프레스", Efficiency: 85, Status: "정상"}},
		Events:    []EventRow{{Process: "프레스", Count: 1, AvgDelay: 1, Type: "critical"}},
	}
	ms := &mockStore{}
	seeded, err := Apply(context.Background(), ms, fx)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if seeded {
		t.Fatal("expected seeded = false")
	}
	if len(ms.processes) != 0 {
		t.Fatal("failed seed must leave the store empty")
	}
}

func TestApply_CountError(t *testing.T) {
	boom := errors.New("connection refused")
	ms := &mockStore{countErr: boom}
	if _, err := Apply(context.Background(), ms, &Fixture{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, err)
	}
}

func TestApply_CreateError(t *testing.T) {
	boom := errors.New("disk full")
	ms := &mockStore{createErr: boom}
	fx := &Fixture{Processes: []ProcessRow{{Name: "엔진", Efficiency: 90, Status: "정상"}}}
	if _, err := Apply(context.Background(), ms, fx); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, err)
	}
}
