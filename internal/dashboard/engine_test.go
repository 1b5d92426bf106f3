package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

// fakeReader serves fixed rows and counts calls per read.
type fakeReader struct {
	mu        sync.Mutex
	processes []*model.Process
	events    []*model.EventAggregate
	history   []*model.HistoryPoint

	processErr error
	eventErr   error
	historyErr error

	calls map[string]int
}

func (f *fakeReader) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeReader) ListProcesses(context.Context) ([]*model.Process, error) {
	f.hit("processes")
	return f.processes, f.processErr
}

func (f *fakeReader) ListEvents(_ context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	f.hit(string(class))
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	var out []*model.EventAggregate
	for _, e := range f.events {
		if e.Classification == class {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeReader) ListHistory(context.Context) ([]*model.HistoryPoint, error) {
	f.hit("history")
	return f.history, f.historyErr
}

func ev(process string, count int, avg float64, class model.Classification) *model.EventAggregate {
	return &model.EventAggregate{ProcessName: process, Count: count, AvgDelay: avg, Classification: class}
}

func TestCompute_EmptyStore(t *testing.T) {
	snap, err := New(&fakeReader{}).Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalAnomalies != 0 || snap.TotalWarnings != 0 || snap.TotalDelayHours != 0 {
		t.Fatalf("expected zero totals, got %+v", snap)
	}
	if len(snap.AnomalyData) != 0 || len(snap.WarningData) != 0 || len(snap.ProcessStats) != 0 {
		t.Fatalf("expected empty lists, got %+v", snap)
	}
	if len(snap.HistoryData) != 1 || snap.HistoryData[0] != (HistoryData{Date: CurrentLabel, Delay: 0}) {
		t.Fatalf("expected only the synthesized point, got %+v", snap.HistoryData)
	}
	if snap.OriginalDeadline != "2026-01-20T18:00:00" || snap.OverallEfficiency != 86.6 || snap.ProductionEfficiency != 94.2 {
		t.Fatalf("unexpected constants: %+v", snap)
	}
}

func TestCompute_EmptyListsEncodeAsArrays(t *testing.T) {
	snap, err := New(&fakeReader{}).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"anomalyData", "warningData", "processStats"} {
		if string(raw[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, raw[key])
		}
	}
}

func TestCompute_WeightedSumAndCounts(t *testing.T) {
	r := &fakeReader{events: []*model.EventAggregate{
		ev("P1", 5, 2.5, model.ClassAnomaly),
		ev("P2", 3, 4.0, model.ClassAnomaly),
		ev("P1", 10, 0.5, model.ClassWarning),
	}}
	snap, err := New(r).Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalDelayHours != 29.5 {
		t.Errorf("TotalDelayHours = %v, want 29.5", snap.TotalDelayHours)
	}
	if snap.TotalAnomalies != 8 {
		t.Errorf("TotalAnomalies = %d, want 8", snap.TotalAnomalies)
	}
	if snap.TotalWarnings != 10 {
		t.Errorf("TotalWarnings = %d, want 10", snap.TotalWarnings)
	}
}

func TestCompute_CountsIgnoreDelay(t *testing.T) {
	r := &fakeReader{events: []*model.EventAggregate{
		ev("P1", 5, 100, model.ClassAnomaly),
		ev("P2", 3, 0, model.ClassAnomaly),
		ev("P1", 10, 7.25, model.ClassWarning),
	}}
	snap, err := New(r).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalAnomalies != 8 || snap.TotalWarnings != 10 {
		t.Fatalf("totals = %d/%d, want 8/10", snap.TotalAnomalies, snap.TotalWarnings)
	}
}

func TestCompute_PreservesOrder(t *testing.T) {
	r := &fakeReader{
		processes: []*model.Process{
			{Name: "설비", NormalCount: 92, WarningCount: 5, AnomalyCount: 3},
			{Name: "프레스", NormalCount: 85, WarningCount: 10, AnomalyCount: 5},
		},
		events: []*model.EventAggregate{
			ev("차체", 7, 3.2, model.ClassAnomaly),
			ev("엔진", 3, 4.0, model.ClassAnomaly),
			ev("프레스", 5, 2.5, model.ClassAnomaly),
		},
	}
	snap, err := New(r).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"차체", "엔진", "프레스"}
	for i, name := range want {
		if snap.AnomalyData[i].Process != name {
			t.Fatalf("anomaly[%d] = %q, want %q", i, snap.AnomalyData[i].Process, name)
		}
	}
	if snap.ProcessStats[0].Name != "설비" || snap.ProcessStats[1].Name != "프레스" {
		t.Fatalf("process order changed: %+v", snap.ProcessStats)
	}
	if snap.ProcessStats[1] != (ProcessStat{Name: "프레스", Normal: 85, Warning: 10, Anomaly: 5}) {
		t.Fatalf("unexpected stat: %+v", snap.ProcessStats[1])
	}

	// Reversing the rows reverses the output.
	r.events[0], r.events[2] = r.events[2], r.events[0]
	snap, err = New(r).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.AnomalyData[0].Process != "프레스" || snap.AnomalyData[2].Process != "차체" {
		t.Fatalf("output did not follow store order: %+v", snap.AnomalyData)
	}
}

func TestCompute_HistoryAppendNotPersisted(t *testing.T) {
	r := &fakeReader{
		events: []*model.EventAggregate{
			ev("P1", 5, 2.5, model.ClassAnomaly),
			ev("P2", 3, 4.0, model.ClassAnomaly),
			ev("P1", 10, 0.5, model.ClassWarning),
		},
		history: []*model.HistoryPoint{
			{ID: 1, Date: "1/5", TotalDelay: 35},
			{ID: 2, Date: "1/6", TotalDelay: 42},
		},
	}
	want := []HistoryData{{"1/5", 35}, {"1/6", 42}, {CurrentLabel, 29.5}}
	eng := New(r)
	for call := 0; call < 2; call++ {
		snap, err := eng.Compute(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.HistoryData) != len(want) {
			t.Fatalf("call %d: history = %+v", call, snap.HistoryData)
		}
		for i := range want {
			if snap.HistoryData[i] != want[i] {
				t.Fatalf("call %d: history[%d] = %+v, want %+v", call, i, snap.HistoryData[i], want[i])
			}
		}
	}
	if len(r.history) != 2 {
		t.Fatalf("store history grew to %d", len(r.history))
	}
}

func TestCompute_SameProcessInBothLists(t *testing.T) {
	r := &fakeReader{events: []*model.EventAggregate{
		ev("프레스", 5, 2.5, model.ClassAnomaly),
		ev("프레스", 10, 0.5, model.ClassWarning),
	}}
	snap, err := New(r).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.AnomalyData) != 1 || len(snap.WarningData) != 1 {
		t.Fatalf("expected one entry per list, got %+v / %+v", snap.AnomalyData, snap.WarningData)
	}
	if snap.AnomalyData[0] != (IssueData{"프레스", 5, 2.5}) || snap.WarningData[0] != (IssueData{"프레스", 10, 0.5}) {
		t.Fatalf("unexpected entries: %+v / %+v", snap.AnomalyData, snap.WarningData)
	}
}

func TestCompute_NegativeCountsAggregatedAsIs(t *testing.T) {
	r := &fakeReader{events: []*model.EventAggregate{
		ev("P1", 4, 1, model.ClassAnomaly),
		ev("P2", -1, 2, model.ClassAnomaly),
	}}
	snap, err := New(r).Compute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalAnomalies != 3 || snap.TotalDelayHours != 2 {
		t.Fatalf("totals = %d / %v", snap.TotalAnomalies, snap.TotalDelayHours)
	}
}

func TestCompute_StoreErrorsReturnedUnwrapped(t *testing.T) {
	boom := errors.New("store unavailable")
	tests := []struct {
		name   string
		reader *fakeReader
	}{
		{"processes", &fakeReader{processErr: boom}},
		{"events", &fakeReader{eventErr: boom}},
		{"history", &fakeReader{historyErr: boom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := New(tt.reader).Compute(context.Background())
			if err != boom {
				t.Fatalf("err = %v, want %v", err, boom)
			}
			if snap != nil {
				t.Fatal("expected no snapshot on error")
			}
		})
	}
}

func TestCompute_ReadsEachSourceOnce(t *testing.T) {
	r := &fakeReader{}
	if _, err := New(r).Compute(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"processes", "anomaly", "warning", "history"} {
		if r.calls[name] != 1 {
			t.Errorf("%s read %d times, want 1", name, r.calls[name])
		}
	}
}

func TestRoundTenth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{29.47, 29.5},
		{29.44, 29.4},
		{29.5, 29.5},
		{0.25, 0.3},
		{100.9, 100.9},
		{0, 0},
		{0.049999999999999996, 0},
		{-0.25, -0.2},
		{-29.47, -29.5},
	}
	for _, tt := range tests {
		if got := RoundTenth(tt.in); got != tt.want {
			t.Errorf("RoundTenth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotJSONKeys(t *testing.T) {
	snap := Assemble(
		[]*model.Process{{Name: "엔진", NormalCount: 90, WarningCount: 7, AnomalyCount: 3}},
		[]*model.EventAggregate{ev("엔진", 3, 4.0, model.ClassAnomaly)},
		nil,
		[]*model.HistoryPoint{{Date: "1/8", TotalDelay: 51}},
	)
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"anomalyData", "warningData", "totalAnomalies", "totalWarnings", "totalDelayHours",
		"originalDeadline", "overallEfficiency", "productionEfficiency", "historyData", "processStats",
	} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	hist := got["historyData"].([]any)[0].(map[string]any)
	if hist["날짜"] != "1/8" || hist["지연시간"] != 51.0 {
		t.Errorf("unexpected history entry: %v", hist)
	}
	stat := got["processStats"].([]any)[0].(map[string]any)
	if stat["name"] != "엔진" || stat["정상"] != 90.0 || stat["경고"] != 7.0 || stat["이상"] != 3.0 {
		t.Errorf("unexpected process stat: %v", stat)
	}
	issue := got["anomalyData"].([]any)[0].(map[string]any)
	if issue["process"] != "엔진" || issue["avgDelayPerIssue"] != 4.0 {
		t.Errorf("unexpected issue: %v", issue)
	}
}
