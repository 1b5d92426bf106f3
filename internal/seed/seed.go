// Package seed loads the initial process directory, event aggregates and
// delay history into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/riskboard/internal/model"
	"github.com/alfredjeanlab/riskboard/internal/store"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture is the on-disk seed format.
type Fixture struct {
	Processes []ProcessRow `yaml:"processes"`
	Events    []EventRow   `yaml:"events"`
	History   []HistoryRow `yaml:"history"`
}

type ProcessRow struct {
	Name       string  `yaml:"name"`
	Efficiency float64 `yaml:"efficiency"`
	Status     string  `yaml:"status"`
	Normal     int     `yaml:"normal"`
	Warning    int     `yaml:"warning"`
	Anomaly    int     `yaml:"anomaly"`
}

type EventRow struct {
	Process  string  `yaml:"process"`
	Count    int     `yaml:"count"`
	AvgDelay float64 `yaml:"avg_delay"`
	Type     string  `yaml:"type"`
}

type HistoryRow struct {
	Date       string  `yaml:"date"`
	TotalDelay float64 `yaml:"total_delay"`
}

// Load reads a fixture from path. An empty path selects the embedded default.
func Load(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes YAML fixture data.
func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fx, nil
}

// Apply writes fx into s when the process directory is empty. It reports
// whether anything was written. All rows go in one transaction; a failed
// row leaves the store untouched.
func Apply(ctx context.Context, s store.Store, fx *Fixture) (bool, error) {
	n, err := s.CountProcesses(ctx)
	if err != nil {
		return false, fmt.Errorf("count processes: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	err = s.RunInTransaction(ctx, func(tx store.Store) error {
		for _, r := range fx.Processes {
			p := &model.Process{
				Name:         r.Name,
				Efficiency:   r.Efficiency,
				Status:       r.Status,
				NormalCount:  r.Normal,
				WarningCount: r.Warning,
				AnomalyCount: r.Anomaly,
			}
			if err := model.ValidateProcess(p); err != nil {
				return fmt.Errorf("process %q: %w", r.Name, err)
			}
			if err := tx.CreateProcess(ctx, p); err != nil {
				return fmt.Errorf("create process %q: %w", r.Name, err)
			}
		}

		for i, r := range fx.Events {
			e := &model.EventAggregate{
				ProcessName:    r.Process,
				Count:          r.Count,
				AvgDelay:       r.AvgDelay,
				Classification: model.Classification(r.Type),
			}
			if err := model.ValidateEventAggregate(e); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
			if err := tx.CreateEvent(ctx, e); err != nil {
				return fmt.Errorf("create event %d: %w", i, err)
			}
		}

		for _, r := range fx.History {
			h := &model.HistoryPoint{Date: r.Date, TotalDelay: r.TotalDelay}
			if err := model.ValidateHistoryPoint(h); err != nil {
				return fmt.Errorf("history %q: %w", r.Date, err)
			}
			if err := tx.AppendHistory(ctx, h); err != nil {
				return fmt.Errorf("append history %q: %w", r.Date, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
