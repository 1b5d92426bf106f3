package store

import (
	"context"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

// Store defines the persistence interface for the process directory, the
// event store and the delay history.
type Store interface {
	// Reads consumed by the dashboard engine.
	ListProcesses(ctx context.Context) ([]*model.Process, error)
	ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error) // exact match on class
	ListHistory(ctx context.Context) ([]*model.HistoryPoint, error)                              // ascending insertion order

	// Seeding
	CountProcesses(ctx context.Context) (int, error)
	CreateProcess(ctx context.Context, p *model.Process) error
	CreateEvent(ctx context.Context, e *model.EventAggregate) error
	AppendHistory(ctx context.Context, h *model.HistoryPoint) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
