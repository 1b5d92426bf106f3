// Package sqlite implements the store.Store interface backed by an embedded
// SQLite database file. It is intended for local runs and single-node setups.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/alfredjeanlab/riskboard/internal/model"
	"github.com/alfredjeanlab/riskboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements store.Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteStore)(nil)

// New opens (creating if needed) the SQLite database at path and applies
// pending migrations. SQLite allows a single writer, so the pool is capped
// at one connection.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListProcesses(ctx context.Context) ([]*model.Process, error) {
	return listProcesses(ctx, s.db)
}

func (s *SQLiteStore) ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	return listEvents(ctx, s.db, class)
}

func (s *SQLiteStore) ListHistory(ctx context.Context) ([]*model.HistoryPoint, error) {
	return listHistory(ctx, s.db)
}

func (s *SQLiteStore) CountProcesses(ctx context.Context) (int, error) {
	return countProcesses(ctx, s.db)
}

func (s *SQLiteStore) CreateProcess(ctx context.Context, p *model.Process) error {
	return createProcess(ctx, s.db, p)
}

func (s *SQLiteStore) CreateEvent(ctx context.Context, e *model.EventAggregate) error {
	return createEvent(ctx, s.db, e)
}

func (s *SQLiteStore) AppendHistory(ctx context.Context, h *model.HistoryPoint) error {
	return appendHistory(ctx, s.db, h)
}

// RunInTransaction runs fn inside a transaction, committing on success.
func (s *SQLiteStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type txStore struct {
	tx *sql.Tx
}

var _ store.Store = (*txStore)(nil)

func (s *txStore) ListProcesses(ctx context.Context) ([]*model.Process, error) {
	return listProcesses(ctx, s.tx)
}

func (s *txStore) ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	return listEvents(ctx, s.tx, class)
}

func (s *txStore) ListHistory(ctx context.Context) ([]*model.HistoryPoint, error) {
	return listHistory(ctx, s.tx)
}

func (s *txStore) CountProcesses(ctx context.Context) (int, error) {
	return countProcesses(ctx, s.tx)
}

func (s *txStore) CreateProcess(ctx context.Context, p *model.Process) error {
	return createProcess(ctx, s.tx, p)
}

func (s *txStore) CreateEvent(ctx context.Context, e *model.EventAggregate) error {
	return createEvent(ctx, s.tx, e)
}

func (s *txStore) AppendHistory(ctx context.Context, h *model.HistoryPoint) error {
	return appendHistory(ctx, s.tx, h)
}

func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

func (s *txStore) Close() error { return nil }
