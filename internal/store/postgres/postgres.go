// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/riskboard/internal/model"
	"github.com/alfredjeanlab/riskboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ListProcesses(ctx context.Context) ([]*model.Process, error) {
	return queryListProcesses(ctx, s.db)
}

func (s *PostgresStore) ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	return queryListEvents(ctx, s.db, class)
}

func (s *PostgresStore) ListHistory(ctx context.Context) ([]*model.HistoryPoint, error) {
	return queryListHistory(ctx, s.db)
}

func (s *PostgresStore) CountProcesses(ctx context.Context) (int, error) {
	return queryCountProcesses(ctx, s.db)
}

func (s *PostgresStore) CreateProcess(ctx context.Context, p *model.Process) error {
	return queryCreateProcess(ctx, s.db, p)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e *model.EventAggregate) error {
	return queryCreateEvent(ctx, s.db, e)
}

func (s *PostgresStore) AppendHistory(ctx context.Context, h *model.HistoryPoint) error {
	return queryAppendHistory(ctx, s.db, h)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) ListProcesses(ctx context.Context) ([]*model.Process, error) {
	return queryListProcesses(ctx, s.tx)
}

func (s *txStore) ListEvents(ctx context.Context, class model.Classification) ([]*model.EventAggregate, error) {
	return queryListEvents(ctx, s.tx, class)
}

func (s *txStore) ListHistory(ctx context.Context) ([]*model.HistoryPoint, error) {
	return queryListHistory(ctx, s.tx)
}

func (s *txStore) CountProcesses(ctx context.Context) (int, error) {
	return queryCountProcesses(ctx, s.tx)
}

func (s *txStore) CreateProcess(ctx context.Context, p *model.Process) error {
	return queryCreateProcess(ctx, s.tx, p)
}

func (s *txStore) CreateEvent(ctx context.Context, e *model.EventAggregate) error {
	return queryCreateEvent(ctx, s.tx, e)
}

func (s *txStore) AppendHistory(ctx context.Context, h *model.HistoryPoint) error {
	return queryAppendHistory(ctx, s.tx, h)
}

// RunInTransaction on a txStore reuses the open transaction.
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op; the owning PostgresStore closes the connection.
func (s *txStore) Close() error {
	return nil
}
