package postgres

import (
	"context"
	"database/sql"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

const (
	processColumns = `id, name, efficiency, status, normal_count, warning_count, anomaly_count`
	eventColumns   = `id, process_name, count, avg_delay, type`
	historyColumns = `id, date, total_delay`
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryListProcesses(ctx context.Context, db executor) ([]*model.Process, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+processColumns+` FROM processes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []*model.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, err
		}
		processes = append(processes, p)
	}
	return processes, rows.Err()
}

func queryListEvents(ctx context.Context, db executor, class model.Classification) ([]*model.EventAggregate, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM anomalies WHERE type = $1 ORDER BY id ASC`,
		string(class),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.EventAggregate
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func queryListHistory(ctx context.Context, db executor) ([]*model.HistoryPoint, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+historyColumns+` FROM dashboard_history ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*model.HistoryPoint
	for rows.Next() {
		h, err := scanHistoryPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, h)
	}
	return points, rows.Err()
}

func queryCountProcesses(ctx context.Context, db executor) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func queryCreateProcess(ctx context.Context, db executor, p *model.Process) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO processes (name, efficiency, status, normal_count, warning_count, anomaly_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Name,
		p.Efficiency,
		p.Status,
		p.NormalCount,
		p.WarningCount,
		p.AnomalyCount,
	).Scan(&p.ID)
}

func queryCreateEvent(ctx context.Context, db executor, e *model.EventAggregate) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO anomalies (process_name, count, avg_delay, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		e.ProcessName,
		e.Count,
		e.AvgDelay,
		string(e.Classification),
	).Scan(&e.ID)
}

func queryAppendHistory(ctx context.Context, db executor, h *model.HistoryPoint) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO dashboard_history (date, total_delay)
		VALUES ($1, $2)
		RETURNING id`,
		h.Date,
		h.TotalDelay,
	).Scan(&h.ID)
}
