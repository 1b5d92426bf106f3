package sqlite

import (
	"context"
	"database/sql"

	"github.com/alfredjeanlab/riskboard/internal/model"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func listProcesses(ctx context.Context, db executor) ([]*model.Process, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, efficiency, status, normal_count, warning_count, anomaly_count
		FROM processes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Process
	for rows.Next() {
		var p model.Process
		if err := rows.Scan(&p.ID, &p.Name, &p.Efficiency, &p.Status, &p.NormalCount, &p.WarningCount, &p.AnomalyCount); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func listEvents(ctx context.Context, db executor, class model.Classification) ([]*model.EventAggregate, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, process_name, count, avg_delay, type
		FROM anomalies WHERE type = ? ORDER BY id ASC`, string(class))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.EventAggregate
	for rows.Next() {
		var (
			e   model.EventAggregate
			typ string
		)
		if err := rows.Scan(&e.ID, &e.ProcessName, &e.Count, &e.AvgDelay, &typ); err != nil {
			return nil, err
		}
		e.Classification = model.Classification(typ)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func listHistory(ctx context.Context, db executor) ([]*model.HistoryPoint, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, date, total_delay FROM dashboard_history ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.HistoryPoint
	for rows.Next() {
		var h model.HistoryPoint
		if err := rows.Scan(&h.ID, &h.Date, &h.TotalDelay); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func countProcesses(ctx context.Context, db executor) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func createProcess(ctx context.Context, db executor, p *model.Process) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO processes (name, efficiency, status, normal_count, warning_count, anomaly_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Efficiency, p.Status, p.NormalCount, p.WarningCount, p.AnomalyCount)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func createEvent(ctx context.Context, db executor, e *model.EventAggregate) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO anomalies (process_name, count, avg_delay, type)
		VALUES (?, ?, ?, ?)`,
		e.ProcessName, e.Count, e.AvgDelay, string(e.Classification))
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func appendHistory(ctx context.Context, db executor, h *model.HistoryPoint) error {
	res, err := db.ExecContext(ctx, `INSERT INTO dashboard_history (date, total_delay) VALUES (?, ?)`, h.Date, h.TotalDelay)
	if err != nil {
		return err
	}
	h.ID, err = res.LastInsertId()
	return err
}
