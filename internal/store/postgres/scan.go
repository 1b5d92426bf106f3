package postgres

import (
	"github.com/alfredjeanlab/riskboard/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProcess scans a single row into a model.Process.
// The row must contain columns in the order defined by processColumns.
func scanProcess(row scannable) (*model.Process, error) {
	var p model.Process
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Efficiency,
		&p.Status,
		&p.NormalCount,
		&p.WarningCount,
		&p.AnomalyCount,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanEvent scans a single row into a model.EventAggregate.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.EventAggregate, error) {
	var (
		e     model.EventAggregate
		class string
	)
	if err := row.Scan(&e.ID, &e.ProcessName, &e.Count, &e.AvgDelay, &class); err != nil {
		return nil, err
	}
	e.Classification = model.Classification(class)
	return &e, nil
}

// scanHistoryPoint scans a single row into a model.HistoryPoint.
func scanHistoryPoint(row scannable) (*model.HistoryPoint, error) {
	var h model.HistoryPoint
	if err := row.Scan(&h.ID, &h.Date, &h.TotalDelay); err != nil {
		return nil, err
	}
	return &h, nil
}
