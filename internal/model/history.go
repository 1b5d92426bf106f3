package model

// HistoryPoint is one dated sample of total delay hours.
type HistoryPoint struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"` // free-form label, e.g. "1/5"
	TotalDelay float64 `json:"total_delay"`
}
