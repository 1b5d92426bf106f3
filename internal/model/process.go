package model

// Process is one manufacturing stage in the process directory.
type Process struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Efficiency   float64 `json:"efficiency"` // percent, 0-100
	Status       string  `json:"status"`
	NormalCount  int     `json:"normal_count"`
	WarningCount int     `json:"warning_count"`
	AnomalyCount int     `json:"anomaly_count"`
}
