package model

// Classification partitions event aggregates into anomalies and warnings.
type Classification string

const (
	ClassAnomaly Classification = "anomaly"
	ClassWarning Classification = "warning"
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// IsValid checks whether the classification is one of the two known values.
func (c Classification) IsValid() bool {
	switch c {
	case ClassAnomaly, ClassWarning:
		return true
	}
	return false
}

// EventAggregate is a pre-aggregated count and average delay for one process.
// ProcessName refers to a Process by name but is not enforced as a foreign key.
type EventAggregate struct {
	ID             int64          `json:"id"`
	ProcessName    string         `json:"process_name"`
	Count          int            `json:"count"`
	AvgDelay       float64        `json:"avg_delay"` // hours per occurrence
	Classification Classification `json:"type"`
}

// DelayHours returns the hours lost to this aggregate (count × average delay).
func (e *EventAggregate) DelayHours() float64 {
	return float64(e.Count) * e.AvgDelay
}
