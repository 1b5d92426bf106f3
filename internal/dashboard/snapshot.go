package dashboard

// Values reported as-is on every snapshot. They are not derived from stored data.
const (
	OriginalDeadline     = "2026-01-20T18:00:00"
	OverallEfficiency    = 86.6
	ProductionEfficiency = 94.2

	// CurrentLabel is the date label of the history point synthesized from
	// the current total delay.
	CurrentLabel = "1/9"
)

// IssueData is one anomaly or warning aggregate as reported to clients.
type IssueData struct {
	Process          string  `json:"process"`
	Count            int     `json:"count"`
	AvgDelayPerIssue float64 `json:"avgDelayPerIssue"`
}

// HistoryData is one point of the delay time series. The field names on the
// wire are the localized labels the dashboard charts key on.
type HistoryData struct {
	Date  string  `json:"날짜"`
	Delay float64 `json:"지연시간"`
}

// ProcessStat is the quality-state breakdown of one process.
type ProcessStat struct {
	Name    string `json:"name"`
	Normal  int    `json:"정상"`
	Warning int    `json:"경고"`
	Anomaly int    `json:"이상"`
}

// Snapshot is the full dashboard payload. It is built fresh on every
// request and never mutated after Assemble returns it.
type Snapshot struct {
	AnomalyData          []IssueData   `json:"anomalyData"`
	WarningData          []IssueData   `json:"warningData"`
	TotalAnomalies       int           `json:"totalAnomalies"`
	TotalWarnings        int           `json:"totalWarnings"`
	TotalDelayHours      float64       `json:"totalDelayHours"`
	OriginalDeadline     string        `json:"originalDeadline"`
	OverallEfficiency    float64       `json:"overallEfficiency"`
	ProductionEfficiency float64       `json:"productionEfficiency"`
	HistoryData          []HistoryData `json:"historyData"`
	ProcessStats         []ProcessStat `json:"processStats"`
}
