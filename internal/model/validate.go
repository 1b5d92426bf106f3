package model

import (
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// result returns e as an error when it holds failures, or nil.
func (e *ValidationError) result() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// ValidateProcess checks a Process before it is written to the directory.
func ValidateProcess(p *Process) error {
	var ve ValidationError

	if strings.TrimSpace(p.Name) == "" {
		ve.add("name", "is required")
	}
	if p.Efficiency < 0 || p.Efficiency > 100 {
		ve.add("efficiency", "must be between 0 and 100")
	}
	if p.NormalCount < 0 {
		ve.add("normal_count", "must not be negative")
	}
	if p.WarningCount < 0 {
		ve.add("warning_count", "must not be negative")
	}
	if p.AnomalyCount < 0 {
		ve.add("anomaly_count", "must not be negative")
	}

	return ve.result()
}

// ValidateEventAggregate checks an EventAggregate before it is written to the event store.
func ValidateEventAggregate(e *EventAggregate) error {
	var ve ValidationError

	if strings.TrimSpace(e.ProcessName) == "" {
		ve.add("process_name", "is required")
	}
	if !e.Classification.IsValid() {
		ve.add("type", `must be "anomaly" or "warning"`)
	}
	if e.Count < 0 {
		ve.add("count", "must not be negative")
	}
	if e.AvgDelay < 0 {
		ve.add("avg_delay", "must not be negative")
	}

	return ve.result()
}

// ValidateHistoryPoint checks a HistoryPoint before it is appended to the history store.
func ValidateHistoryPoint(h *HistoryPoint) error {
	var ve ValidationError

	if strings.TrimSpace(h.Date) == "" {
		ve.add("date", "is required")
	}

	return ve.result()
}
