package ingest

import "fmt"

// ErrorKind classifies row and batch level ingestion failures.
type ErrorKind string

const (
	// MissingRequiredField marks a row lacking product code, brand or color.
	MissingRequiredField ErrorKind = "missing_required_field"
	// AttachmentFailure marks a failed image fetch/save; the row still succeeds.
	AttachmentFailure ErrorKind = "attachment_failure"
	// StorageFault marks an underlying database failure.
	StorageFault ErrorKind = "storage_fault"
)

// RowError describes why a single row was rejected or degraded.
type RowError struct {
	Kind    ErrorKind
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
