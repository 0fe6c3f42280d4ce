package ingest

// RowFailure records one rejected row.
type RowFailure struct {
	RowIndex    int       `json:"row"`
	ProductCode string    `json:"product_code,omitempty"`
	Color       string    `json:"color,omitempty"`
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"error"`
}

// RowWarning records a non-fatal degradation on a row that still counts as
// succeeded (coerced numeric cells, skipped image attachments).
type RowWarning struct {
	RowIndex int    `json:"row"`
	Message  string `json:"message"`
}

// Report is the structured outcome of one ingestion run. The created-entity
// lists let an operator spot unintended reference proliferation from typos.
type Report struct {
	Success        bool         `json:"success"`
	SuccessCount   int          `json:"success_count"`
	FailedCount    int          `json:"failed_count"`
	Failures       []RowFailure `json:"failures,omitempty"`
	Warnings       []RowWarning `json:"warnings,omitempty"`
	UniqueProducts int          `json:"unique_products"`
	CreatedBrands  []string     `json:"created_brands,omitempty"`
	CreatedColors  []string     `json:"created_colors,omitempty"`
	CreatedTypes   []string     `json:"created_types,omitempty"`
	// NotAttempted counts rows never reached because a storage fault
	// aborted the run. Chunks committed before the fault stay applied.
	NotAttempted int    `json:"not_attempted,omitempty"`
	Error        string `json:"error,omitempty"`
}
