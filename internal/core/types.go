// Package core provides the business logic for invoice batch processing.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"context"
	"time"
)

// FieldKind represents the expected data type for a CSV field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEmail
	FieldNumeric
	FieldDate
)

// FieldSpec defines validation rules for a single CSV column.
type FieldSpec struct {
	Name string    // Column header name (must match CSV exactly after trimming)
	Kind FieldKind // Expected data type
}

// InvoiceFields lists the required columns for an invoice batch, in
// declaration order. Field errors for a row are reported in this order.
var InvoiceFields = []FieldSpec{
	{Name: "Client Name", Kind: FieldText},
	{Name: "Client Email", Kind: FieldEmail},
	{Name: "Invoice Amount", Kind: FieldNumeric},
	{Name: "Due Date", Kind: FieldDate},
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// RawRow is one data row as read from the CSV, keyed by column name.
// It exists only during parsing; valid rows become Records, invalid rows
// keep their RawRow cells inside the RowError for diagnostics.
type RawRow struct {
	// Ordinal is the 1-based row number as a spreadsheet editor shows it:
	// the header is row 1, so the first data row is 2.
	Ordinal int
	Cells   map[string]string
}

// FieldError describes a single invalid field within a row.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// RowError collects all field errors for one invalid row, along with the
// raw cell data so the caller can render diagnostics.
type RowError struct {
	Row    int               `json:"row"`
	Errors []FieldError      `json:"errors"`
	Data   map[string]string `json:"data,omitempty"`
}

// Record is a fully validated billing record. A Record exists only if all
// four fields passed validation; partial records are never constructed.
type Record struct {
	Row         int // source row ordinal, for error reporting
	ClientName  string
	ClientEmail string
	Amount      float64
	DueDate     time.Time
}

// Artifact references a rendered invoice document. Created once per Record
// that completes generation; never mutated.
type Artifact struct {
	Row       int    // ordinal of the record that produced it
	Locator   string // path to the rendered document
	CreatedAt time.Time
}

// DispatchOutcome is the result of one delivery attempt.
// Simulated is true when no real transport is configured and the dispatch
// was a dry run: no external effect happened, but the outcome counts as
// delivered so development batches report the same shape as production ones.
type DispatchOutcome struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Stage identifies where in the pipeline a record failed.
type Stage string

const (
	StageGeneration Stage = "generation"
	StageDispatch   Stage = "dispatch"
)

// ProcessingError describes a record that passed validation but failed
// during generation or dispatch.
type ProcessingError struct {
	Row    int    `json:"row"`
	Stage  Stage  `json:"stage"`
	Client string `json:"client"`
	Reason string `json:"reason"`
}

// InvoiceSummary is the per-record success entry in the final report.
type InvoiceSummary struct {
	Client    string `json:"client"`
	URL       string `json:"url"`
	Simulated bool   `json:"simulated,omitempty"`
}

// ReportError is one entry in the report's merged error list. Validation
// errors carry per-field messages plus the offending row data; processing
// errors carry a single message and a stage tag.
type ReportError struct {
	Row      int               `json:"row"`
	Stage    string            `json:"stage"`
	Messages []string          `json:"errors"`
	Data     map[string]string `json:"data,omitempty"`
}

// BatchReport is the sole externally visible result of a batch run.
// It is aggregated while the batch executes and immutable once returned:
// the caller always receives one full accounting, never a partial one.
type BatchReport struct {
	Status            string           `json:"status"`
	TotalRows         int              `json:"total_rows"`
	Processed         int              `json:"processed"`
	EmailSent         int              `json:"email_sent"`
	Errors            []ReportError    `json:"errors"`
	GeneratedInvoices []InvoiceSummary `json:"generated_invoices"`
}

// ParseResult is the partition produced by ParseBatch: every data row ends
// up in exactly one of Records or RowErrors, so
// len(Records)+len(RowErrors) == TotalRows.
type ParseResult struct {
	TotalRows int
	Records   []Record
	RowErrors []RowError
}

// Generator renders one validated record into a durable document and
// returns a reference to it. Implementations must be safe to call once per
// record; the orchestrator performs no deduplication.
type Generator interface {
	Generate(ctx context.Context, rec Record) (Artifact, error)
}

// Dispatcher transmits a rendered document plus a message body to a
// recipient. A returned error or an outcome with Success=false both count
// as dispatch failures; the orchestrator treats them identically.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipient, subject, body, attachment string) (DispatchOutcome, error)
}
