package core

// errors.go defines the batch-level error taxonomy and maps internal errors
// to user-friendly messages with codes for support reference.
//
// Batch-level errors are fatal: they abort the entire batch before any row
// processing and surface as a single top-level error response. Row-level
// problems never appear here; they live inside the BatchReport.
//
// Error codes:
//
//	FILE001 - Invalid CSV: the payload could not be decoded as tabular data
//	FILE002 - Empty file: the file has no data rows
//	VAL004  - Missing column: a required column is absent from the header
//	GEN001  - Unexpected: anything the mapper does not recognize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCSV indicates the payload could not be decoded as CSV.
var ErrInvalidCSV = errors.New("invalid CSV file")

// ErrEmptyBatch indicates the payload decoded but contains no data rows.
var ErrEmptyBatch = errors.New("CSV file is empty")

// MissingColumnsError lists required columns absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// UserMessage is a user-friendly rendering of an internal error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError converts an internal error into a UserMessage suitable for
// display. Unrecognized errors fall through with a generic code so the
// technical detail stays in the server log, not the response.
func MapError(err error) UserMessage {
	var missing *MissingColumnsError

	switch {
	case errors.As(err, &missing):
		return UserMessage{
			Code:    "VAL004",
			Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing.Columns, ", ")),
			Action:  "Check that all required columns are present in your file",
		}
	case errors.Is(err, ErrEmptyBatch):
		return UserMessage{
			Code:    "FILE002",
			Message: "CSV file is empty",
			Action:  "Upload a file with at least one data row",
		}
	case errors.Is(err, ErrInvalidCSV):
		return UserMessage{
			Code:    "FILE001",
			Message: "Invalid CSV file",
			Action:  "Ensure the file is comma-separated with a header row",
		}
	default:
		return UserMessage{
			Code:    "GEN001",
			Message: "An unexpected error occurred",
			Action:  "Please try again",
		}
	}
}
