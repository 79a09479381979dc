package core

// validation.go provides row-level validation for invoice CSV data.
//
// Validation happens at two levels:
//  1. Header validation: ensures required columns are present (see parse.go)
//  2. Row validation: checks each cell against its FieldSpec
//
// ValidateRow always checks every field, even when an earlier one already
// failed, and returns the full error list. A user must see every problem in
// a row in one pass, not one-at-a-time. Malformed input is a reportable
// outcome, never a fault: no validator panics or returns a transport error.

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ValidateName checks that a value is present after trimming.
// Returns the trimmed value on success.
func ValidateName(field, raw string) (string, *FieldError) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &FieldError{Field: field, Message: "Missing " + field}
	}
	return s, nil
}

// ValidateEmail checks RFC 5322 mailbox syntax on the trimmed value.
// Deliverability is not checked: a syntactically valid but unreachable
// address passes. Display-name forms ("Alice <a@b.com>") are rejected
// because the cell must hold a bare address.
func ValidateEmail(field, raw string) (string, *FieldError) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &FieldError{Field: field, Message: "Missing " + field}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", &FieldError{Field: field, Message: "Invalid " + field + " format"}
	}
	return s, nil
}

// ValidateAmount strips grouping separators and currency symbols, then
// parses the value as a decimal. Negative amounts are accepted: the
// converter only checks parseability, not range, so credit notes pass
// through unchanged.
func ValidateAmount(field, raw string) (float64, *FieldError) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &FieldError{Field: field, Message: "Missing " + field}
	}
	f, ok := NumericFloat(ToNumeric(s))
	if !ok {
		return 0, &FieldError{Field: field, Message: field + " must be numeric"}
	}
	return f, nil
}

// ValidateDate parses the value against the fixed precedence list in
// convert.go. Fails only if no layout matches.
func ValidateDate(field, raw string) (time.Time, *FieldError) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, &FieldError{Field: field, Message: "Missing " + field}
	}
	d := ToDate(s)
	if !d.Valid {
		return time.Time{}, &FieldError{
			Field:   field,
			Message: fmt.Sprintf("Invalid Date format (use YYYY-MM-DD): %s", s),
		}
	}
	return d.Time, nil
}

// ValidateRow runs all four field validators over one raw row and collects
// every resulting error in field-declaration order. If no field failed, it
// constructs the Record from the normalized values; construction is
// all-or-nothing, so a partial record is never exposed.
func ValidateRow(row RawRow) (Record, *RowError) {
	var errs []FieldError

	name, nameErr := ValidateName("Client Name", row.Cells["Client Name"])
	if nameErr != nil {
		errs = append(errs, *nameErr)
	}

	email, emailErr := ValidateEmail("Client Email", row.Cells["Client Email"])
	if emailErr != nil {
		errs = append(errs, *emailErr)
	}

	amount, amountErr := ValidateAmount("Invoice Amount", row.Cells["Invoice Amount"])
	if amountErr != nil {
		errs = append(errs, *amountErr)
	}

	due, dueErr := ValidateDate("Due Date", row.Cells["Due Date"])
	if dueErr != nil {
		errs = append(errs, *dueErr)
	}

	if len(errs) > 0 {
		return Record{}, &RowError{
			Row:    row.Ordinal,
			Errors: errs,
			Data:   row.Cells,
		}
	}

	return Record{
		Row:         row.Ordinal,
		ClientName:  name,
		ClientEmail: email,
		Amount:      amount,
		DueDate:     due,
	}, nil
}
