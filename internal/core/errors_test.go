package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantIn   string
	}{
		{
			name:     "missing columns",
			err:      &MissingColumnsError{Columns: []string{"Due Date"}},
			wantCode: "VAL004",
			wantIn:   "Due Date",
		},
		{
			name:     "empty batch",
			err:      ErrEmptyBatch,
			wantCode: "FILE002",
			wantIn:   "empty",
		},
		{
			name:     "invalid csv wrapped",
			err:      fmt.Errorf("%w: parse error on line 3", ErrInvalidCSV),
			wantCode: "FILE001",
			wantIn:   "Invalid CSV",
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			wantCode: "GEN001",
			wantIn:   "unexpected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", msg.Code, tt.wantCode)
			}
			if !strings.Contains(strings.ToLower(msg.Message), strings.ToLower(tt.wantIn)) {
				t.Errorf("Message = %q, want it to mention %q", msg.Message, tt.wantIn)
			}
		})
	}
}

func TestMissingColumnsError_Error(t *testing.T) {
	err := &MissingColumnsError{Columns: []string{"Invoice Amount", "Due Date"}}
	want := "missing required columns: Invoice Amount, Due Date"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
