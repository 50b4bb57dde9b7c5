package opwrap

import (
	"fmt"
	"strings"
	"testing"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name: "full error",
			err: &OperationError{
				Operation: "insert record",
				Component: "database",
				Resource:  "attempts",
				Cause:     fmt.Errorf("connection timeout"),
			},
			expected: "failed to insert record, component: database, resource: attempts, cause: connection timeout",
		},
		{
			name:     "minimal error",
			err:      &OperationError{Operation: "parse config", Cause: fmt.Errorf("invalid yaml")},
			expected: "failed to parse config, cause: invalid yaml",
		},
		{
			name:     "no cause",
			err:      &OperationError{Operation: "validate input", Component: "validator"},
			expected: "failed to validate input, component: validator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := &OperationError{Operation: "test", Cause: cause}
	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestFailedToWithDetails(t *testing.T) {
	cause := fmt.Errorf("timeout")
	err := FailedToWithDetails("query attempts", "database", "attempts_table", cause)

	opErr, ok := err.(*OperationError)
	if !ok {
		t.Fatalf("FailedToWithDetails() should return *OperationError, got %T", err)
	}
	if opErr.Operation != "query attempts" || opErr.Component != "database" || opErr.Resource != "attempts_table" {
		t.Errorf("unexpected fields: %+v", opErr)
	}
}

func TestWrapf(t *testing.T) {
	result := Wrapf(fmt.Errorf("original error"), "additional context: %s", "test")
	if result.Error() != "additional context: test: original error" {
		t.Errorf("Wrapf() = %q", result.Error())
	}
	if Wrapf(nil, "should not wrap") != nil {
		t.Errorf("Wrapf(nil, ...) should return nil")
	}
}

func TestDatabaseError(t *testing.T) {
	err := DatabaseError("insert record", fmt.Errorf("connection lost"))
	if !strings.Contains(err.Error(), "failed to insert record") || !strings.Contains(err.Error(), "database") {
		t.Errorf("DatabaseError() = %q", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"timeout", fmt.Errorf("request timeout"), true},
		{"connection refused", fmt.Errorf("connection refused by server"), true},
		{"unavailable", fmt.Errorf("service unavailable"), true},
		{"permanent error", fmt.Errorf("invalid syntax"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestChain(t *testing.T) {
	if Chain(nil, nil) != nil {
		t.Errorf("Chain() of all-nil should be nil")
	}
	if got := Chain(fmt.Errorf("single error"), nil).Error(); got != "single error" {
		t.Errorf("Chain() single = %q", got)
	}
	got := Chain(fmt.Errorf("error 1"), fmt.Errorf("error 2"), nil, fmt.Errorf("error 3")).Error()
	want := "multiple errors: error 1; error 2; error 3"
	if got != want {
		t.Errorf("Chain() = %q, want %q", got, want)
	}
}
