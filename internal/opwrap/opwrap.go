// Package opwrap supplies generic "failed to X" error wrapping and an
// error-joining Chain. Inside this module, Chain joins the validation
// failures collected by internal/config and internal/validation.
package opwrap

import (
	"fmt"
	"strings"
)

// OperationError describes a failed operation with optional component
// and resource context, e.g. "failed to insert, component: database,
// resource: attempts, cause: connection timeout".
type OperationError struct {
	Operation string
	Component string
	Resource  string
	Cause     error
}

func (e *OperationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to %s", e.Operation)
	if e.Component != "" {
		fmt.Fprintf(&b, ", component: %s", e.Component)
	}
	if e.Resource != "" {
		fmt.Fprintf(&b, ", resource: %s", e.Resource)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ", cause: %s", e.Cause)
	}
	return b.String()
}

func (e *OperationError) Unwrap() error { return e.Cause }

// FailedTo wraps cause as an *OperationError whose message reads
// "failed to <action>[, cause: <cause>]". It always returns a non-nil
// error, even when cause is nil.
func FailedTo(action string, cause error) error {
	return &OperationError{Operation: action, Cause: cause}
}

// FailedToWithDetails is FailedTo plus component/resource context.
func FailedToWithDetails(action, component, resource string, cause error) error {
	return &OperationError{Operation: action, Component: component, Resource: resource, Cause: cause}
}

// Wrapf wraps err with a formatted prefix, in the style of fmt.Errorf's
// %w but without requiring callers to remember the verb. Returns nil
// when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	prefix := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", prefix, err)
}

func DatabaseError(operation string, cause error) error {
	return FailedToWithDetails(operation, "database", "", cause)
}

func NetworkError(operation, endpoint string, cause error) error {
	return &OperationError{Operation: operation, Component: "network", Resource: endpoint, Cause: cause}
}

func ValidationError(field, reason string) error {
	return fmt.Errorf("validation failed for field %s: %s", field, reason)
}

func ConfigurationError(setting, reason string) error {
	return fmt.Errorf("configuration error for setting %s: %s", setting, reason)
}

func TimeoutError(operation, after string) error {
	return fmt.Errorf("timeout while %s after %s", operation, after)
}

func AuthenticationError(reason string) error {
	return fmt.Errorf("authentication failed: %s", reason)
}

func AuthorizationError(action, resource string) error {
	return fmt.Errorf("authorization failed: insufficient permissions to %s %s", action, resource)
}

func ParseError(subject, format string, cause error) error {
	return fmt.Errorf("failed to parse %s as %s: %w", subject, format, cause)
}

// IsRetryable is a heuristic over an error's message, used to decide
// whether a transient database/object-store failure is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "connection refused", "unavailable", "temporarily", "deadline exceeded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Chain joins non-nil errors with "; ". A single surviving error keeps
// its message unchanged; two or more are prefixed with "multiple errors: ".
// Returns nil when every error is nil.
func Chain(errs ...error) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	switch len(msgs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s", msgs[0])
	default:
		return fmt.Errorf("multiple errors: %s", strings.Join(msgs, "; "))
	}
}
