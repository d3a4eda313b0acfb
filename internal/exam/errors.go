package exam

import (
	"fmt"
	"strings"
)

// ValidationError reports preconditions that failed before a mutation was
// attempted. Nothing has been changed when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// ConcurrencyError means a collaborative mutation carried a stale revision
// token. The caller must refetch the exam and retry.
type ConcurrencyError struct {
	ExamID string
	Rev    string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("stale revision %q for exam %s", e.Rev, e.ExamID)
}

// TransportError wraps a network or server failure on a persistence call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ConfigurationError means a feature cannot be set up with the data at
// hand, e.g. auto evaluation without a grade scale. The feature stays
// disabled; this is a degraded but valid condition, not a hard failure.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }
