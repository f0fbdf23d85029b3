package core

import (
	"errors"
	"fmt"
)

// ErrSnapshotTruncated is matched by every *SnapshotTruncatedError
var ErrSnapshotTruncated = errors.New("artifact snapshot truncated")

// ConfigValidationError reports a malformed configuration. It is fatal and is
// raised before any side effect.
type ConfigValidationError struct {
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// SnapshotTruncatedError reports an incomplete artifact listing. Proceeding
// with partial data would miss duplicates, so the invocation is aborted.
type SnapshotTruncatedError struct {
	Kind      string
	Collected int
}

func (e *SnapshotTruncatedError) Error() string {
	return fmt.Sprintf("%s listing truncated after %d entries", e.Kind, e.Collected)
}

func (e *SnapshotTruncatedError) Is(target error) bool {
	return target == ErrSnapshotTruncated
}

// ItemError reports a failed side effect for a single todo. Sibling todos
// are not affected.
type ItemError struct {
	Op         string
	Title      string
	Repository string
	File       string
	Line       int
	Err        error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s [%s] in %s (%s:%d): %v", e.Op, e.Title, e.Repository, e.File, e.Line, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
