package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks invalid operator input; nothing is written when it fires.
	ErrValidation = errors.New("validation failed")
	// ErrSchemaUnavailable means the primary store lacks the expected tables.
	ErrSchemaUnavailable = errors.New("schema unavailable")
	// ErrDuplicateKey marks a unique-constraint collision (e.g. order_number).
	ErrDuplicateKey = errors.New("duplicate key")
)

// PartialBatchError reports a batched insert that failed partway through.
// Batches committed before the failure stay committed.
type PartialBatchError struct {
	Created int
	Batch   int
	Err     error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("batch %d failed after %d orders created: %v", e.Batch, e.Created, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }
