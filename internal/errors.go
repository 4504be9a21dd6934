package internal

import (
	"errors"
	"fmt"
)

// Store errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrConditionFailed = errors.New("conditional write failed")
)

// Stage errors. A stage wraps the underlying cause with one of these so the
// worker can decide whether River should retry the job.
var (
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrProcessorFailure   = errors.New("media processor failure")
	ErrTransferFailure    = errors.New("blob transfer failure")
	ErrStoreFailure       = errors.New("job store failure")
	ErrMissingAudio       = errors.New("missing audio track")
	ErrMissingChunk       = errors.New("missing chunk")
)

// IsRetryable reports whether a stage error may succeed on redelivery.
// Processor and store failures are permanent for a given input.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrProcessorFailure) && !errors.Is(err, ErrStoreFailure)
}

// storeError wraps an error from a Store call made by a stage. A missing
// record or a lost conditional write is permanent and becomes an
// ErrStoreFailure. Anything else, such as a dropped connection, stays
// retryable: every write is conditional, so a redelivered event cannot repeat
// one that committed.
func storeError(msg string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConditionFailed) || errors.Is(err, ErrDuplicateKey) {
		return fmt.Errorf("%w: %s: %w", ErrStoreFailure, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
