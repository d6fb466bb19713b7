package domain

import "errors"

var (
	// ErrJobNotFound is returned when no job exists with the requested id
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidTransition is returned when a status update violates the
	// monotonic SUBMITTED -> RUNNING -> {SUCCEEDED, FAILED} ordering
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrJobAlreadyClaimed is returned when attempting to claim a job that's
	// not in SUBMITTED status anymore
	ErrJobAlreadyClaimed = errors.New("job already claimed or not in SUBMITTED status")
)

// StorageError wraps persistence-layer failures. It is the only retryable
// condition for Job Store reads.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage error: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError
func NewStorageError(err error) error {
	return &StorageError{Err: err}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// SchedulingError means the job record was created but the handoff to the
// pipeline queue failed. The job stays SUBMITTED and remains queryable.
type SchedulingError struct {
	JobID int64
	Err   error
}

func (e *SchedulingError) Error() string {
	return "scheduling error: " + e.Err.Error()
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// RetryableError wraps transient worker errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
