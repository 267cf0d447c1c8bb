package models

import "errors"

// Error taxonomy shared across the service. Callers wrap these with
// fmt.Errorf("...: %w", err) and check with errors.Is.
var (
	// ErrInvalidArgument marks user-correctable input errors; surfaced
	// synchronously to the caller of create/update operations.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing reminder, category, user or alert.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable marks a transient persistence failure.
	// Background evaluation paths log it and retry on the next cycle.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAlertSinkFailure marks a failed alert write. The triggering
	// condition is not retried in-cycle; the next sweep or qualifying
	// transaction re-evaluates it.
	ErrAlertSinkFailure = errors.New("alert sink failure")
)
