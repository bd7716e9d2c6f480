package analyses

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else; callers must not be able to tell them apart.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means no requester identity was supplied.
	ErrUnauthorized = errors.New("identity required")

	// ErrBackendUnavailable wraps transport or provider failures talking
	// to the scoring backend.
	ErrBackendUnavailable = errors.New("scoring backend unavailable")

	// ErrPersistence wraps store failures after a report was computed.
	// The report is discarded; the caller must resubmit.
	ErrPersistence = errors.New("failed to save analysis")
)
