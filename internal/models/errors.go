package models

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of failure that ended a job.
type ErrorKind string

const (
	// Registry manifest missing, malformed, or otherwise unusable; also
	// covers unusable output directories and run configuration.
	ErrConfig ErrorKind = "config"

	// Task identifier not present in the manifest.
	ErrUnknownTask ErrorKind = "unknown_task"

	// Input directory violates the naming/cardinality contract.
	ErrMissingInput   ErrorKind = "missing_input"
	ErrAmbiguousInput ErrorKind = "ambiguous_input"

	// Prediction engine not found, failed to start, or exited non-zero.
	ErrPredictionEngine ErrorKind = "prediction_engine"

	// Engine reported success but produced no usable segmentation.
	ErrIncompleteOutput ErrorKind = "incomplete_output"

	// Internal contract violation; a defect in the orchestrator itself.
	ErrInconsistentState ErrorKind = "inconsistent_state"
)

// Process exit statuses, one per failure kind. Stable; documented in the
// README.
const (
	ExitOK               = 0
	ExitUsage            = 2
	ExitUnknownTask      = 3
	ExitInputContract    = 4
	ExitEngine           = 5
	ExitIncompleteOutput = 6
	ExitInternal         = 7
)

// ExitCode maps the failure kind to its process exit status.
func (k ErrorKind) ExitCode() int {
	switch k {
	case ErrConfig:
		return ExitUsage
	case ErrUnknownTask:
		return ExitUnknownTask
	case ErrMissingInput, ErrAmbiguousInput:
		return ExitInputContract
	case ErrPredictionEngine:
		return ExitEngine
	case ErrIncompleteOutput:
		return ExitIncompleteOutput
	}
	return ExitInternal
}

// JobError is a terminal job failure: the kind, a human-readable cause,
// and for engine failures the captured standard error, verbatim.
type JobError struct {
	Kind        ErrorKind
	Message     string
	Diagnostics string
	Err         error
}

func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Errf builds a JobError with a formatted message.
func Errf(kind ErrorKind, format string, args ...any) *JobError {
	return &JobError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrapf builds a JobError around an underlying cause.
func Wrapf(kind ErrorKind, err error, format string, args ...any) *JobError {
	return &JobError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure kind from an error chain. Errors that are
// not JobErrors are orchestrator defects.
func KindOf(err error) ErrorKind {
	var je *JobError
	if errors.As(err, &je) {
		return je.Kind
	}
	return ErrInconsistentState
}

// ExitCodeFor maps any job error to its process exit status.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	return KindOf(err).ExitCode()
}
