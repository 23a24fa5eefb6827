package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during order ingestion.
//
// Runtime errors include:
//   - Unavailable: ordering is paused, submissions are rejected
//   - Bad submission: the submission shape is unparsable or names no items
//
// RuntimeError includes structured fields for diagnostics and recovery.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Ticket identifies the affected submission, when one was assigned.
	Ticket string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnavailable indicates ordering is paused.
	ErrCodeUnavailable RuntimeErrorCode = "UNAVAILABLE"

	// ErrCodeBadSubmission indicates the submission shape is invalid.
	ErrCodeBadSubmission RuntimeErrorCode = "BAD_SUBMISSION"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Ticket != "" {
		return fmt.Sprintf("%s: %s (ticket=%s)", e.Code, e.Message, e.Ticket)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnavailable returns true if the error is a paused-ordering rejection.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnavailable
	}
	return false
}

// IsBadSubmission returns true if the error is a submission shape error.
// Uses errors.As to handle wrapped errors.
func IsBadSubmission(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeBadSubmission
	}
	return false
}

// NewUnavailableError creates a RuntimeError for a paused-ordering rejection.
func NewUnavailableError() *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnavailable,
		Message: "ordering is paused; submission rejected",
	}
}

// NewBadSubmissionError creates a RuntimeError for an invalid submission shape.
func NewBadSubmissionError(ticket, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeBadSubmission,
		Message: reason,
		Ticket:  ticket,
	}
}
