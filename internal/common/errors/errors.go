// internal/common/errors/errors.go

// Package errors provides standardized error handling for the scoring
// pipeline. Sub-scorer faults are converted to fallback scores upstream;
// the types here describe the faults themselves and how they map to HTTP.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Reference lookups.
	ErrCodeReferenceNotFound ErrorCode = "REFERENCE_NOT_FOUND"
	ErrCodeDirectoryMiss     ErrorCode = "DIRECTORY_MISS"

	// Caller-side faults.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeInvalidPhone    ErrorCode = "INVALID_PHONE"

	// External collaborators.
	ErrCodeCollaboratorUnavailable ErrorCode = "COLLABORATOR_UNAVAILABLE"
	ErrCodeCollaboratorTimeout     ErrorCode = "COLLABORATOR_TIMEOUT"
	ErrCodeAuthTokenFailed         ErrorCode = "AUTH_TOKEN_FAILED"
	ErrCodeTranscriptionFailed     ErrorCode = "TRANSCRIPTION_FAILED"
	ErrCodeExtractionFailed        ErrorCode = "EXTRACTION_FAILED"
	ErrCodeGeocodingFailed         ErrorCode = "GEOCODING_FAILED"

	// Aggregation.
	ErrCodeAggregationFailed ErrorCode = "AGGREGATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewReferenceNotFoundError marks a phone number with no record at a
// collaborator. Scorers translate this into their conservative-suspicious
// fallback score; it is never surfaced as a request failure.
func NewReferenceNotFoundError(collaborator, phoneNumber string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceNotFound,
		Message:   fmt.Sprintf("no reference record in %s", collaborator),
		Details:   fmt.Sprintf("phoneNumber: %s", phoneNumber),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidArgumentError marks out-of-range or malformed caller input.
// This is the one taxonomy entry that fails loudly instead of degrading
// into a fallback score.
func NewInvalidArgumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   "invalid argument",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPhoneError marks a missing or non-E.164 phone number.
func NewInvalidPhoneError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPhone,
		Message:   "invalid phone number",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCollaboratorUnavailableError wraps a network/availability fault of an
// external service.
func NewCollaboratorUnavailableError(collaborator string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCollaboratorUnavailable,
		Message:   fmt.Sprintf("collaborator '%s' unavailable", collaborator),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCollaboratorTimeoutError wraps a timeout of an external service call.
func NewCollaboratorTimeoutError(collaborator string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCollaboratorTimeout,
		Message:   fmt.Sprintf("collaborator '%s' timed out", collaborator),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthTokenFailedError wraps a token-acquisition failure for the telco API.
func NewAuthTokenFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthTokenFailed,
		Message:   "failed to obtain access token",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranscriptionFailedError wraps a speech-to-text failure.
func NewTranscriptionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranscriptionFailed,
		Message:   "audio transcription failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError wraps a transcript-to-claim extraction failure.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "caller claim extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeocodingFailedError wraps a best-effort geocoder failure.
func NewGeocodingFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeocodingFailed,
		Message:   "geocoding failed",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationFailedError marks the case where all three sub-scorers were
// unusable. The engine maps it to the default high-risk score rather than
// failing the request.
func NewAggregationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationFailed,
		Message:   "all verification components failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsNotFound reports whether err is a reference-not-found fault.
func IsNotFound(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeReferenceNotFound || se.Code == ErrCodeDirectoryMiss
	}
	return false
}

// IsInvalidArgument reports whether err is a caller-side input fault.
func IsInvalidArgument(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidArgument || se.Code == ErrCodeInvalidPhone
	}
	return false
}

// HTTPStatus maps an error to the status the HTTP entry point should return:
// caller faults are 400, everything else is a 500.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if IsInvalidArgument(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
