package session

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes refinement errors.
type ErrorCode string

const (
	// ErrCodeSessionNotFound - no session with the requested id.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// ErrCodeHoleNotFound - the hole id is not in the session's ambiguity set.
	ErrCodeHoleNotFound ErrorCode = "HOLE_NOT_FOUND"

	// ErrCodeInvalidResolutionType - the resolution type is outside the
	// accepted set for the target hole's kind.
	ErrCodeInvalidResolutionType ErrorCode = "INVALID_RESOLUTION_TYPE"

	// ErrCodeInvalidResolutionText - the resolution text cannot be applied
	// to the target hole: empty, or markers used where the hole's kind
	// cannot record them.
	ErrCodeInvalidResolutionText ErrorCode = "INVALID_RESOLUTION_TEXT"

	// ErrCodeUnresolvedAmbiguities - finalize attempted with open holes.
	ErrCodeUnresolvedAmbiguities ErrorCode = "UNRESOLVED_AMBIGUITIES"

	// ErrCodeValidationFailed - finalize attempted while the draft is not valid.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// ErrCodeSessionFinalized - mutation attempted on a finalized session.
	ErrCodeSessionFinalized ErrorCode = "SESSION_FINALIZED"

	// ErrCodeSolverTimeout - the solver did not answer within its deadline.
	// Degrades validation status to unknown; never fatal.
	ErrCodeSolverTimeout ErrorCode = "SOLVER_TIMEOUT"

	// ErrCodeSolverError - the solver failed outright. Degrades to unknown.
	ErrCodeSolverError ErrorCode = "SOLVER_ERROR"
)

// Error is a structured refinement error. Structural errors (hole not
// found, wrong resolution type, finalized session) fail fast and leave
// state unchanged; validation-domain outcomes additionally carry the
// ValidationResult so callers can inspect what failed.
type Error struct {
	Code      ErrorCode
	Message   string
	SessionID string
	HoleID    string
	// Result is attached for ErrCodeValidationFailed.
	Result *ValidationResult
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.SessionID != "" && e.HoleID != "":
		return fmt.Sprintf("%s: %s (session=%s, hole=%s)", e.Code, e.Message, e.SessionID, e.HoleID)
	case e.SessionID != "":
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.SessionID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// CodeOf extracts the error code from an error, or "" if it is not a
// session.Error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err is a session-not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeSessionNotFound }

// IsHoleNotFound reports whether err is a hole-not-found error.
func IsHoleNotFound(err error) bool { return CodeOf(err) == ErrCodeHoleNotFound }

// IsFinalized reports whether err rejects a mutation on a finalized session.
func IsFinalized(err error) bool { return CodeOf(err) == ErrCodeSessionFinalized }

// NewSessionNotFound creates a session-not-found error.
func NewSessionNotFound(id string) *Error {
	return &Error{Code: ErrCodeSessionNotFound, Message: "no such session", SessionID: id}
}

// NewHoleNotFound creates a hole-not-found error.
func NewHoleNotFound(sessionID, holeID string) *Error {
	return &Error{
		Code:      ErrCodeHoleNotFound,
		Message:   "hole is not among the session's ambiguities",
		SessionID: sessionID,
		HoleID:    holeID,
	}
}

// NewInvalidResolutionType creates an incompatible-resolution error.
func NewInvalidResolutionType(sessionID, holeID string, rt ResolutionType, kind string) *Error {
	return &Error{
		Code:      ErrCodeInvalidResolutionType,
		Message:   fmt.Sprintf("resolution type %q does not apply to %s holes", rt, kind),
		SessionID: sessionID,
		HoleID:    holeID,
	}
}

// NewInvalidResolutionText creates an unusable-resolution-text rejection.
func NewInvalidResolutionText(sessionID, holeID, reason string) *Error {
	return &Error{
		Code:      ErrCodeInvalidResolutionText,
		Message:   reason,
		SessionID: sessionID,
		HoleID:    holeID,
	}
}

// NewSessionFinalized creates a finalized-session rejection.
func NewSessionFinalized(sessionID string) *Error {
	return &Error{
		Code:      ErrCodeSessionFinalized,
		Message:   "session is finalized and read-only",
		SessionID: sessionID,
	}
}

// NewUnresolvedAmbiguities creates a finalize-guard error for open holes.
func NewUnresolvedAmbiguities(sessionID string, open int) *Error {
	return &Error{
		Code:      ErrCodeUnresolvedAmbiguities,
		Message:   fmt.Sprintf("%d holes remain unresolved", open),
		SessionID: sessionID,
	}
}

// NewValidationFailed creates a finalize-guard error carrying the findings.
func NewValidationFailed(sessionID string, result *ValidationResult) *Error {
	status := StatusPending
	if result != nil {
		status = result.Status
	}
	return &Error{
		Code:      ErrCodeValidationFailed,
		Message:   fmt.Sprintf("validation status is %q, not valid", status),
		SessionID: sessionID,
		Result:    result,
	}
}
