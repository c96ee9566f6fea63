package matrix

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a structured error response from the homeserver. Callers use
// errors.As to extract it, or the IsAlreadyInRoom / IsRoomGone helpers for
// the semantic categories the reconciler cares about.
type Error struct {
	// Code is the Matrix error code (e.g. "M_FORBIDDEN", "M_NOT_FOUND").
	Code string `json:"errcode"`
	// Message is the human-readable description from the server.
	Message string `json:"error"`
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Standard Matrix error codes.
const (
	ErrCodeForbidden    = "M_FORBIDDEN"
	ErrCodeUnknownToken = "M_UNKNOWN_TOKEN"
	ErrCodeNotFound     = "M_NOT_FOUND"
	ErrCodeUnknown      = "M_UNKNOWN"
	ErrCodeInvalidParam = "M_INVALID_PARAM"
	ErrCodeLimitExceed  = "M_LIMIT_EXCEEDED"
)

// IsError checks whether err is a *Error with the given error code.
func IsError(err error, code string) bool {
	var matrixErr *Error
	if errors.As(err, &matrixErr) {
		return matrixErr.Code == code
	}
	return false
}

// IsAlreadyInRoom reports whether err is the homeserver telling us an invite
// was redundant. Synapse phrases this several ways depending on whether the
// target is joined or merely invited, so matching is on the message text.
func IsAlreadyInRoom(err error) bool {
	var matrixErr *Error
	if !errors.As(err, &matrixErr) {
		return false
	}
	message := strings.ToLower(matrixErr.Message)
	return strings.Contains(message, "already in the room") ||
		strings.Contains(message, "already a member") ||
		strings.Contains(message, "already joined") ||
		strings.Contains(message, "already invited")
}

// IsNotInRoom reports whether err indicates the target user is not (or no
// longer) a member of the room. Removal treats this as already satisfied.
func IsNotInRoom(err error) bool {
	var matrixErr *Error
	if !errors.As(err, &matrixErr) {
		return false
	}
	message := strings.ToLower(matrixErr.Message)
	return strings.Contains(message, "not in room") ||
		strings.Contains(message, "not a member") ||
		strings.Contains(message, "not in the room")
}

// IsRoomGone reports whether err indicates the room itself no longer exists
// on the homeserver. The reconciler uses this as its recreation trigger.
func IsRoomGone(err error) bool {
	var matrixErr *Error
	if !errors.As(err, &matrixErr) {
		return false
	}
	if matrixErr.Code == ErrCodeNotFound {
		return true
	}
	message := strings.ToLower(matrixErr.Message)
	return strings.Contains(message, "unknown room") ||
		strings.Contains(message, "room does not exist") ||
		strings.Contains(message, "no known servers")
}
