package services

import "errors"

// Error categories for chat room operations. Callers match with errors.Is;
// the HTTP layer maps them to status codes.
var (
	// ErrNotFound: the entity, user, or room record is absent. Terminal.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable: the homeserver was unreachable or returned a
	// failure that is not one of the recognized semantic successes.
	ErrRemoteUnavailable = errors.New("chat backend unavailable")

	// ErrPreconditionFailed: the user has no provisioned Matrix identity.
	// Never worked around by fabricating an identifier; an invitation to
	// a made-up user could never be accepted.
	ErrPreconditionFailed = errors.New("precondition failed")
)
