package service

import "errors"

// Sentinel errors shared by the services. Handlers translate these to
// response codes; anything not listed here surfaces as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrDependencyExists   = errors.New("resource is still referenced")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionInvalidated = errors.New("session invalidated")
	ErrActionForbidden    = errors.New("action not allowed")
	ErrInvalidGrade       = errors.New("invalid grade")
	ErrReplyDepth         = errors.New("replies to replies are not allowed")
	ErrParentHidden       = errors.New("parent comment is hidden")
	ErrQueueUnavailable   = errors.New("feedback queue unavailable")
)
