// internal/services/errors.go
package services

import "errors"

// Terminal request errors. Handlers map these onto the HTTP taxonomy; none of
// them is retryable.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCommentForbidden    = errors.New("comment can only be deleted by its author")
	ErrInvalidStatus       = errors.New("invalid application status")
	ErrEmptyComment        = errors.New("comment must not be empty")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
)
