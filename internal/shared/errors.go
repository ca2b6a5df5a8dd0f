package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict indicates a unique constraint violation on insert.
	ErrConflict = errors.New("already exists")
	// ErrNoCompanySelected occurs when a report is requested before a company
	// context has been established for the session.
	ErrNoCompanySelected = errors.New("no company selected")
	// ErrSessionExpired occurs when the upstream rejects our token; the
	// session is unusable afterwards and a fresh login is required.
	ErrSessionExpired = errors.New("session expired")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
