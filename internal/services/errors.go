package services

import "errors"

var (
	// ErrMissingSessionID rejects documents without
	// session_metadata.session_id.
	ErrMissingSessionID = errors.New("session_metadata.session_id missing")

	// ErrInvalidDocument rejects bodies that are not valid JSON.
	ErrInvalidDocument = errors.New("invalid session document")

	// ErrSessionNotFound signals lookups of unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
)
