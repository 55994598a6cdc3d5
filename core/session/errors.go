package session

import "errors"

var (
	// ErrNotFound is returned when no session exists for an IP.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired is returned when a lookup finds a session whose
	// lastSeen is older than the configured session timeout.
	ErrExpired = errors.New("session: expired")
	// ErrMissingIP is returned when an empty IP is passed to an
	// operation that requires one.
	ErrMissingIP = errors.New("session: missing ip")
)
