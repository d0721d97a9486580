package model

import "errors"

// Error kinds shared by the engine, the session controller and the server.
var (
	// ErrPersistenceUnavailable indicates the store is unreachable or misconfigured.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrInvalidWish indicates an empty name or a non-positive price.
	ErrInvalidWish = errors.New("invalid wish")
	// ErrIndexOutOfRange indicates a stale or invalid list position.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNoUserKey indicates no user key was supplied.
	ErrNoUserKey = errors.New("no user key")
	// ErrInvalidConfig indicates a negative or non-finite rate or balance.
	ErrInvalidConfig = errors.New("invalid savings config")
)
