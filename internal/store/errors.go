package store

import "errors"

// ErrPostNotFound indicates no row exists for the given id.
var ErrPostNotFound = errors.New("content post not found")

// ErrConstraintViolation indicates the database rejected a write for
// violating a CHECK or NOT NULL constraint. The operation was rolled
// back in full; no partial state is visible.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrNotAuthorized indicates the access gate denied the operation.
var ErrNotAuthorized = errors.New("operation not authorized")
