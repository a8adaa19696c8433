package catalog

import "errors"

// ErrObjectNotFound indicates the probed relation does not exist.
var ErrObjectNotFound = errors.New("object not found in pg_catalog")

// ErrUnknownKind indicates an object kind the catalog cannot probe.
var ErrUnknownKind = errors.New("unknown object kind")
