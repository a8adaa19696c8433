package applier

import "errors"

// ErrMissingDropSQL indicates a drop-and-recreate object without a drop statement.
var ErrMissingDropSQL = errors.New("drop-and-recreate object has no drop statement")

// ErrUnknownGuard indicates an object guard the applier cannot dispatch.
var ErrUnknownGuard = errors.New("unknown object guard")
