package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Callers
// match on this instead of the driver's sentinel.
var ErrNotFound = errors.New("not found")
