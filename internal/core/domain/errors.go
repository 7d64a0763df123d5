package domain

import "errors"

// Error taxonomy shared by services and repositories. Repositories translate
// driver errors into these sentinels; handlers map them to HTTP codes with
// errors.Is. Anything unrecognized from the backend wraps ErrBackend.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrConstraint = errors.New("delete blocked by referencing records")
	ErrNotFound   = errors.New("not found")
	ErrBackend    = errors.New("backend error")
)
