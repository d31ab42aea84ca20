package repository

import "errors"

// Sentinel errors shared by every repository implementation. Services match
// on these with errors.Is instead of inspecting driver errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a write violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrUserNotFound    = ErrNotFound
	ErrChannelNotFound = ErrNotFound
	ErrMessageNotFound = ErrNotFound
	ErrMemberNotFound  = ErrNotFound
)
