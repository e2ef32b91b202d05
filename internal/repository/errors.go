// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// document service to distinguish "no such row" from genuine store
// failures, which are always returned wrapped and untouched.
package repository

import "errors"

// ErrDocumentNotFound is returned when no document has the requested id.
var ErrDocumentNotFound = errors.New("document not found")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned when a signup reuses a taken username.
var ErrUsernameExists = errors.New("username already exists")
