package storage

import "errors"

// Common storage errors
var (
	// ErrSubmissionNotFound indicates that submission was not found in storage
	ErrSubmissionNotFound = errors.New("submission not found")
)
