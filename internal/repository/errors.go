package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is violated
	ErrDuplicate = errors.New("duplicate record")
)
