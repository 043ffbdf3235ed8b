package core

import "errors"

var (
	// ErrAlreadyExists is returned by Create when the natural key is taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrNotFound is returned by lookups and by Update when the key is missing.
	ErrNotFound = errors.New("record not found")

	// ErrNotImplemented is returned by ImportFromJSON.
	ErrNotImplemented = errors.New("import not implemented")

	// ErrInvalidInput is returned when a required key is empty.
	ErrInvalidInput = errors.New("invalid input")
)
