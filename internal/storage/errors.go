package storage

import "errors"

// Sentinel errors shared by every store implementation.
// Stores are append-only: transactions, runs and per-run rows are never updated.
var (
	// ErrNotFound is returned when a requested record, or the run a batch
	// refers to, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a batch contains a key that is already
	// stored, or the same key twice. Nothing of the batch is written.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned for a nil record or an empty key field.
	ErrInvalidInput = errors.New("invalid input")
)
