package ingestion

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a transaction record lacks a structural field
// or carries a value of the wrong shape.
var ErrInvalidRecord = errors.New("invalid transaction record")

// ValidationError describes the first invalid record of an input.
type ValidationError struct {
	Index  int    // zero-based record position in the input
	TxHash string // empty if the record had none
	Field  string // offending field, e.g. "userWallet"
	Reason string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("record %d", e.Index)
	if e.TxHash != "" {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash)
	}
	return fmt.Sprintf("%s: field %s: %s: %v", msg, e.Field, e.Reason, ErrInvalidRecord)
}

// Unwrap returns ErrInvalidRecord.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}
