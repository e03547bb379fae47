package database

import (
	"errors"
	"fmt"
)

// ErrDuplicateRecord reports an insert that collided with the unique
// (ticker, date) index. A concurrent duplicate is benign: ingestion counts it
// as skipped, never as a failure.
var ErrDuplicateRecord = errors.New("price record already exists for ticker and day")

// DBError represents a database operation error with context
type DBError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *DBError) Error() string {
	return fmt.Sprintf("database error in %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *DBError) Unwrap() error {
	return e.Err
}

// WrapDBError wraps a database error with operation context
func WrapDBError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &DBError{
		Operation: operation,
		Err:       err,
	}
}
