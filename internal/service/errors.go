package service

import (
	"errors"
	"fmt"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidTenant  = errors.New("invalid tenant")
	ErrTenantConflict = errors.New("tenant conflicts with an existing record")

	// ErrOperationFailed matches every *OperationFailedError via errors.Is.
	ErrOperationFailed = errors.New("operation failed")
)

// OperationFailedError wraps a storage or infrastructure failure. The unit
// of work it belongs to has already been rolled back.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

func (e *OperationFailedError) Is(target error) bool {
	return target == ErrOperationFailed
}
