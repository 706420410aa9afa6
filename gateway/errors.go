package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned for every 401. By the time the caller
	// sees it the stored credential is gone and navigation to the login
	// entry point has been requested.
	ErrSessionExpired = errors.New("session expired")

	// ErrOperationFailed matches every *OperationFailedError via errors.Is.
	ErrOperationFailed = errors.New("operation failed")

	ErrInsecureURL = errors.New("invalid or insecure URL")
)

const genericFailureMessage = "an error has occurred"

// OperationFailedError is a non-401 failure: a non-2xx answer, a transport
// error or a timeout. Status is zero when no response was received.
type OperationFailedError struct {
	Err     error
	Message string
	Status  int
	Timeout bool
}

func (e *OperationFailedError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("operation failed: timed out: %s", e.Message)
	case e.Status != 0:
		return fmt.Sprintf("operation failed (%d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("operation failed: %s", e.Message)
	}
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

func (e *OperationFailedError) Is(target error) bool {
	return target == ErrOperationFailed
}
