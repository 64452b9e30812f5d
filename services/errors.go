package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature means the webhook signature did not match; nothing was written.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrDuplicateTransaction means the transaction id was already recorded; nothing was written.
	ErrDuplicateTransaction = errors.New("transaction already processed")
	// ErrStorageFailure is matched by every *StorageError.
	ErrStorageFailure = errors.New("storage failure")

	// ErrOwnerNotFound means the referenced user does not exist; nothing was written.
	ErrOwnerNotFound = errors.New("owning user does not exist")
	// ErrInvalidAmount means the amount is outside the range a balance can hold.
	ErrInvalidAmount = errors.New("amount out of range")

	ErrAccountOwnership   = errors.New("account belongs to another user")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account id already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// StorageError wraps an unexpected persistence error. The unit of work it
// happened in has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// storageErr wraps err unless it already carries a domain meaning
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	for _, known := range []error{ErrInvalidSignature, ErrDuplicateTransaction, ErrOwnerNotFound, ErrInvalidAmount, ErrAccountOwnership, ErrAccountNotFound, ErrAccountExists, ErrUserNotFound, ErrEmailTaken} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}
