package domain

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrIndexOutOfRange is returned when a slot index does not address a line item.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidQuantity is returned when a line item is added with a quantity below 1.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidLineItem is returned when external input cannot be turned into a line item.
	ErrInvalidLineItem = errors.New("invalid line item")
	// ErrStorageFailure matches every *StorageError.
	ErrStorageFailure = errors.New("storage failure")
	// ErrCorruptData marks a persisted cart payload that cannot be decoded.
	ErrCorruptData = errors.New("corrupt cart data")
)

// StorageError wraps a failed read or write against durable storage.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}
