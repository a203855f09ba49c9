package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("invoice not found")

	// ErrProvider is matched by every ProviderError
	ErrProvider = errors.New("invoice provider error")
)

// NotFoundError is returned when an invoice reference cannot be resolved.
// Ref is the reference exactly as the caller supplied it.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Invoice #%s not found. Please check the invoice number and try again.", e.Ref)
}

// Is lets errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ProviderError is a failure reported by the live accounting provider
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider request failed: %s", e.Message)
	}
	return fmt.Sprintf("provider request failed with status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrProvider) match
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}
