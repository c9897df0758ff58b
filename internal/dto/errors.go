package dto

import "fmt"

// ProviderError marks a failed or timed-out completion-provider call.
// It is surfaced to the caller as-is: no retry, no canned reply.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider failure: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NotFoundError covers lookups of resources the caller does not own or that
// do not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found or access denied", e.Resource)
}
