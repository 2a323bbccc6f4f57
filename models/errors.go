package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or empty required input. No external call is made.
	ErrValidation = errors.New("validation failed")
	// ErrGeneration marks a failed, timed out or contract-violating generation call.
	ErrGeneration = errors.New("generation failed")
	// ErrPersistenceCorruption marks stored data that could not be decoded.
	// It is recovered locally and only ever logged.
	ErrPersistenceCorruption = errors.New("persisted data is corrupt")
)

// GenerationUserMessage is the only text shown to a user when generation fails.
const GenerationUserMessage = "Failed to perform audit. The AI model may be busy. Please try again later."

// ValidationError names the required field that was empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrValidation, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// GenerationError wraps any failure of an outbound generation call, including
// responses that do not satisfy the AuditResult contract.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrGeneration)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrGeneration, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is / errors.As.
func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGeneration}
	}
	return []error{ErrGeneration, e.Err}
}

// UserMessage returns the generic user-facing text for this failure.
func (e *GenerationError) UserMessage() string { return GenerationUserMessage }

// NewGenerationError wraps err for operation op.
func NewGenerationError(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}
