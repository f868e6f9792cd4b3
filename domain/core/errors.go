package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Model provider errors (transport, availability, auth)
	ErrProvider        = errors.New("model provider error")
	ErrEmptyGeneration = fmt.Errorf("%w: empty generation", ErrProvider)

	// Schema parse errors - the provider answered but the text does not decode
	ErrSchemaParse  = errors.New("schema parse failure")
	ErrUnknownEnum  = fmt.Errorf("%w: unknown enum value", ErrSchemaParse)
	ErrMissingField = fmt.Errorf("%w: missing required field", ErrSchemaParse)

	// Pipeline errors
	ErrInvalidTransition = errors.New("invalid pipeline state transition")
	ErrStageFailed       = errors.New("pipeline stage failed")

	// Lookup errors
	ErrNotFound         = errors.New("resource not found")
	ErrTemplateNotFound = fmt.Errorf("%w: template", ErrNotFound)
)

// Error constructors with context
func NewProviderError(model string, err error) error {
	return fmt.Errorf("%w: model %s: %w", ErrProvider, model, err)
}

func NewParseError(target string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSchemaParse, target, err)
}

func NewEnumError(field, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrUnknownEnum, field, value)
}

func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func NewStageError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStageFailed, stage, err)
}

func NewTransitionError(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Error checking helpers
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProvider)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrSchemaParse)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
