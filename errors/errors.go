/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to insert an entity that already exists
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupported is returned for criteria, sort or key types the engine cannot handle
	ErrUnsupported = errors.New("unsupported operation")

	// ErrUnknownType is returned when a stored type name has no registration
	ErrUnknownType = errors.New("unknown type")

	// ErrTransient marks failures that are worth retrying (throttling, timeouts)
	ErrTransient = errors.New("transient failure")
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Keyspace string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Keyspace, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Keyspace string
	Key      string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Keyspace, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedError reports a value whose type an operation cannot handle
type UnsupportedError struct {
	Operation string
	Type      string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s does not support type %s", e.Operation, e.Type)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// UnknownTypeError reports a type name missing from the type registry
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no type registered for name %q", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// TransientError wraps a retryable backend failure
type TransientError struct {
	Operation string
	Err       error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Operation, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(keyspace, key string) error {
	return &NotFoundError{Keyspace: keyspace, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(keyspace, key string) error {
	return &AlreadyExistsError{Keyspace: keyspace, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewUnsupportedError creates a new UnsupportedError for the dynamic type of v
func NewUnsupportedError(operation string, v any) error {
	return &UnsupportedError{Operation: operation, Type: fmt.Sprintf("%T", v)}
}

// NewUnknownTypeError creates a new UnknownTypeError
func NewUnknownTypeError(name string) error {
	return &UnknownTypeError{Name: name}
}

// NewTransientError wraps err as retryable
func NewTransientError(operation string, err error) error {
	return &TransientError{Operation: operation, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnsupported checks if an error is an unsupported operation error
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsUnknownType checks if an error is an unknown type error
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

// IsTransient checks if an error is worth retrying
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
