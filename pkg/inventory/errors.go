package inventory

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrTemplateExists     = errors.New("template already exists")
	ErrNotAPort           = errors.New("node is not a port")
	ErrNotAContainer      = errors.New("node cannot hold children")
	ErrCycle              = errors.New("reparent would create a cycle")
	ErrValidation         = errors.New("validation failed")
)

// InventoryError provides structured error information for inventory operations.
type InventoryError struct {
	Op      string // Operation that failed (e.g., "CreateShelf", "DeleteConnection")
	Entity  string // Entity type (e.g., "node", "connection", "template")
	ID      uint64 // Entity ID (if applicable)
	Name    string // Entity name (for templates)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *InventoryError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Name, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *InventoryError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *InventoryError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building InventoryErrors.
type ErrorBuilder struct {
	err InventoryError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: InventoryError{Op: op}}
}

// Node sets the entity to "node" with the given ID.
func (b *ErrorBuilder) Node(id NodeID) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.ID = uint64(id)
	return b
}

// Connection sets the entity to "connection" with the given ID.
func (b *ErrorBuilder) Connection(id ConnectionID) *ErrorBuilder {
	b.err.Entity = "connection"
	b.err.ID = uint64(id)
	return b
}

// Template sets the entity to "template" with the given name.
func (b *ErrorBuilder) Template(name string) *ErrorBuilder {
	b.err.Entity = "template"
	b.err.Name = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// Convenience constructors for common error patterns

// NodeNotFoundError creates a node not found error.
func NodeNotFoundError(op string, id NodeID) error {
	return NewError(op).Node(id).Cause(ErrNodeNotFound).Err()
}

// ConnectionNotFoundError creates a connection not found error.
func ConnectionNotFoundError(op string, id ConnectionID) error {
	return NewError(op).Connection(id).Cause(ErrConnectionNotFound).Err()
}

// TemplateNotFoundError creates a template not found error.
func TemplateNotFoundError(op, name string) error {
	return NewError(op).Template(name).Cause(ErrTemplateNotFound).Err()
}

// ValidationError creates a validation error with a reason.
func ValidationError(op, reason string) error {
	return NewError(op).Context(reason).Cause(ErrValidation).Err()
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrConnectionNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// IsValidation returns true if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
