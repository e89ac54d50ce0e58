package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without switch statements over concrete types.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound indicates a node, drawing, or revision does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness conflict in the backing store.
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates invalid caller input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidParent indicates a parent (or set) reference that does not
	// resolve to a node under the same project.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrCrossOwner indicates a parent reference that resolves to a node
	// belonging to a different project.
	ErrCrossOwner = errors.New("parent belongs to a different project")

	// ErrCycle indicates a reparent that would make a node its own ancestor.
	ErrCycle = errors.New("cycle detected")

	// ErrEmptyName indicates a blank name after trimming.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrHasChildren indicates a delete attempt on a node that still has
	// children. Deletion is rejected, never cascaded.
	ErrHasChildren = errors.New("node has children")

	// ErrCorruptHierarchy indicates the acyclicity invariant was violated in
	// stored data. This is a defect, not a user error.
	ErrCorruptHierarchy = errors.New("corrupt hierarchy")

	// ErrNoRevisions indicates a drawing with no revisions, a state the
	// registry's creation contract makes unreachable.
	ErrNoRevisions = errors.New("drawing has no revisions")
)

// Typed errors implementing HTTPError
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against the sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError represents a resource conflict with details about the
// existing resource.
type ConflictError struct {
	Message      string
	ResourceType string // node, drawing, revision
	ResourceID   string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
