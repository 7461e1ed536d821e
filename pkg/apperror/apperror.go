// Package apperror defines the typed failures returned by the governance use cases
// and their HTTP status mapping.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a missing or invalid input field, rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for field.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError means the entity does not exist or is not owned by the caller.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidTransitionError is a state change attempted from a state that disallows it.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s %s cannot move from %s to %s", e.Entity, e.ID, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func NewInvalidTransition(entity, id, from, to, reason string) error {
	return &InvalidTransitionError{Entity: entity, ID: id, From: from, To: to, Reason: reason}
}

// PersistenceError wraps a store failure on a primary read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistence wraps err. A nil err yields nil.
func NewPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// PartialAuditFailure reports that the primary mutation succeeded but its audit
// entry could not be written. Callers must not treat it as a failed action.
type PartialAuditFailure struct {
	Action  string
	EntryID string
	Err     error
}

func (e *PartialAuditFailure) Error() string {
	return fmt.Sprintf("audit entry %s for %s not recorded: %v", e.EntryID, e.Action, e.Err)
}

func (e *PartialAuditFailure) Unwrap() error { return e.Err }

// IsPartialAudit reports whether err is only an audit-completeness gap.
func IsPartialAudit(err error) bool {
	var pa *PartialAuditFailure
	return errors.As(err, &pa)
}

// StatusCode maps an error to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		it *InvalidTransitionError
		pa *PartialAuditFailure
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &it):
		return http.StatusConflict
	case errors.As(err, &pa):
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
