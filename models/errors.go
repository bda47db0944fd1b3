package models

import (
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed request fields.
// Messages are kept in the order the fields were checked.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records message for field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
	e.order = append(e.order, field)
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.order) == 0
}

// Messages returns every message in check order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.order))
	for _, f := range e.order {
		out = append(out, e.Fields[f])
	}
	return out
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	return e.Fields[e.order[0]]
}

// NotFoundError reports that no post exists for the given id.
type NotFoundError struct {
	ID string
}

// NewNotFoundError formats id the way it appeared in the request.
func NewNotFoundError(id any) *NotFoundError {
	return &NotFoundError{ID: strings.TrimSpace(fmt.Sprint(id))}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Post (id=%s) not found", e.ID)
}
