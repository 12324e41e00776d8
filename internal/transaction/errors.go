package transaction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrValidation  = errors.New("invalid transaction")
	ErrPersistence = errors.New("could not save, please retry")
)

// Violation describes one broken rule.
type Violation struct {
	Field   string
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationError carries every rule a candidate broke.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether the given field broke the given rule.
func (e *ValidationError) Has(field, rule string) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Rule == rule {
			return true
		}
	}

	return false
}

// PersistenceError means the durable store rejected a mutation. By the time it is
// returned the in-memory ledger has already been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NotFound wraps ErrNotFound with the missing id.
func NotFound(id fmt.Stringer) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
