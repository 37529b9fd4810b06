package listmgr

import (
	"errors"
	"fmt"
	"strings"

	"tally-cli/internal/model"
)

// ErrNotEditing is returned by edit operations when no edit is in progress.
var ErrNotEditing = errors.New("no edit in progress")

type NotFoundError struct {
	Kind string
	ID   int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

type UnknownFieldError struct {
	Field string
}

func (e UnknownFieldError) Error() string {
	return "unknown field: " + e.Field
}

type FieldProblem struct {
	Field string
	Err   error
}

// ValidationError lists the draft fields that failed presence or type checks.
// The UI surfaces it as a blocking alert; no state changes when it is returned.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) add(field string, err error) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Err: err})
}

func (e *ValidationError) Error() string {
	for _, p := range e.Problems {
		if errors.Is(p.Err, model.ErrRequired) {
			return "Please fill in all fields."
		}
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Err.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Err)
	}
	return out
}

// Fields returns the names of the offending fields in schema order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Field)
	}
	return out
}

// PersistError reports a failed write-through. The in-memory mutation it
// follows has already been applied.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: save list: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
