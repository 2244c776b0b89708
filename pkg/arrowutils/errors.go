package arrowutils

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
)

// ColumnNotFoundError is raised when a required column is absent from a
// record or struct column source.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Name)
}

// ColumnTypeMismatchError is raised when a column exists but its physical
// Arrow type does not match what the caller expected.
type ColumnTypeMismatchError struct {
	Name     string
	Expected string
	Actual   string
}

func (e *ColumnTypeMismatchError) Error() string {
	return fmt.Sprintf("column %q: expected %s, got %s", e.Name, e.Expected, e.Actual)
}

func errNotFound(name string) error {
	return &ColumnNotFoundError{Name: name}
}

func errTypeMismatch(name, expected string, actual arrow.DataType) error {
	a := "<nil>"
	if actual != nil {
		a = actual.Name()
	}
	return &ColumnTypeMismatchError{Name: name, Expected: expected, Actual: a}
}
