package casting

import (
	"errors"
	"fmt"
)

// FieldAccessError is the common base of the three field-access failures.
// Callers can distinguish "you forgot to select this" from "this field does
// not exist" by asserting on the concrete type with errors.As.
type FieldAccessError struct {
	TypeName  string
	FieldName string
}

func (e *FieldAccessError) accessedField() (string, string) { return e.TypeName, e.FieldName }

func (e *FieldAccessError) Error() string {
	return fmt.Sprintf("inaccessible field %q on type %q", e.FieldName, e.TypeName)
}

// UndefinedFieldError: the field does not exist on the schema type at all.
type UndefinedFieldError struct{ FieldAccessError }

func (e *UndefinedFieldError) Error() string {
	return fmt.Sprintf("undefined field %q on type %q", e.FieldName, e.TypeName)
}

// UnfetchedFieldError: the field exists on the type but the originating
// selection never requested it.
type UnfetchedFieldError struct{ FieldAccessError }

func (e *UnfetchedFieldError) Error() string {
	return fmt.Sprintf("unfetched field %q on type %q: add it to the selection before reading it", e.FieldName, e.TypeName)
}

// ImplicitlyFetchedFieldError: the server returned the field even though the
// selection never requested it, so reading it would bypass the declared
// selection.
type ImplicitlyFetchedFieldError struct{ FieldAccessError }

func (e *ImplicitlyFetchedFieldError) Error() string {
	return fmt.Sprintf("implicitly fetched field %q on type %q: returned by the server but not declared in the selection", e.FieldName, e.TypeName)
}

type fieldAccess interface {
	accessedField() (string, string)
}

// IsFieldAccess reports whether err is any of the field-access error kinds.
func IsFieldAccess(err error) bool {
	var fa fieldAccess
	return errors.As(err, &fa)
}
