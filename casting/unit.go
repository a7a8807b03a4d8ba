// Package casting turns schema types into reusable casting units and wraps
// raw JSON response data in typed, field-restricted views. Units are built
// once per schema by the Registry and shared by every compiled definition;
// views are created per access and cast nested values lazily.
package casting

import (
	"github.com/Francis327921538/graphql-client/errset"
)

// TypenameField is the synthetic field injected into interface- and
// union-typed selections so responses can be dispatched by concrete type.
const TypenameField = "__typename"

// Unit casts a raw response value into its typed form, threading the error
// collection scoped to the value's position in the response.
type Unit interface {
	Cast(value any, errs *errset.Errors) any
}

// Scalar coerces leaf values. A nil Coerce func passes values through, which
// is the behavior for custom scalars without a registered coercion.
type Scalar struct {
	Name   string
	Coerce func(any) any
}

func (s *Scalar) Cast(value any, _ *errset.Errors) any {
	if value == nil {
		return nil
	}
	if s.Coerce == nil {
		return value
	}
	return s.Coerce(value)
}

// Enum passes wire strings through; schema validation already guaranteed the
// value set at execution time.
type Enum struct {
	Name   string
	Values map[string]struct{}
}

func (e *Enum) Cast(value any, _ *errset.Errors) any { return value }

// List casts each element through the inner unit with an index-scoped error
// collection. Non-slice input casts to nil.
type List struct {
	Inner Unit
}

func (l *List) Cast(value any, errs *errset.Errors) any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = l.Inner.Cast(item, errs.FilterByPath(i))
	}
	return out
}

// NonNull delegates unconditionally; the non-null guarantee is the server's
// to enforce, not re-checked here.
type NonNull struct {
	Inner Unit
}

func (n *NonNull) Cast(value any, errs *errset.Errors) any {
	return n.Inner.Cast(value, errs)
}

// PossibleTypes dispatches interface and union values to the concrete object
// unit named by the injected __typename field. Unknown or missing
// discriminators cast to nil rather than failing.
type PossibleTypes struct {
	Types map[string]*Object
}

func (p *PossibleTypes) Cast(value any, errs *errset.Errors) any {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	name, _ := raw[TypenameField].(string)
	obj, ok := p.Types[name]
	if !ok {
		return nil
	}
	return obj.Cast(raw, errs)
}
