package casting

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/errset"
)

// Object is the casting unit for a composite type, restricted to the fields a
// selection actually declared. The registry's base units carry no fields;
// selection-scoped units are derived from them and only ever grow by merging
// two units over the same underlying schema type.
type Object struct {
	def        *ast.Definition
	fields     map[string]Unit
	implements map[string]struct{}
	spreads    map[string]struct{}
}

// Definition returns the underlying schema type.
func (o *Object) Definition() *ast.Definition { return o.def }

// TypeName returns the underlying schema type name.
func (o *Object) TypeName() string { return o.def.Name }

// Implements reports whether the object's schema type belongs to the named
// interface or union.
func (o *Object) Implements(name string) bool {
	_, ok := o.implements[name]
	return ok
}

// Cast wraps a raw subtree in a typed view. Fields are not cast eagerly; the
// view casts them on first access. Non-object input casts to nil.
func (o *Object) Cast(value any, errs *errset.Errors) any {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return newView(o, raw, errs)
}

// Merge combines two object units over the same schema type into a new unit
// whose field map is the union of both sides, recursively merging fields
// present in both. Merge is commutative and associative over field names.
func (o *Object) Merge(other *Object) (*Object, error) {
	if o.def != other.def {
		return nil, fmt.Errorf("cannot merge selections on %s with selections on %s", o.def.Name, other.def.Name)
	}
	merged := &Object{
		def:        o.def,
		fields:     make(map[string]Unit, len(o.fields)+len(other.fields)),
		implements: o.implements,
		spreads:    unionNames(o.spreads, other.spreads),
	}
	for name, unit := range o.fields {
		merged.fields[name] = unit
	}
	for name, unit := range other.fields {
		existing, ok := merged.fields[name]
		if !ok {
			merged.fields[name] = unit
			continue
		}
		combined, err := mergeUnits(existing, unit)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", o.def.Name, name, err)
		}
		merged.fields[name] = combined
	}
	return merged, nil
}

// mergeUnits recursively combines two units selected for the same response
// field. Genuinely incompatible shapes are rejected rather than silently
// merged.
func mergeUnits(a, b Unit) (Unit, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return nil, mergeMismatch(a, b)
		}
		return av.Merge(bv)
	case *List:
		bv, ok := b.(*List)
		if !ok {
			return nil, mergeMismatch(a, b)
		}
		inner, err := mergeUnits(av.Inner, bv.Inner)
		if err != nil {
			return nil, err
		}
		return &List{Inner: inner}, nil
	case *NonNull:
		bv, ok := b.(*NonNull)
		if !ok {
			return nil, mergeMismatch(a, b)
		}
		inner, err := mergeUnits(av.Inner, bv.Inner)
		if err != nil {
			return nil, err
		}
		return &NonNull{Inner: inner}, nil
	case *Scalar:
		bv, ok := b.(*Scalar)
		if !ok || av.Name != bv.Name {
			return nil, mergeMismatch(a, b)
		}
		return av, nil
	case *Enum:
		bv, ok := b.(*Enum)
		if !ok || av.Name != bv.Name {
			return nil, mergeMismatch(a, b)
		}
		return av, nil
	case *PossibleTypes:
		bv, ok := b.(*PossibleTypes)
		if !ok {
			return nil, mergeMismatch(a, b)
		}
		merged := &PossibleTypes{Types: make(map[string]*Object, len(av.Types)+len(bv.Types))}
		for name, obj := range av.Types {
			merged.Types[name] = obj
		}
		for name, obj := range bv.Types {
			if existing, ok := merged.Types[name]; ok {
				combined, err := existing.Merge(obj)
				if err != nil {
					return nil, err
				}
				merged.Types[name] = combined
				continue
			}
			merged.Types[name] = obj
		}
		return merged, nil
	}
	return nil, mergeMismatch(a, b)
}

func mergeMismatch(a, b Unit) error {
	return fmt.Errorf("incompatible selections: %s vs %s", unitName(a), unitName(b))
}

func unitName(u Unit) string {
	switch v := u.(type) {
	case *Scalar:
		return v.Name
	case *Enum:
		return v.Name
	case *Object:
		return v.def.Name
	case *List:
		return "[" + unitName(v.Inner) + "]"
	case *NonNull:
		return unitName(v.Inner) + "!"
	case *PossibleTypes:
		return "possible types"
	}
	return fmt.Sprintf("%T", u)
}

func unionNames(a, b map[string]struct{}) map[string]struct{} {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(a)+len(b))
	for name := range a {
		out[name] = struct{}{}
	}
	for name := range b {
		out[name] = struct{}{}
	}
	return out
}
