package casting

import (
	"sync"

	"github.com/Francis327921538/graphql-client/errset"
)

// View is a typed, field-restricted window over one raw response object.
// Declared fields cast lazily on first access and the result is cached for
// the life of the view; repeated access yields equal values. Undeclared
// fields fail with a field-access error instead of returning nil.
type View struct {
	obj  *Object
	raw  map[string]any
	errs *errset.Errors

	mu    sync.Mutex
	cache map[string]any
}

func newView(obj *Object, raw map[string]any, errs *errset.Errors) *View {
	return &View{obj: obj, raw: raw, errs: errs}
}

// Get returns the typed value of a declared field, casting it on first
// access with the error collection scoped to the field's path segment.
func (v *View) Get(name string) (any, error) {
	unit, declared := v.obj.fields[name]
	if !declared {
		return nil, v.accessError(name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if cached, ok := v.cache[name]; ok {
		return cached, nil
	}
	value := unit.Cast(v.raw[name], v.errs.FilterByPath(name))
	if v.cache == nil {
		v.cache = make(map[string]any)
	}
	v.cache[name] = value
	return value, nil
}

// Has reports whether the raw value under name is truthy, without running
// the cast or error machinery. Absent, null and false values are falsy.
func (v *View) Has(name string) bool {
	raw, ok := v.raw[name]
	if !ok || raw == nil {
		return false
	}
	if b, isBool := raw.(bool); isBool {
		return b
	}
	return true
}

// Errors returns the error collection scoped to this view's subtree.
func (v *View) Errors() *errset.Errors { return v.errs }

// TypeName returns the underlying schema type name.
func (v *View) TypeName() string { return v.obj.def.Name }

// Fragment reports whether the named fragment was spread into the selection
// this view was built from.
func (v *View) Fragment(name string) bool {
	_, ok := v.obj.spreads[name]
	return ok
}

// accessError classifies why a field is unreachable: never part of the type,
// present in the raw data but not selected, or selected by nobody at all.
func (v *View) accessError(name string) error {
	if name != TypenameField && v.obj.def.Fields.ForName(name) == nil {
		return &UndefinedFieldError{FieldAccessError{TypeName: v.obj.def.Name, FieldName: name}}
	}
	if _, present := v.raw[name]; present {
		return &ImplicitlyFetchedFieldError{FieldAccessError{TypeName: v.obj.def.Name, FieldName: name}}
	}
	return &UnfetchedFieldError{FieldAccessError{TypeName: v.obj.def.Name, FieldName: name}}
}

// Narrow re-types a view as the named fragment's view. The cast is permitted
// only when the fragment was provably spread into the view's originating
// selection; otherwise it fails with a type mismatch.
func Narrow(v *View, fragmentName string, target Unit) (*View, error) {
	if !v.Fragment(fragmentName) {
		return nil, &TypeMismatchError{
			Expected: "a view including fragment " + fragmentName,
			Actual:   "a view of " + v.TypeName() + " without it",
		}
	}
	obj, err := resolveObject(target, v.raw)
	if err != nil {
		return nil, err
	}
	return newView(obj, v.raw, v.errs), nil
}

// resolveObject unwraps a unit down to the concrete object unit applicable
// to the raw value.
func resolveObject(u Unit, raw map[string]any) (*Object, error) {
	switch t := u.(type) {
	case *Object:
		return t, nil
	case *NonNull:
		return resolveObject(t.Inner, raw)
	case *PossibleTypes:
		name, _ := raw[TypenameField].(string)
		if obj, ok := t.Types[name]; ok {
			return obj, nil
		}
		return nil, &TypeMismatchError{Expected: "a known concrete type", Actual: "typename " + name}
	}
	return nil, &TypeMismatchError{Expected: "an object casting unit", Actual: unitName(u)}
}

// TypeMismatchError reports programmer misuse: a value of the wrong kind was
// handed to an API.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return "expected " + e.Expected + ", got " + e.Actual
}
