package casting

import (
	"fmt"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// Registry holds one casting unit per named schema type, built in a single
// pass when the schema is loaded. It is read-only after construction and safe
// for concurrent use. Input objects are skipped: they have no runtime
// representation in responses.
type Registry struct {
	schema  *ast.Schema
	units   map[string]Unit
	scalars map[string]func(any) any
}

// RegistryOption configures registry construction.
type RegistryOption func(*Registry)

// WithScalar registers a coercion function for a custom scalar. Builtin
// scalars may be overridden the same way.
func WithScalar(name string, coerce func(any) any) RegistryOption {
	return func(r *Registry) { r.scalars[name] = coerce }
}

// NewRegistry walks the schema once and builds the unit for every named type.
func NewRegistry(schema *ast.Schema, opts ...RegistryOption) *Registry {
	r := &Registry{
		schema: schema,
		units:  make(map[string]Unit, len(schema.Types)),
		scalars: map[string]func(any) any{
			"Int":     coerceInt,
			"Float":   coerceFloat,
			"String":  coerceString,
			"ID":      coerceID,
			"Boolean": coerceBoolean,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	for name, def := range schema.Types {
		switch def.Kind {
		case ast.Scalar:
			r.units[name] = &Scalar{Name: name, Coerce: r.scalars[name]}
		case ast.Enum:
			values := make(map[string]struct{}, len(def.EnumValues))
			for _, v := range def.EnumValues {
				values[v.Name] = struct{}{}
			}
			r.units[name] = &Enum{Name: name, Values: values}
		case ast.Object, ast.Interface, ast.Union:
			r.units[name] = &Object{def: def, implements: r.supertypesOf(def)}
		case ast.InputObject:
			// no runtime representation
		}
	}
	return r
}

// Schema returns the schema the registry was built over.
func (r *Registry) Schema() *ast.Schema { return r.schema }

// Unit returns the base unit for a named type, or nil for unknown and input
// types.
func (r *Registry) Unit(name string) Unit { return r.units[name] }

// ForTypeRef composes List and NonNull wrappers around the named type's base
// unit. Wrapper identity is irrelevant; only the inner unit matters.
func (r *Registry) ForTypeRef(t *ast.Type) Unit {
	return wrapType(t, r.Unit(t.Name()))
}

// supertypesOf collects the interface and union names the definition belongs
// to, so is-a checks are set membership rather than hierarchy walks.
func (r *Registry) supertypesOf(def *ast.Definition) map[string]struct{} {
	out := make(map[string]struct{}, len(def.Interfaces))
	for _, name := range def.Interfaces {
		out[name] = struct{}{}
	}
	for name, other := range r.schema.Types {
		if other.Kind != ast.Union {
			continue
		}
		for _, member := range other.Types {
			if member == def.Name {
				out[name] = struct{}{}
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func wrapType(t *ast.Type, named Unit) Unit {
	var inner Unit
	if t.NamedType != "" {
		inner = named
	} else {
		inner = &List{Inner: wrapType(t.Elem, named)}
	}
	if t.NonNull {
		return &NonNull{Inner: inner}
	}
	return inner
}

func coerceInt(v any) any {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return v
}

func coerceFloat(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return v
}

func coerceString(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	return v
}

// coerceID normalizes identifiers to strings; servers are allowed to encode
// IDs as numbers on the wire.
func coerceID(v any) any {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return fmt.Sprint(n)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	}
	return v
}

func coerceBoolean(v any) any {
	if b, ok := v.(bool); ok {
		return b
	}
	return v
}
