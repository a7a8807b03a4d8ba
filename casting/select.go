package casting

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// SelectionUnit builds the casting unit for one selection set over the given
// schema type. Object field maps are restricted to exactly the declared
// fields; interface and union types get a dispatch unit assembled from the
// registry's concrete object units. Fragment spreads are resolved against
// fragments, and every spread reached transitively is recorded on the
// resulting object units for later view narrowing.
func SelectionUnit(r *Registry, typ *ast.Definition, sel ast.SelectionSet, fragments ast.FragmentDefinitionList) (Unit, error) {
	switch typ.Kind {
	case ast.Scalar, ast.Enum:
		return r.Unit(typ.Name), nil
	case ast.Object:
		return selectObject(r, typ, sel, fragments)
	case ast.Interface, ast.Union:
		dispatch := make(map[string]*Object)
		for _, concrete := range r.schema.PossibleTypes[typ.Name] {
			obj, err := selectObject(r, concrete, sel, fragments)
			if err != nil {
				return nil, err
			}
			dispatch[concrete.Name] = obj
		}
		return &PossibleTypes{Types: dispatch}, nil
	}
	return nil, fmt.Errorf("cannot build casting unit for %s type %s", typ.Kind, typ.Name)
}

// selectObject derives a selection-scoped object unit for a concrete type.
// Selections guarded by a type condition contribute only when the condition
// applies to the concrete type.
func selectObject(r *Registry, typ *ast.Definition, sel ast.SelectionSet, fragments ast.FragmentDefinitionList) (*Object, error) {
	base, _ := r.Unit(typ.Name).(*Object)
	if base == nil {
		return nil, fmt.Errorf("unknown object type %s", typ.Name)
	}
	obj := &Object{def: base.def, implements: base.implements, fields: map[string]Unit{}}

	for _, selection := range sel {
		switch s := selection.(type) {
		case *ast.Field:
			unit, err := fieldUnit(r, typ, s, fragments)
			if err != nil {
				return nil, err
			}
			name := s.Alias
			if name == "" {
				name = s.Name
			}
			if existing, ok := obj.fields[name]; ok {
				unit, err = mergeUnits(existing, unit)
				if err != nil {
					return nil, fmt.Errorf("field %s.%s: %w", typ.Name, name, err)
				}
			}
			obj.fields[name] = unit

		case *ast.InlineFragment:
			if s.TypeCondition != "" && !conditionApplies(r, typ, s.TypeCondition) {
				continue
			}
			sub, err := selectObject(r, typ, s.SelectionSet, fragments)
			if err != nil {
				return nil, err
			}
			merged, err := obj.Merge(sub)
			if err != nil {
				return nil, err
			}
			obj = merged

		case *ast.FragmentSpread:
			frag := fragments.ForName(s.Name)
			if frag == nil {
				return nil, fmt.Errorf("missing fragment definition %s", s.Name)
			}
			if !conditionApplies(r, typ, frag.TypeCondition) {
				continue
			}
			sub, err := selectObject(r, typ, frag.SelectionSet, fragments)
			if err != nil {
				return nil, err
			}
			if sub.spreads == nil {
				sub.spreads = map[string]struct{}{}
			}
			sub.spreads[frag.Name] = struct{}{}
			merged, err := obj.Merge(sub)
			if err != nil {
				return nil, err
			}
			obj = merged
		}
	}
	return obj, nil
}

func fieldUnit(r *Registry, typ *ast.Definition, field *ast.Field, fragments ast.FragmentDefinitionList) (Unit, error) {
	if field.Name == TypenameField {
		return &Scalar{Name: "String", Coerce: coerceString}, nil
	}
	def := typ.Fields.ForName(field.Name)
	if def == nil {
		return nil, fmt.Errorf("no field %s on type %s", field.Name, typ.Name)
	}
	named := r.schema.Types[def.Type.Name()]
	if named == nil {
		return nil, fmt.Errorf("unknown type %s", def.Type.Name())
	}
	switch named.Kind {
	case ast.Object, ast.Interface, ast.Union:
		inner, err := SelectionUnit(r, named, field.SelectionSet, fragments)
		if err != nil {
			return nil, err
		}
		return wrapType(def.Type, inner), nil
	default:
		return wrapType(def.Type, r.Unit(named.Name)), nil
	}
}

// conditionApplies reports whether a fragment's type condition matches the
// concrete type: either directly or because the concrete type belongs to the
// named interface or union.
func conditionApplies(r *Registry, typ *ast.Definition, condition string) bool {
	if condition == "" || condition == typ.Name {
		return true
	}
	for _, possible := range r.schema.PossibleTypes[condition] {
		if possible.Name == typ.Name {
			return true
		}
	}
	return false
}
