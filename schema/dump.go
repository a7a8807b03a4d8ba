package schema

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Dump serializes a schema as an introspection result wrapped in a response
// envelope, so the output can be fed straight back into FromIntrospection.
// Type and directive names are sorted for stable diffs.
func Dump(s *ast.Schema) ([]byte, error) {
	sch := &introspectionSchema{}
	if s.Query != nil {
		sch.QueryType = &namedTypeRef{Name: s.Query.Name}
	}
	if s.Mutation != nil {
		sch.MutationType = &namedTypeRef{Name: s.Mutation.Name}
	}
	if s.Subscription != nil {
		sch.SubscriptionType = &namedTypeRef{Name: s.Subscription.Name}
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		if !strings.HasPrefix(name, "__") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		sch.Types = append(sch.Types, dumpType(s.Types[name]))
	}

	dnames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		dnames = append(dnames, name)
	}
	sort.Strings(dnames)
	for _, name := range dnames {
		sch.Directives = append(sch.Directives, dumpDirective(s.Directives[name]))
	}

	wrapped := map[string]any{"data": introspectionResult{Schema: sch}}
	return json.MarshalIndent(wrapped, "", "  ")
}

func dumpType(def *ast.Definition) introspectionType {
	out := introspectionType{
		Kind:        dumpKind(def.Kind),
		Name:        def.Name,
		Description: def.Description,
	}
	switch def.Kind {
	case ast.Object, ast.Interface:
		for _, fd := range def.Fields {
			if strings.HasPrefix(fd.Name, "__") {
				continue
			}
			out.Fields = append(out.Fields, dumpField(fd))
		}
		for _, iface := range def.Interfaces {
			out.Interfaces = append(out.Interfaces, typeRef{Kind: "INTERFACE", Name: iface})
		}
	case ast.Union:
		for _, member := range def.Types {
			out.PossibleTypes = append(out.PossibleTypes, typeRef{Kind: "OBJECT", Name: member})
		}
	case ast.Enum:
		for _, val := range def.EnumValues {
			deprecated, reason := deprecation(val.Directives)
			out.EnumValues = append(out.EnumValues, introspectionEnumValue{
				Name:              val.Name,
				Description:       val.Description,
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.InputObject:
		for _, fd := range def.Fields {
			out.InputFields = append(out.InputFields, introspectionInputValue{
				Name:         fd.Name,
				Description:  fd.Description,
				Type:         dumpTypeRef(fd.Type),
				DefaultValue: dumpValue(fd.DefaultValue),
			})
		}
	}
	return out
}

func dumpField(fd *ast.FieldDefinition) introspectionField {
	deprecated, reason := deprecation(fd.Directives)
	out := introspectionField{
		Name:              fd.Name,
		Description:       fd.Description,
		Args:              []introspectionInputValue{},
		Type:              dumpTypeRef(fd.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
	for _, arg := range fd.Arguments {
		out.Args = append(out.Args, introspectionInputValue{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         dumpTypeRef(arg.Type),
			DefaultValue: dumpValue(arg.DefaultValue),
		})
	}
	return out
}

func dumpDirective(dd *ast.DirectiveDefinition) introspectionDirective {
	out := introspectionDirective{
		Name:         dd.Name,
		Description:  dd.Description,
		Args:         []introspectionInputValue{},
		IsRepeatable: dd.IsRepeatable,
	}
	for _, loc := range dd.Locations {
		out.Locations = append(out.Locations, string(loc))
	}
	for _, arg := range dd.Arguments {
		out.Args = append(out.Args, introspectionInputValue{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         dumpTypeRef(arg.Type),
			DefaultValue: dumpValue(arg.DefaultValue),
		})
	}
	return out
}

func dumpTypeRef(t *ast.Type) typeRef {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		ref := dumpTypeRef(&inner)
		return typeRef{Kind: "NON_NULL", OfType: &ref}
	}
	if t.Elem != nil {
		ref := dumpTypeRef(t.Elem)
		return typeRef{Kind: "LIST", OfType: &ref}
	}
	return typeRef{Kind: namedKind(t.NamedType), Name: t.NamedType}
}

// namedKind is only a hint in type references; loaders resolve the real kind
// from the type table.
func namedKind(name string) string {
	if builtinScalars[name] {
		return "SCALAR"
	}
	return "OBJECT"
}

func dumpKind(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Scalar:
		return "SCALAR"
	case ast.Object:
		return "OBJECT"
	case ast.Interface:
		return "INTERFACE"
	case ast.Union:
		return "UNION"
	case ast.Enum:
		return "ENUM"
	default:
		return "INPUT_OBJECT"
	}
}

func dumpValue(v *ast.Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func deprecation(directives ast.DirectiveList) (bool, string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return true, arg.Value.Raw
	}
	return true, ""
}
