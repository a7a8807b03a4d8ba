package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// FromSDL loads a schema from SDL text. The name shows up in error positions.
func FromSDL(name, sdl string) (*ast.Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	return s, nil
}

// FromFile loads a schema from disk. JSON files are treated as introspection
// results, anything else as SDL.
func FromFile(path string) (*ast.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".json" {
		return FromIntrospection(data)
	}
	return FromSDL(path, string(data))
}

// FromIntrospection loads a schema from an introspection result, with or
// without the surrounding {"data": ...} response envelope.
func FromIntrospection(data []byte) (*ast.Schema, error) {
	var envelope struct {
		Data   *introspectionResult `json:"data"`
		Schema *introspectionSchema `json:"__schema"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding introspection result: %w", err)
	}
	sch := envelope.Schema
	if sch == nil && envelope.Data != nil {
		sch = envelope.Data.Schema
	}
	if sch == nil {
		return nil, fmt.Errorf("introspection result has no __schema")
	}
	return FromSDL("introspection", renderSDL(sch))
}

// FromIntrospectionResult loads a schema from an already decoded response,
// as returned by executing IntrospectionQuery.
func FromIntrospectionResult(data map[string]any) (*ast.Schema, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return FromIntrospection(raw)
}

// renderSDL turns an introspection result back into SDL so the regular
// schema loader can take over. Deterministic ordering: types and directives
// sorted as received, which introspection already returns sorted.

var builtinScalars = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

var builtinDirectives = map[string]bool{
	"include": true, "skip": true, "deprecated": true, "specifiedBy": true, "oneOf": true,
}

func renderSDL(sch *introspectionSchema) string {
	var b strings.Builder

	renderRootOperations(&b, sch)

	for i := range sch.Types {
		typ := &sch.Types[i]
		if strings.HasPrefix(typ.Name, "__") {
			continue
		}
		switch typ.Kind {
		case "SCALAR":
			if !builtinScalars[typ.Name] {
				renderScalar(&b, typ)
			}
		case "ENUM":
			renderEnum(&b, typ)
		case "INPUT_OBJECT":
			renderInputObject(&b, typ)
		case "OBJECT":
			renderComposite(&b, "type", typ)
		case "INTERFACE":
			renderComposite(&b, "interface", typ)
		case "UNION":
			renderUnion(&b, typ)
		}
	}

	for i := range sch.Directives {
		if !builtinDirectives[sch.Directives[i].Name] {
			renderDirective(&b, &sch.Directives[i])
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderRootOperations(b *strings.Builder, sch *introspectionSchema) {
	if sch.QueryType == nil && sch.MutationType == nil && sch.SubscriptionType == nil {
		return
	}
	b.WriteString("schema {\n")
	if sch.QueryType != nil {
		fmt.Fprintf(b, "  query: %s\n", sch.QueryType.Name)
	}
	if sch.MutationType != nil {
		fmt.Fprintf(b, "  mutation: %s\n", sch.MutationType.Name)
	}
	if sch.SubscriptionType != nil {
		fmt.Fprintf(b, "  subscription: %s\n", sch.SubscriptionType.Name)
	}
	b.WriteString("}\n\n")
}

func renderDescription(b *strings.Builder, desc string) {
	if desc == "" {
		return
	}
	b.WriteString("\"\"\"\n")
	b.WriteString(strings.ReplaceAll(desc, "\"", "\\\""))
	b.WriteString("\n\"\"\"\n")
}

func renderScalar(b *strings.Builder, typ *introspectionType) {
	renderDescription(b, typ.Description)
	b.WriteString("scalar ")
	b.WriteString(typ.Name)
	if typ.SpecifiedByURL != nil {
		fmt.Fprintf(b, " @specifiedBy(url: %q)", *typ.SpecifiedByURL)
	}
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *introspectionType) {
	renderDescription(b, typ.Description)
	b.WriteString("enum ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		renderDescription(b, val.Description)
		b.WriteString("  ")
		b.WriteString(val.Name)
		renderDeprecation(b, val.IsDeprecated, val.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderInputObject(b *strings.Builder, typ *introspectionType) {
	renderDescription(b, typ.Description)
	b.WriteString("input ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, field := range typ.InputFields {
		renderDescription(b, field.Description)
		b.WriteString("  ")
		b.WriteString(field.Name)
		b.WriteString(": ")
		b.WriteString(renderTypeRef(&field.Type))
		if field.DefaultValue != nil {
			b.WriteString(" = ")
			b.WriteString(*field.DefaultValue)
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderComposite(b *strings.Builder, keyword string, typ *introspectionType) {
	renderDescription(b, typ.Description)
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(typ.Name)
	for i, iface := range typ.Interfaces {
		if i == 0 {
			b.WriteString(" implements ")
		} else {
			b.WriteString(" & ")
		}
		b.WriteString(iface.Name)
	}
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		renderField(b, &field)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, typ *introspectionType) {
	renderDescription(b, typ.Description)
	b.WriteString("union ")
	b.WriteString(typ.Name)
	b.WriteString(" = ")
	for i, member := range typ.PossibleTypes {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(member.Name)
	}
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *introspectionField) {
	renderDescription(b, field.Description)
	b.WriteString("  ")
	b.WriteString(field.Name)
	if len(field.Args) > 0 {
		b.WriteString("(")
		for i, arg := range field.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(renderTypeRef(&arg.Type))
			if arg.DefaultValue != nil {
				b.WriteString(" = ")
				b.WriteString(*arg.DefaultValue)
			}
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(renderTypeRef(&field.Type))
	renderDeprecation(b, field.IsDeprecated, field.DeprecationReason)
	b.WriteString("\n")
}

func renderDirective(b *strings.Builder, directive *introspectionDirective) {
	renderDescription(b, directive.Description)
	b.WriteString("directive @")
	b.WriteString(directive.Name)
	if len(directive.Args) > 0 {
		b.WriteString("(")
		for i, arg := range directive.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(renderTypeRef(&arg.Type))
			if arg.DefaultValue != nil {
				b.WriteString(" = ")
				b.WriteString(*arg.DefaultValue)
			}
		}
		b.WriteString(")")
	}
	if directive.IsRepeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(directive.Locations, " | "))
	b.WriteString("\n\n")
}

func renderDeprecation(b *strings.Builder, deprecated bool, reason string) {
	if !deprecated {
		return
	}
	b.WriteString(" @deprecated")
	if reason != "" {
		fmt.Fprintf(b, "(reason: %q)", reason)
	}
}

func renderTypeRef(ref *typeRef) string {
	if ref == nil {
		return ""
	}
	switch ref.Kind {
	case "NON_NULL":
		return renderTypeRef(ref.OfType) + "!"
	case "LIST":
		return "[" + renderTypeRef(ref.OfType) + "]"
	default:
		return ref.Name
	}
}
