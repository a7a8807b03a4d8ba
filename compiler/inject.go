package compiler

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
)

// injectTypename prepends a "__typename" field to every selection set whose
// resolved type is an interface or a union, so that responses always carry
// the discriminator the caster dispatches on. Runs after validation, before
// slicing, and only over the block's own definitions.
func injectTypename(table map[any]*ast.Definition, doc *ast.QueryDocument) {
	for _, op := range doc.Operations {
		injectInSet(table, op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		if needsDiscriminator(table[frag]) {
			frag.SelectionSet = ensureTypename(frag.SelectionSet)
		}
		injectInSet(table, frag.SelectionSet)
	}
}

func injectInSet(table map[any]*ast.Definition, set ast.SelectionSet) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if len(s.SelectionSet) == 0 {
				continue
			}
			if needsDiscriminator(table[s]) {
				s.SelectionSet = ensureTypename(s.SelectionSet)
			}
			injectInSet(table, s.SelectionSet)
		case *ast.InlineFragment:
			injectInSet(table, s.SelectionSet)
		}
	}
}

func needsDiscriminator(def *ast.Definition) bool {
	return def != nil && (def.Kind == ast.Interface || def.Kind == ast.Union)
}

func ensureTypename(set ast.SelectionSet) ast.SelectionSet {
	for _, sel := range set {
		if f, ok := sel.(*ast.Field); ok && f.Name == casting.TypenameField {
			return set
		}
	}
	field := &ast.Field{
		Name:  casting.TypenameField,
		Alias: casting.TypenameField,
	}
	return append(ast.SelectionSet{field}, set...)
}
