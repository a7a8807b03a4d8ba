package compiler

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
)

// tagTypes resolves the schema type of every selection node in the block's
// own definitions and records it in a side table keyed by node identity.
// Dependency fragments were tagged when they were compiled and are not
// revisited.
func tagTypes(schema *ast.Schema, doc *ast.QueryDocument, fragments ast.FragmentDefinitionList) (map[any]*ast.Definition, error) {
	t := &tagger{schema: schema, fragments: fragments, table: map[any]*ast.Definition{}}
	for _, op := range doc.Operations {
		root := schema.Query
		switch op.Operation {
		case ast.Mutation:
			root = schema.Mutation
		case ast.Subscription:
			root = schema.Subscription
		}
		if root == nil {
			return nil, fmt.Errorf("schema does not define a %s root type", op.Operation)
		}
		t.table[op] = root
		if err := t.walk(root, op.SelectionSet); err != nil {
			return nil, err
		}
	}
	for _, frag := range doc.Fragments {
		cond := schema.Types[frag.TypeCondition]
		if cond == nil {
			return nil, fmt.Errorf("unknown type %q in fragment condition", frag.TypeCondition)
		}
		t.table[frag] = cond
		if err := t.walk(cond, frag.SelectionSet); err != nil {
			return nil, err
		}
	}
	return t.table, nil
}

type tagger struct {
	schema    *ast.Schema
	fragments ast.FragmentDefinitionList
	table     map[any]*ast.Definition
}

func (t *tagger) walk(parent *ast.Definition, set ast.SelectionSet) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Name == casting.TypenameField {
				t.table[s] = t.schema.Types["String"]
				continue
			}
			fd := parent.Fields.ForName(s.Name)
			if fd == nil {
				return fmt.Errorf("type %q has no field %q", parent.Name, s.Name)
			}
			named := t.schema.Types[fd.Type.Name()]
			if named == nil {
				return fmt.Errorf("field %q resolves to unknown type %q", s.Name, fd.Type.Name())
			}
			t.table[s] = named
			if len(s.SelectionSet) > 0 {
				if err := t.walk(named, s.SelectionSet); err != nil {
					return err
				}
			}
		case *ast.InlineFragment:
			cond := parent
			if s.TypeCondition != "" {
				cond = t.schema.Types[s.TypeCondition]
				if cond == nil {
					return fmt.Errorf("unknown type %q in inline fragment", s.TypeCondition)
				}
			}
			t.table[s] = cond
			if err := t.walk(cond, s.SelectionSet); err != nil {
				return err
			}
		case *ast.FragmentSpread:
			if frag := t.fragments.ForName(s.Name); frag != nil {
				t.table[s] = t.schema.Types[frag.TypeCondition]
			}
		}
	}
	return nil
}
