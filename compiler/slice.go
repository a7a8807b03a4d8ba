package compiler

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// Slicing extracts the minimal document for one definition: the definition
// itself plus the transitive closure of the fragments it spreads, each
// included once, ordered by first reference. Fragment trees are already
// frozen, so slicing the same definition twice yields equal documents.

func sliceOperation(op *ast.OperationDefinition, doc *ast.QueryDocument, deps ast.FragmentDefinitionList) *ast.QueryDocument {
	out := &ast.QueryDocument{Operations: ast.OperationList{op}}
	out.Fragments = closure(op.SelectionSet, doc.Fragments, deps)
	return out
}

func sliceFragment(frag *ast.FragmentDefinition, doc *ast.QueryDocument, deps ast.FragmentDefinitionList) *ast.QueryDocument {
	out := &ast.QueryDocument{Fragments: ast.FragmentDefinitionList{frag}}
	out.Fragments = append(out.Fragments, closureSeen(frag.SelectionSet, doc.Fragments, deps, map[string]bool{frag.Name: true})...)
	return out
}

func closure(root ast.SelectionSet, local, deps ast.FragmentDefinitionList) ast.FragmentDefinitionList {
	return closureSeen(root, local, deps, map[string]bool{})
}

func closureSeen(root ast.SelectionSet, local, deps ast.FragmentDefinitionList, seen map[string]bool) ast.FragmentDefinitionList {
	var out ast.FragmentDefinitionList
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				walk(s.SelectionSet)
			case *ast.InlineFragment:
				walk(s.SelectionSet)
			case *ast.FragmentSpread:
				if seen[s.Name] {
					continue
				}
				seen[s.Name] = true
				frag := local.ForName(s.Name)
				if frag == nil {
					frag = deps.ForName(s.Name)
				}
				if frag == nil {
					continue
				}
				out = append(out, frag)
				walk(frag.SelectionSet)
			}
		}
	}
	walk(root)
	return out
}
