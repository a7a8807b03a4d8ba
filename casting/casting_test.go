package casting

import (
	"testing"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const testSDL = `
schema { query: Query }

type Query {
  me: User
  node: Node
  search: [SearchResult]
  counts: [Int!]
}

type User implements Node {
  id: ID!
  name: String
  age: Int
  friends: [User]
  status: Status
}

type Bot implements Node {
  id: ID!
  owner: User
}

interface Node {
  id: ID!
}

union SearchResult = User | Bot

enum Status {
  ACTIVE
  IDLE
}
`

func mustLoadSchema(t *testing.T) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: testSDL})
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

func mustSelection(t *testing.T, query string) ast.SelectionSet {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Name: "query.graphql", Input: query})
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	return doc.Operations[0].SelectionSet
}

func fragmentList(t *testing.T, fragments string) ast.FragmentDefinitionList {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Name: "fragments.graphql", Input: fragments})
	if err != nil {
		t.Fatalf("parse fragments: %v", err)
	}
	return doc.Fragments
}

func mustUnit(t *testing.T, r *Registry, typ *ast.Definition, sel ast.SelectionSet) Unit {
	t.Helper()
	unit, err := SelectionUnit(r, typ, sel, nil)
	if err != nil {
		t.Fatalf("selection unit: %v", err)
	}
	return unit
}
