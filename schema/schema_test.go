package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const testSDL = `
schema {
	query: Query
	mutation: Mutation
}
type Query {
	me: User
	node(id: ID!): Node
	search(term: String! = "all"): [SearchResult!]
}
type Mutation {
	rename(id: ID!, name: String!): User
}
interface Node {
	id: ID!
}
type User implements Node {
	id: ID!
	name: String!
	nickname: String @deprecated(reason: "use name")
}
type Bot implements Node {
	id: ID!
}
union SearchResult = User | Bot
enum Status {
	ACTIVE
	RETIRED @deprecated
}
input RenameInput {
	id: ID!
	name: String! = "anonymous"
}
scalar Time
`

func TestFromSDL(t *testing.T) {
	s, err := FromSDL("test.graphql", testSDL)
	require.NoError(t, err)
	require.Equal(t, "Query", s.Query.Name)
	require.Equal(t, "Mutation", s.Mutation.Name)
	require.Nil(t, s.Subscription)
	require.Equal(t, ast.Union, s.Types["SearchResult"].Kind)
}

func TestFromSDLInvalid(t *testing.T) {
	_, err := FromSDL("bad.graphql", `type Query { me: Missing }`)
	require.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	s, err := FromSDL("test.graphql", testSDL)
	require.NoError(t, err)

	data, err := Dump(s)
	require.NoError(t, err)

	got, err := FromIntrospection(data)
	require.NoError(t, err)

	require.Equal(t, "Query", got.Query.Name)
	require.Equal(t, "Mutation", got.Mutation.Name)

	for _, name := range []string{"User", "Bot", "Node", "SearchResult", "Status", "RenameInput", "Time"} {
		require.NotNil(t, got.Types[name], "type %s survives the round trip", name)
		require.Equal(t, s.Types[name].Kind, got.Types[name].Kind)
	}

	user := got.Types["User"]
	require.NotNil(t, user.Fields.ForName("name"))
	require.Contains(t, user.Interfaces, "Node")

	require.ElementsMatch(t, []string{"User", "Bot"}, got.Types["SearchResult"].Types)

	// Possible-type indexes are rebuilt by the loader.
	require.Len(t, got.PossibleTypes["Node"], 2)

	// Deprecations survive as directives.
	nickname := user.Fields.ForName("nickname")
	require.NotNil(t, nickname)
	require.NotNil(t, nickname.Directives.ForName("deprecated"))

	// Argument defaults survive as literals.
	search := got.Query.Fields.ForName("search")
	require.NotNil(t, search)
	require.Equal(t, "all", search.Arguments.ForName("term").DefaultValue.Raw)
}

func TestFromIntrospectionBareSchema(t *testing.T) {
	s, err := FromSDL("test.graphql", testSDL)
	require.NoError(t, err)
	data, err := Dump(s)
	require.NoError(t, err)

	// Strip the response envelope down to the bare __schema object.
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	bare, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	got, err := FromIntrospection(bare)
	require.NoError(t, err)
	require.Equal(t, "Query", got.Query.Name)
}

func TestFromIntrospectionRejectsGarbage(t *testing.T) {
	_, err := FromIntrospection([]byte(`{"not": "a schema"}`))
	require.Error(t, err)

	_, err = FromIntrospection([]byte(`{{`))
	require.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	sdlPath := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(sdlPath, []byte(testSDL), 0o644))
	s, err := FromFile(sdlPath)
	require.NoError(t, err)
	require.Equal(t, "Query", s.Query.Name)

	dumped, err := Dump(s)
	require.NoError(t, err)
	jsonPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(jsonPath, dumped, 0o644))
	s2, err := FromFile(jsonPath)
	require.NoError(t, err)
	require.Equal(t, "Query", s2.Query.Name)

	_, err = FromFile(filepath.Join(dir, "missing.graphql"))
	require.Error(t, err)
}

func TestIntrospectionQueryParses(t *testing.T) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "introspection", Input: IntrospectionQuery})
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	require.Len(t, doc.Fragments, 3)
}
