package gqlclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
	"github.com/Francis327921538/graphql-client/schema"
)

const testSDL = `
type Query {
	me: User
	user(id: ID!): User
}
type User {
	id: ID!
	name: String!
	friends: [User!]
}
`

func mustLoadSchema(t *testing.T) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: testSDL})
	require.NoError(t, err)
	return s
}

type stubExecutor struct {
	lastRequest Request
	result      *Result
	err         error
}

func (e *stubExecutor) Execute(_ context.Context, req Request) (*Result, error) {
	e.lastRequest = req
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func TestClientQuery(t *testing.T) {
	exec := &stubExecutor{result: &Result{
		Data: map[string]any{
			"me": map[string]any{"id": "1", "name": "Josh"},
		},
		Extensions: map[string]any{"tracing": true},
	}}
	client := New(mustLoadSchema(t), exec)

	mod, err := client.Compile("Viewer", `query GetMe { me { id name } }`)
	require.NoError(t, err)
	def := mod.Get("GetMe")

	resp, err := client.Query(context.Background(), def, map[string]any{"x": 1})
	require.NoError(t, err)

	require.Equal(t, "Viewer__GetMe", exec.lastRequest.OperationName)
	require.Equal(t, def.String(), exec.lastRequest.Query)
	require.Equal(t, map[string]any{"x": 1}, exec.lastRequest.Variables)
	require.Equal(t, map[string]any{"tracing": true}, resp.Extensions)

	me, err := resp.Data.Get("me")
	require.NoError(t, err)
	name, err := me.(*casting.View).Get("name")
	require.NoError(t, err)
	require.Equal(t, "Josh", name)
}

func TestClientQueryErrorScoping(t *testing.T) {
	exec := &stubExecutor{result: &Result{
		Data: map[string]any{
			"me": map[string]any{"id": "1", "name": nil},
		},
		Errors: []ResponseError{
			{Message: "name exploded", Path: []any{"me", "name"}},
			{Message: "the sky is falling"},
		},
	}}
	client := New(mustLoadSchema(t), exec)

	mod, err := client.Compile("Scoped", `query GetMe { me { id name } }`)
	require.NoError(t, err)

	resp, err := client.Query(context.Background(), mod.Get("GetMe"), nil)
	require.NoError(t, err)

	// Broadcast errors show up at the root alongside pathed ones.
	require.ElementsMatch(t, []string{"name exploded", "the sky is falling"},
		resp.Errors.Messages())

	me, err := resp.Data.Get("me")
	require.NoError(t, err)
	view := me.(*casting.View)
	require.Equal(t, []string{"name exploded"}, view.Errors().FilterByPath("name").Messages())
	require.Empty(t, view.Errors().FilterByPath("id").Messages())
}

func TestClientBroadcastErrorsReachDataView(t *testing.T) {
	exec := &stubExecutor{result: &Result{
		Data: map[string]any{
			"me": map[string]any{"id": "1", "name": "Ann"},
		},
		Errors: []ResponseError{
			{Message: "rate limited"},
		},
	}}
	client := New(mustLoadSchema(t), exec)

	mod, err := client.Compile("Broadcast", `query GetMe { me { id name } }`)
	require.NoError(t, err)

	resp, err := client.Query(context.Background(), mod.Get("GetMe"), nil)
	require.NoError(t, err)

	// A pathless error applies to the whole request, so it is visible both
	// at the root and from the data view itself.
	require.Equal(t, []string{"rate limited"}, resp.Errors.Messages())
	require.Equal(t, []string{"rate limited"}, resp.Data.Errors().Messages())

	// It does not leak into field-scoped views.
	me, err := resp.Data.Get("me")
	require.NoError(t, err)
	require.Empty(t, me.(*casting.View).Errors().Messages())
}

func TestClientQueryRejectsFragments(t *testing.T) {
	client := New(mustLoadSchema(t), &stubExecutor{})

	mod, err := client.Compile("F", `fragment UserParts on User { id }`)
	require.NoError(t, err)

	_, err = client.Query(context.Background(), mod.Get("UserParts"), nil)
	var mismatch *casting.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestClientDynamicQueries(t *testing.T) {
	exec := &stubExecutor{result: &Result{Data: map[string]any{"me": nil}}}

	locked := New(mustLoadSchema(t), exec)
	mod, err := locked.Compile("", `{ me { id } }`)
	require.NoError(t, err)

	_, err = locked.Query(context.Background(), mod.Anonymous(), nil)
	var dyn *DynamicQueryError
	require.ErrorAs(t, err, &dyn)

	open := New(mustLoadSchema(t), exec, WithDynamicQueries())
	mod2, err := open.Compile("", `{ me { id } }`)
	require.NoError(t, err)
	_, err = open.Query(context.Background(), mod2.Anonymous(), nil)
	require.NoError(t, err)
}

func TestClientQueryTransportError(t *testing.T) {
	exec := &stubExecutor{err: context.DeadlineExceeded}
	client := New(mustLoadSchema(t), exec)

	mod, err := client.Compile("T", `query GetMe { me { id } }`)
	require.NoError(t, err)

	_, err = client.Query(context.Background(), mod.Get("GetMe"), nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientNilData(t *testing.T) {
	exec := &stubExecutor{result: &Result{
		Errors: []ResponseError{{Message: "total failure"}},
	}}
	client := New(mustLoadSchema(t), exec)

	mod, err := client.Compile("N", `query GetMe { me { id } }`)
	require.NoError(t, err)

	resp, err := client.Query(context.Background(), mod.Get("GetMe"), nil)
	require.NoError(t, err)
	require.Nil(t, resp.Data)
	require.Equal(t, []string{"total failure"}, resp.Errors.Messages())
}

func TestNormalizeVariables(t *testing.T) {
	got := normalizeVariables(map[string]any{
		"plain": "x",
		"keyed": map[any]any{1: "one", "two": 2},
		"list":  []any{map[any]any{true: "t"}},
	})
	require.Equal(t, map[string]any{
		"plain": "x",
		"keyed": map[string]any{"1": "one", "two": 2},
		"list":  []any{map[string]any{"true": "t"}},
	}, got)
	require.Nil(t, normalizeVariables(nil))
}

func TestHTTPExecutor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Q__GetMe", req.OperationName)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"me": map[string]any{"id": "1"}},
		})
	}))
	defer srv.Close()

	exec := &HTTPExecutor{
		URL:     srv.URL,
		Headers: http.Header{"Authorization": {"secret"}},
	}
	result, err := exec.Execute(context.Background(), Request{
		Query:         `query Q__GetMe { me { id } }`,
		OperationName: "Q__GetMe",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"me": map[string]any{"id": "1"}}, result.Data)
}

func TestHTTPExecutorStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	exec := &HTTPExecutor{URL: srv.URL}
	_, err := exec.Execute(context.Background(), Request{Query: "{ me { id } }"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestFetchSchema(t *testing.T) {
	source := mustLoadSchema(t)
	dumped, err := schema.Dump(source)
	require.NoError(t, err)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(dumped, &envelope))

	exec := &stubExecutor{result: &Result{Data: envelope.Data}}
	got, err := FetchSchema(context.Background(), exec)
	require.NoError(t, err)
	require.Equal(t, "IntrospectionQuery", exec.lastRequest.OperationName)
	require.Equal(t, "Query", got.Query.Name)
	require.NotNil(t, got.Types["User"])
}

func TestFetchSchemaErrors(t *testing.T) {
	exec := &stubExecutor{result: &Result{
		Errors: []ResponseError{{Message: "introspection is disabled"}},
	}}
	_, err := FetchSchema(context.Background(), exec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "introspection is disabled")
}
