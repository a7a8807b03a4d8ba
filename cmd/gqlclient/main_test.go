package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Francis327921538/graphql-client/schema"
)

const testSDL = `
type Query {
	me: User
}
type User {
	id: ID!
	name: String!
}
`

func captureOutput(t *testing.T, fn func() error) (stdout string, err error) {
	t.Helper()
	oldOut := os.Stdout
	defer func() { os.Stdout = oldOut }()

	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() { io.Copy(&buf, r); close(done) }()

	err = fn()
	w.Close()
	<-done
	return buf.String(), err
}

func writeFixtures(t *testing.T) (schemaFile, queryFile string) {
	t.Helper()
	dir := t.TempDir()
	schemaFile = filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(schemaFile, []byte(testSDL), 0o644))
	queryFile = filepath.Join(dir, "viewer.graphql")
	require.NoError(t, os.WriteFile(queryFile, []byte(`query GetMe { me { id name } }`), 0o644))
	return
}

func TestHelp(t *testing.T) {
	out, err := captureOutput(t, func() error {
		return run([]string{"help", "check"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "check FLAGS")
}

func TestUnknownCommand(t *testing.T) {
	err := run([]string{"frobnicate"})
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	schemaFile, queryFile := writeFixtures(t)

	out, err := captureOutput(t, func() error {
		return run([]string{"check", "-schema", schemaFile, queryFile})
	})
	require.NoError(t, err)
	require.Contains(t, out, "ok: 1 definitions")
}

func TestCheckReportsErrors(t *testing.T) {
	schemaFile, _ := writeFixtures(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.graphql")
	require.NoError(t, os.WriteFile(bad, []byte(`query Broken { me { nope } }`), 0o644))

	err := run([]string{"check", "-schema", schemaFile, bad})
	require.Error(t, err)
	require.Contains(t, err.Error(), "nope")
}

func TestPrint(t *testing.T) {
	schemaFile, queryFile := writeFixtures(t)

	out, err := captureOutput(t, func() error {
		return run([]string{"print", "-schema", schemaFile, queryFile})
	})
	require.NoError(t, err)

	// Module name comes from the file name.
	require.Contains(t, out, "viewer__GetMe")
	require.Contains(t, out, "query viewer__GetMe")
}

func TestDumpSchema(t *testing.T) {
	s, err := schema.FromSDL("schema.graphql", testSDL)
	require.NoError(t, err)
	dumped, err := schema.Dump(s)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token", r.Header.Get("Authorization"))
		w.Write(dumped)
	}))
	defer srv.Close()

	outFile := filepath.Join(t.TempDir(), "schema.json")
	err = run([]string{"dump-schema", "-endpoint", srv.URL, "-header", "Authorization: token", "-out", outFile})
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	require.NotNil(t, envelope.Data["__schema"])

	// The written file itself loads as a schema.
	s2, err := schema.FromFile(outFile)
	require.NoError(t, err)
	require.Equal(t, "Query", s2.Query.Name)
}
