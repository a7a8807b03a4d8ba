// Package gqlclient is a GraphQL client that compiles queries ahead of time
// against a schema and exposes responses through typed views. Queries are
// declared near the code that consumes them, validated at startup, and
// frozen; response data is then only reachable through the fields each
// definition actually asked for.
package gqlclient

import (
	"context"
	"runtime"
	"time"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
	"github.com/Francis327921538/graphql-client/compiler"
	"github.com/Francis327921538/graphql-client/errset"
	"github.com/Francis327921538/graphql-client/internal/eventbus"
	"github.com/Francis327921538/graphql-client/internal/events"
	"github.com/Francis327921538/graphql-client/internal/reqid"
)

// Client binds a schema, a compiler, and an executor together.
type Client struct {
	compiler     *compiler.Compiler
	exec         Executor
	allowDynamic bool
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	dynamic  bool
	registry []casting.RegistryOption
}

// WithDynamicQueries allows executing anonymous operations. Named, frozen
// definitions are the intended path; this exists for tooling that builds
// queries at runtime.
func WithDynamicQueries() Option {
	return func(o *clientOptions) { o.dynamic = true }
}

// WithScalar installs a coercion for a custom scalar type.
func WithScalar(name string, coerce func(any) any) Option {
	return func(o *clientOptions) {
		o.registry = append(o.registry, casting.WithScalar(name, coerce))
	}
}

// New builds a Client for the given schema. The executor may be nil for
// compile-only use.
func New(schema *ast.Schema, exec Executor, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		compiler:     compiler.New(schema, o.registry...),
		exec:         exec,
		allowDynamic: o.dynamic,
	}
}

// Compiler exposes the underlying compiler for direct access to modules.
func (c *Client) Compiler() *compiler.Compiler { return c.compiler }

// Compile parses and freezes a query block under the given module name.
// Definitions in earlier blocks are referencable as "Module.Fragment".
func (c *Client) Compile(moduleName, query string, opts ...compiler.Option) (*compiler.Module, error) {
	loc := compiler.Location{}
	if _, file, line, ok := runtime.Caller(1); ok {
		loc = compiler.Location{File: file, Line: line}
	}
	// The caller's own WithLocation, if any, is applied afterwards and wins.
	opts = append([]compiler.Option{compiler.WithLocation(loc.File, loc.Line)}, opts...)

	ctx, _ := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.CompileStart{Module: moduleName, File: loc.File, Line: loc.Line})
	start := time.Now()

	mod, err := c.compiler.Compile(moduleName, query, opts...)

	finish := events.CompileFinish{Module: moduleName, Err: err, Duration: time.Since(start)}
	if mod != nil {
		finish.Definitions = len(mod.Definitions())
	}
	eventbus.Publish(ctx, finish)
	return mod, err
}

// Response is the outcome of one executed operation.
type Response struct {
	// Data is the typed view over the response data, nil when the endpoint
	// returned no data at all.
	Data *casting.View
	// Errors holds every error the endpoint reported, scoped at the root.
	Errors *errset.Errors
	// Extensions carries the response extensions verbatim.
	Extensions map[string]any
}

// Query executes a compiled operation and casts the result.
func (c *Client) Query(ctx context.Context, def *compiler.Definition, variables map[string]any) (*Response, error) {
	if def.Kind() != compiler.KindOperation {
		return nil, &casting.TypeMismatchError{Expected: "an operation definition", Actual: "a fragment definition"}
	}
	if def.Name() == "" && !c.allowDynamic {
		return nil, &DynamicQueryError{}
	}

	ctx, _ = reqid.NewContext(ctx)
	opType := string(def.Operation().Operation)
	eventbus.Publish(ctx, events.QueryStart{
		Query:         def.String(),
		OperationName: def.Name(),
		OperationType: opType,
	})
	start := time.Now()

	result, err := c.exec.Execute(ctx, Request{
		Query:         def.String(),
		OperationName: def.Name(),
		Variables:     normalizeVariables(variables),
	})
	if err != nil {
		eventbus.Publish(ctx, events.QueryFinish{
			Query: def.String(), OperationName: def.Name(), OperationType: opType,
			Err: err, Duration: time.Since(start),
		})
		return nil, err
	}

	resp := newResponse(def, result)
	eventbus.Publish(ctx, events.QueryFinish{
		Query: def.String(), OperationName: def.Name(), OperationType: opType,
		ErrorCount: len(result.Errors), Duration: time.Since(start),
	})
	return resp, nil
}

// newResponse scopes the endpoint's errors and casts the data. Error paths
// from the wire start at the operation root, so they are re-rooted under
// "data" to line up with the response document.
func newResponse(def *compiler.Definition, result *Result) *Response {
	entries := make([]errset.Entry, 0, len(result.Errors))
	for _, re := range result.Errors {
		// Errors without a path apply to the whole request, so they are
		// rooted at "data" and stay visible from the response data view.
		path := append([]any{"data"}, re.Path...)
		entries = append(entries, errset.Entry{
			Message:    re.Message,
			Path:       path,
			Extensions: re.Extensions,
		})
	}
	errs := errset.New(entries)

	resp := &Response{Errors: errs, Extensions: result.Extensions}
	if result.Data != nil {
		casted := def.Unit().Cast(result.Data, errs.FilterByPath("data"))
		resp.Data, _ = casted.(*casting.View)
	}
	return resp
}
