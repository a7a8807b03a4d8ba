package gqlclient

import "context"

// Request carries the wire fields of one operation.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// ResponseError is one error entry returned by the endpoint.
type ResponseError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Result is a decoded execution result, before casting.
type Result struct {
	Data       map[string]any  `json:"data"`
	Errors     []ResponseError `json:"errors"`
	Extensions map[string]any  `json:"extensions"`
}

// Executor sends one operation to a GraphQL endpoint. Implementations must
// be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
