package gqlclient

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/schema"
)

// FetchSchema introspects a live endpoint and loads the result as a schema.
func FetchSchema(ctx context.Context, exec Executor) (*ast.Schema, error) {
	result, err := exec.Execute(ctx, Request{Query: schema.IntrospectionQuery, OperationName: "IntrospectionQuery"})
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("introspection failed: %s", result.Errors[0].Message)
	}
	return schema.FromIntrospectionResult(result.Data)
}
