package gqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPExecutor executes operations against an HTTP endpoint with JSON POST
// requests, the transport almost every GraphQL server speaks.
type HTTPExecutor struct {
	URL     string
	Headers http.Header
	Client  *http.Client
}

func (e *HTTPExecutor) Execute(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for name, values := range e.Headers {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		// Servers report well-formed errors with non-200 statuses too, so
		// the status only matters once the body is unreadable.
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}
