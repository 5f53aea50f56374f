// Package client provides an HTTP client for the remote finance API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/najeeb67/my-money-mat/internal/models"
)

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned when the server answers with a non-2xx status.
// It means the server was reached and rejected the request.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsNetworkError reports whether err is a transport failure (server not
// reached) rather than a rejection.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FinanceClient communicates with the remote finance API.
type FinanceClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewFinanceClient creates a new finance API client. An empty token sends
// requests without an Authorization header.
func NewFinanceClient(baseURL, token string, httpClient *http.Client) *FinanceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FinanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// Token returns the configured bearer token.
func (c *FinanceClient) Token() string {
	return c.token
}

// Ping checks that the server is reachable.
func (c *FinanceClient) Ping(ctx context.Context) error {
	return c.do(ctx, "checking health", http.MethodGet, "/api/health", nil, nil)
}

// FetchItems returns the server copies of ids. Ids the server does not know
// are simply absent from the map.
func (c *FinanceClient) FetchItems(ctx context.Context, ids []string) (map[string]models.ServerBudgetItem, error) {
	if len(ids) == 0 {
		return map[string]models.ServerBudgetItem{}, nil
	}

	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var result struct {
		Items map[string]models.ServerBudgetItem `json:"items"`
	}
	if err := c.do(ctx, "fetching items", http.MethodPost, "/api/v1/budget-items/batch", body, &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = map[string]models.ServerBudgetItem{}
	}
	return result.Items, nil
}

// SyncItems pushes items and returns the ids the server accepted.
func (c *FinanceClient) SyncItems(ctx context.Context, items []models.ServerBudgetItem) ([]string, error) {
	body := struct {
		Items []models.ServerBudgetItem `json:"items"`
	}{Items: items}

	var result struct {
		SyncedIDs []string `json:"synced_ids"`
	}
	if err := c.do(ctx, "syncing items", http.MethodPost, "/api/v1/budget-items/sync", body, &result); err != nil {
		return nil, err
	}
	return result.SyncedIDs, nil
}

// Execute runs a named single-entity operation and returns the raw response body.
func (c *FinanceClient) Execute(ctx context.Context, operationName string, arguments json.RawMessage) (json.RawMessage, error) {
	req, err := BuildOperation(operationName, arguments)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	var body any
	if req.Body != nil {
		body = req.Body
	}
	if err := c.do(ctx, operationName, req.Method, req.Path, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do sends one JSON request. body and out may be nil.
func (c *FinanceClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%s: reading response: %w", op, err)
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
