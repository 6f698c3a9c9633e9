package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todoBoard/internal/handlers/dto"
	"todoBoard/internal/models/todo"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultClientTimeout = 10 * time.Second

// APIError is a non-2xx answer from the todo API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks JSON to the todo API.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultClientTimeout,
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]*todo.Todo, error) {
	var todos []*todo.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) Create(ctx context.Context, text, deadline string) (*todo.Todo, error) {
	var created todo.Todo
	body := dto.CreateTodoRequest{Text: text, Deadline: deadline}
	if err := c.do(ctx, http.MethodPost, "/api/todos", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Update(ctx context.Context, id string, req dto.UpdateTodoRequest) (*todo.Todo, error) {
	var updated todo.Todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+url.PathEscape(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("server error %d", resp.StatusCode)
	}
	return apiErr
}
