// Package transport talks to the chat backend over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/comigor/jarvis-chat/internal/history"
	"github.com/comigor/jarvis-chat/internal/logger"
)

// Reply is the backend's answer to a query. An empty Response is a soft
// failure: the backend was reached but had nothing to say.
type Reply struct {
	Response string `json:"response"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.Path, e.Code)
}

// Client is a client for the chat backend
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new Client. A nil httpClient means http.DefaultClient.
// No timeout is applied: requests run until they succeed or fail.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// Send posts a query as a form and returns the reply.
func (c *Client) Send(ctx context.Context, query string) (Reply, error) {
	form := url.Values{"query": {query}}
	var reply Reply
	err := c.do(ctx, http.MethodPost, "/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &reply)
	return reply, err
}

// History fetches the grouped history. A response without a "history" key
// yields a nil payload.
func (c *Client) History(ctx context.Context) (history.Payload, error) {
	var body struct {
		History history.Payload `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/history", "", nil, &body); err != nil {
		return nil, err
	}
	return body.History, nil
}

// DeleteHistoryItem deletes every history entry whose text is message.
func (c *Client) DeleteHistoryItem(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/delete-history-item", "application/json", bytes.NewReader(payload), nil)
}

// ClearHistory wipes the whole history.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/clear-history", "", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	logger.L.Debug("backend request", "method", method, "path", path)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
