package remote

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
)

// DefaultTimeout bounds every remote call so a hung remote cannot stall a
// refresh. The UI renders from local data regardless of remote latency.
const DefaultTimeout = 10 * time.Second

// Client talks to the remote document store over HTTP.
//
// Wire contract:
//
//	POST   /v1/{collection}            -> 200 {"id": "..."}
//	PUT    /v1/{collection}/{id}       -> 2xx
//	DELETE /v1/{collection}/{id}       -> 2xx
//	GET    /v1/{collection}?orderBy=f&direction=desc
//	                                   -> 200 {"documents": [{"id":..., "data":...}]}
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client from a validated config.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Close tears down idle connections. Reconfiguration replaces the whole
// client, so Close is the reconnect teardown point.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Add implements Store.
func (c *Client) Add(ctx context.Context, collection string, record any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.collectionURL(collection, nil), record)
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, err)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("add to %s: decode response: %w", collection, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("add to %s: server returned no id", collection)
	}
	return resp.ID, nil
}

// Set implements Store.
func (c *Client) Set(ctx context.Context, collection, id string, record any) error {
	if _, err := c.do(ctx, http.MethodPut, c.documentURL(collection, id), record); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete implements Store.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, c.documentURL(collection, id), nil); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// QueryOrdered implements Store.
func (c *Client) QueryOrdered(ctx context.Context, collection, orderField string, dir Direction) ([]Document, error) {
	q := url.Values{}
	if orderField != "" {
		q.Set("orderBy", orderField)
		q.Set("direction", string(dir))
	}
	body, err := c.do(ctx, http.MethodGet, c.collectionURL(collection, q), nil)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("query %s: decode response: %w", collection, err)
	}
	return resp.Documents, nil
}

func (c *Client) collectionURL(collection string, q url.Values) string {
	u := c.baseURL + "/v1/" + url.PathEscape(collection)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) documentURL(collection, id string) string {
	return c.baseURL + "/v1/" + url.PathEscape(collection) + "/" + url.PathEscape(id)
}

// do issues one request and returns the response body for 2xx statuses.
func (c *Client) do(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote returned %s: %s", resp.Status, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Store = (*Client)(nil)
