// Package client holds the typed HTTP clients the services use to call each
// other. All cross-service traffic goes through these: form-encoded key/value
// requests, a shared internal credential header, and a short per-call timeout.
// Callers fold any error — network, timeout, or a peer's negative status —
// into their own failure outcome.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// InternalKeyHeader carries the service-to-service credential. Internal
// endpoints reject requests without it.
const InternalKeyHeader = "X-Internal-Key"

type baseClient struct {
	name        string
	baseURL     string
	internalKey string
	httpClient  *http.Client
}

func newBaseClient(name, baseURL, internalKey string, timeout time.Duration) baseClient {
	return baseClient{
		name:        name,
		baseURL:     strings.TrimRight(baseURL, "/"),
		internalKey: internalKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *baseClient) postForm(ctx context.Context, path string, values url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(InternalKeyHeader, c.internalKey)
	return c.do(req, path, out)
}

func (c *baseClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	req.Header.Set(InternalKeyHeader, c.internalKey)
	return c.do(req, path, out)
}

func (c *baseClient) do(req *http.Request, path string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.name, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", c.name, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", c.name, path, err)
	}
	return nil
}
