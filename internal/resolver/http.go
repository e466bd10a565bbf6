// Package resolver provides fallback sources for the composite store:
// an HTTP origin and a static in-memory map for preload-only setups.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// HTTPOrigin resolves keys with GET <base>/<key> against an upstream
// service. A 404 is a clean not-found; any other non-2xx status is an
// error. The store propagates those errors untouched, so callers see
// origin failures directly.
type HTTPOrigin struct {
	base   string
	client *http.Client
}

// NewHTTPOrigin builds a resolver for the given origin base URL. A zero
// timeout selects the default of 5s; the timeout bounds the whole
// request including body read.
func NewHTTPOrigin(base string, timeout time.Duration) (*HTTPOrigin, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("resolver: bad origin url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("resolver: unsupported origin scheme %q", u.Scheme)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPOrigin{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (o *HTTPOrigin) Resolve(ctx context.Context, key string) ([]byte, bool, error) {
	reqURL := o.base + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("resolver: origin returned %s for %q", resp.Status, key)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}
