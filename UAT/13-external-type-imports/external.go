// Package external shows mocks whose methods use types from other packages, and mocks of
// interfaces declared in other packages.
package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher performs HTTP requests.
type Fetcher interface {
	Fetch(ctx context.Context, target *url.URL, timeout time.Duration) (*http.Response, error)
	Headers() http.Header
}

// ErrStatus is returned for responses other than 200 OK.
var ErrStatus = errors.New("unexpected status")

// DefaultTimeout bounds every Download.
const DefaultTimeout = 5 * time.Second

// Download fetches rawURL and returns the response body. The body is always closed.
func Download(ctx context.Context, fetcher Fetcher, rawURL string) ([]byte, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", rawURL, err)
	}

	resp, err := fetcher.Fetch(ctx, target, DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	return data, nil
}
