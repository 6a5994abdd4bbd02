// Package transport provides the HTTP client used to reach the release index
// and download release artifacts.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality for remote endpoints.
type Client struct {
	http *http.Client
}

// New creates a new transport client with the default timeout.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// NewWithHTTPClient creates a transport client backed by the given http.Client.
// Useful for tests and for long downloads that need a different timeout.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{http: httpClient}
}

// Get performs a GET request against url and returns the response.
// The caller owns the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapValidation("url", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Endpoint: url,
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// GetBody performs a GET request and returns the response body, failing on
// any non-200 status.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", url, err)
	}
	return body, nil
}
