// Package updates implements independent updates for the managed Lavalink
// node: fetching the published release index, selecting the newest build
// compatible with the running core application, and applying and persisting
// the selected release.
package updates

import (
	"context"

	"github.com/audiolab/coreexp/internal/transport"
	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/logging"
	"github.com/audiolab/coreexp/pkg/releases"
)

// Client fetches the published release index.
type Client struct {
	transport *transport.Client
	indexURL  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithIndexURL overrides the release index URL.
func WithIndexURL(url string) ClientOption {
	return func(c *Client) {
		c.indexURL = url
	}
}

// WithTransport sets the transport client. Useful for tests.
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// NewClient creates a release index client for the published index.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		transport: transport.New(),
		indexURL:  constants.DefaultReleaseIndexURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IndexURL returns the effective index URL.
func (c *Client) IndexURL() string {
	return c.indexURL
}

// FetchIndex downloads and decodes the release index.
func (c *Client) FetchIndex(ctx context.Context) (*releases.Index, error) {
	logging.Ctx(ctx).Debug().Str("url", c.indexURL).Msg("Fetching release index")

	body, err := c.transport.GetBody(ctx, c.indexURL)
	if err != nil {
		return nil, err
	}

	idx, err := releases.DecodeIndex(body)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().Int("releases", len(idx.Releases)).Msg("Release index fetched")
	return idx, nil
}
