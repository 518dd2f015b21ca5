// Package access talks to the platform's access API, the remote source of
// truth for OIDC identity mappings.
package access

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/darmiel/fedmap/internal/core"
)

const defaultTimeout = 30 * time.Second

var _ core.MappingStore = (*Client)(nil)

// Client is a bearer-token JSON client for the access API.
// It performs no retries; callers decide whether a failure escalates.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL, token string, opts ...Option) (*Client, error) {
	normalizedBaseURL := strings.TrimRight(baseURL, "/")
	if normalizedBaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if token == "" {
		return nil, fmt.Errorf("admin token cannot be empty")
	}
	c := &Client{
		baseURL:    normalizedBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
