package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

// Client implements port.Transport over HTTP.
type Client struct {
	port       int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// New creates a client. The default timeout bounds every call, including
// the in-flight poll a shutdown waits for.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPort forces the TCP port; 0 keeps the URL's own.
func WithPort(p int) Option {
	return func(c *Client) {
		c.port = p
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Do sends req and returns the body of a 200 response. Any other outcome
// is an error wrapping port.ErrTransport.
func (c *Client) Do(ctx context.Context, req port.Request) ([]byte, error) {
	endpoint, err := c.buildURL(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrTransport, err)
	}

	var body io.Reader
	if req.Method == http.MethodPost {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", port.ErrTransport, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", port.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &port.TransportError{StatusCode: resp.StatusCode, Body: data}
	}
	return data, nil
}

func (c *Client) buildURL(req port.Request) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", req.URL)
	}

	if c.port > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(c.port))
	}

	if req.Method == http.MethodGet {
		q := u.Query()
		q.Set("sessionId", strconv.FormatUint(req.SessionID, 10))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

var _ port.Transport = (*Client)(nil)
