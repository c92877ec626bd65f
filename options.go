package signalbridge

// This file defines functional options that configure the Client during
// construction. All of them are applied before defaults are derived, so
// the order between them only matters when the same knob is set twice.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithBaseURL points the client at another gateway root. Trailing slashes
// are removed.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return fmt.Errorf("base url cannot be empty")
		}
		c.baseURL = baseURL
		return nil
	}
}

// WithTimeout sets the per-request timeout for single operations. The
// value must be greater than zero.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithBatchTimeout sets the per-request timeout for batch sends. A value
// not longer than the single-operation timeout is replaced by twice that
// timeout, since the gateway fans a batch out before answering.
func WithBatchTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("batch timeout must be > 0")
		}
		c.batchTimeout = d
		return nil
	}
}

// WithLogging turns failure logging on or off. It is on by default.
func WithLogging(enabled bool) Option {
	return func(c *Client) error {
		c.logging = enabled
		return nil
	}
}

// WithLogger logs failures and debug dumps through l instead of the global
// zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = &l
		c.errLog = newZerologErrorLogger(&l)
		return nil
	}
}

// WithErrorLogger installs a custom failure logger.
func WithErrorLogger(l ErrorLogger) Option {
	return func(c *Client) error {
		if l == nil {
			return fmt.Errorf("error logger cannot be nil")
		}
		c.errLog = l
		return nil
	}
}

// WithTransport replaces the built-in HTTP transport. The client then
// neither adds authentication headers nor uses WithHTTPClient or
// WithDebugLogging; the transport owns those concerns.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return fmt.Errorf("transport cannot be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient makes the built-in transport send requests through hc's
// RoundTripper. hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level when
// enabled is true. The bearer token is redacted but message bodies are
// logged as sent; do not enable this in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}
