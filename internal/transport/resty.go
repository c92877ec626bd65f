// Package transport is the default gateway collaborator: one HTTP exchange
// per call, bearer authentication, JSON in and out.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nugsoft/signalbridge-go/internal/types"
)

// UserAgent identifies the SDK to the gateway.
const UserAgent = "signalbridge-go/1.0"

// RequestIDHeader carries a fresh UUID on every request.
const RequestIDHeader = "X-Request-ID"

// Config configures a Resty transport.
type Config struct {
	BaseURL string
	Token   string
	// HTTPClient is optional; its Transport is reused underneath resty.
	HTTPClient *http.Client
	// Debug dumps every request and response at debug level.
	Debug bool
	// Logger receives the debug dumps; nil means the global zerolog logger.
	Logger *zerolog.Logger
}

// Resty implements types.Transport on top of go-resty. It performs no
// retries and is safe for concurrent use.
type Resty struct {
	client *resty.Client
}

// New builds a Resty transport.
func New(cfg Config) *Resty {
	var c *resty.Client
	if cfg.HTTPClient != nil {
		hc := *cfg.HTTPClient
		c = resty.NewWithClient(&hc)
	} else {
		c = resty.New()
	}
	c.SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent).
		SetRetryCount(0)

	if cfg.Debug || DebugRequested() {
		base := http.DefaultTransport
		if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		c.SetTransport(&debugTransport{base: base, logger: cfg.Logger})
	}
	return &Resty{client: c}
}

// Do sends req and returns the gateway's answer. An error means no response
// was received; non-2xx answers are returned as data.
func (r *Resty) Do(ctx context.Context, req *types.Request) (*types.Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	rr := r.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString())
	if len(req.Query) > 0 {
		rr.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := rr.Execute(req.Method, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if resp == nil || resp.RawResponse == nil {
		return nil, fmt.Errorf("%s %s: no response after %s", req.Method, req.Path, time.Since(start))
	}
	return &types.Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
