// Package signalbridge is the Go SDK for the SignalBridge SMS gateway.
//
// A Client sends single and batch messages, reads balances and transaction
// history, and manages API tokens. Failures come back as one of a closed
// set of typed errors (see APIError) carrying the structured context the
// gateway returned.
//
//	c, err := signalbridge.New(token)
//	if err != nil {
//		return err
//	}
//	res, err := c.SendSMS(ctx, "256700000000", "Hello", signalbridge.SendOptions{})
//	var low *signalbridge.InsufficientBalanceError
//	if errors.As(err, &low) {
//		need, _ := low.RequiredBalance()
//		...
//	}
package signalbridge

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nugsoft/signalbridge-go/internal/api"
	"github.com/nugsoft/signalbridge-go/internal/transport"
	"github.com/nugsoft/signalbridge-go/segments"
)

// Defaults applied by New.
const (
	DefaultBaseURL      = "https://signal-bridge.nugsoftstagging.com/api"
	DefaultTimeout      = 30 * time.Second
	DefaultBatchTimeout = 60 * time.Second
)

// ErrMissingToken is returned by New when the API token is empty.
var ErrMissingToken = errors.New("signalbridge: API token is required")

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the gateway. It is immutable after New and safe for
// concurrent use as long as its Transport is.
type Client struct {
	baseURL      string
	token        string
	timeout      time.Duration
	batchTimeout time.Duration

	transport  Transport
	httpClient *http.Client
	debug      bool

	logging bool
	logger  *zerolog.Logger
	errLog  ErrorLogger
}

// New constructs a Client authenticated with token. Options are applied in
// order; the first failing option aborts construction.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		token:        token,
		timeout:      DefaultTimeout,
		batchTimeout: DefaultBatchTimeout,
		logging:      true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.batchTimeout <= c.timeout {
		c.batchTimeout = 2 * c.timeout
	}
	switch {
	case !c.logging:
		c.errLog = NopErrorLogger{}
	case c.errLog == nil:
		c.errLog = newZerologErrorLogger(nil)
	}
	if c.transport == nil {
		c.transport = transport.New(transport.Config{
			BaseURL:    c.baseURL,
			Token:      c.token,
			HTTPClient: c.httpClient,
			Debug:      c.debug,
			Logger:     c.logger,
		})
	}
	return c, nil
}

// BaseURL returns the gateway root the client was configured with, without
// a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout for single operations.
func (c *Client) Timeout() time.Duration { return c.timeout }

// BatchTimeout returns the per-request timeout for batch sends.
func (c *Client) BatchTimeout() time.Duration { return c.batchTimeout }

// --------------------------------------------------------------------
// Messaging
// --------------------------------------------------------------------

// SendSMS sends message to recipient. The body may not exceed 1000
// characters; longer bodies fail locally with a *ValidationError.
func (c *Client) SendSMS(ctx context.Context, recipient, message string, opts SendOptions) (*SendResponse, error) {
	start := time.Now()
	res, err := api.SendSMS(ctx, c.transport, c.timeout, recipient, message, opts)
	return res, c.observe(opSendSMS, start, err)
}

// SendBatch sends all messages in one request. A nil error means the batch
// was accepted; inspect Data.Messages for per-message outcomes.
func (c *Client) SendBatch(ctx context.Context, messages []BatchMessage, opts BatchOptions) (*BatchResponse, error) {
	start := time.Now()
	res, err := api.SendBatch(ctx, c.transport, c.batchTimeout, messages, opts)
	return res, c.observe(opSendBatch, start, err)
}

// --------------------------------------------------------------------
// Balance
// --------------------------------------------------------------------

// GetBalance returns the balance for currency; an empty currency means UGX.
func (c *Client) GetBalance(ctx context.Context, currency string) (*Balance, error) {
	start := time.Now()
	res, err := api.GetBalance(ctx, c.transport, c.timeout, currency)
	return res, c.observe(opGetBalance, start, err)
}

// GetBalanceSummary returns the balance summary with recent activity.
func (c *Client) GetBalanceSummary(ctx context.Context) (*Document, error) {
	start := time.Now()
	res, err := api.GetBalanceSummary(ctx, c.transport, c.timeout)
	return res, c.observe(opGetBalanceSummary, start, err)
}

// GetTransactions returns a page of transaction history.
func (c *Client) GetTransactions(ctx context.Context, filter TransactionFilter) (*TransactionPage, error) {
	start := time.Now()
	res, err := api.GetTransactions(ctx, c.transport, c.timeout, filter)
	return res, c.observe(opGetTransactions, start, err)
}

// --------------------------------------------------------------------
// Tokens
// --------------------------------------------------------------------

// ListTokens returns the account's API tokens.
func (c *Client) ListTokens(ctx context.Context) (*Document, error) {
	start := time.Now()
	res, err := api.ListTokens(ctx, c.transport, c.timeout)
	return res, c.observe(opListTokens, start, err)
}

// RevokeCurrentToken revokes the token this client authenticates with.
// The client is unusable for further calls afterwards.
func (c *Client) RevokeCurrentToken(ctx context.Context) (*Document, error) {
	start := time.Now()
	res, err := api.RevokeCurrentToken(ctx, c.transport, c.timeout)
	return res, c.observe(opRevokeCurrentToken, start, err)
}

// --------------------------------------------------------------------
// Estimation (local only)
// --------------------------------------------------------------------

// CalculateSegments returns the approximate number of segments message
// occupies.
func (c *Client) CalculateSegments(message string) int {
	return segments.Count(message)
}

// EstimateCost returns the approximate cost of message at segmentPrice.
// The gateway's send response carries the billed cost.
func (c *Client) EstimateCost(message string, segmentPrice decimal.Decimal) decimal.Decimal {
	return segments.EstimateCost(message, segmentPrice)
}

// observe records metrics for one call and reports failures to the error
// logger. It returns err unchanged.
func (c *Client) observe(op string, start time.Time, err error) error {
	requestsTotal.WithLabelValues(op).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil {
		return nil
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		failuresTotal.WithLabelValues(op, "unclassified").Inc()
		return err
	}
	failuresTotal.WithLabelValues(op, apiErr.Kind().String()).Inc()
	c.errLog.LogAPIError(apiErr.StatusCode(), logMessage(apiErr))
	return err
}

// logMessage prefers the cause of a transport failure over the generic
// fallback text so logs say what actually went wrong.
func logMessage(err APIError) string {
	if cause := errors.Unwrap(err); cause != nil {
		return cause.Error()
	}
	return err.Message()
}
