package types

import (
	"context"
	"net/url"
	"time"
)

// ------------------------------
// Transport collaborator
// ------------------------------

// Request is one outbound call to the gateway. Path is relative to the
// configured base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Timeout time.Duration
}

// Response is whatever the gateway answered, successful or not.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends a Request and returns the gateway's status and body.
// A non-nil error means no response was received at all; non-2xx answers
// are returned as a Response. Implementations must be safe for concurrent
// use if the Client is shared.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}
