package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/nugsoft/signalbridge-go/internal/types"
)

// stubTransport records every request and answers with a fixed response.
type stubTransport struct {
	mu     sync.Mutex
	status int
	body   string
	err    error
	reqs   []*types.Request
}

func (s *stubTransport) Do(_ context.Context, req *types.Request) (*types.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return nil, s.err
	}
	return &types.Response{StatusCode: s.status, Body: []byte(s.body)}, nil
}

func (s *stubTransport) last() *types.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		return nil
	}
	return s.reqs[len(s.reqs)-1]
}

// errTransport always fails (simulates a network failure with no response).
type errTransport struct{}

func (errTransport) Do(context.Context, *types.Request) (*types.Response, error) {
	return nil, fmt.Errorf("boom")
}

// nilTransport returns neither a response nor an error.
type nilTransport struct{}

func (nilTransport) Do(context.Context, *types.Request) (*types.Response, error) { return nil, nil }

func strPtr(s string) *string { return &s }
