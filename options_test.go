package signalbridge

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_RejectInvalidValues(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		opt  Option
	}{
		{"empty base url", WithBaseURL("")},
		{"zero timeout", WithTimeout(0)},
		{"negative timeout", WithTimeout(-time.Second)},
		{"zero batch timeout", WithBatchTimeout(0)},
		{"nil error logger", WithErrorLogger(nil)},
		{"nil transport", WithTransport(nil)},
		{"nil http client", WithHTTPClient(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(testToken, tc.opt)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestOptions_LastOneWins(t *testing.T) {
	t.Parallel()
	c, err := New(testToken, WithTimeout(time.Second), WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.Timeout())
}

func TestWithLogger_WritesStructuredEntry(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ft := &fakeTransport{resp: &Response{StatusCode: 403, Body: []byte(`{"message":"No client associated with your account"}`)}}
	c, err := New(testToken, WithTransport(ft), WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	_, err = c.GetBalance(context.Background(), "")
	require.Error(t, err)
	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"status_code":403`)
	assert.Contains(t, out, `"message":"No client associated with your account"`)
	assert.Contains(t, out, "SignalBridge API error")
}

func TestWithHTTPClient_UsedByBuiltInTransport(t *testing.T) {
	t.Parallel()
	gw, _, _ := newGateway(t)
	hits := 0
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hits++
		return http.DefaultTransport.RoundTrip(r)
	})}
	c, err := New(testToken, WithBaseURL(gw.URL()), WithHTTPClient(hc))
	require.NoError(t, err)
	_, err = c.GetBalance(context.Background(), "UGX")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestKindHelpers(t *testing.T) {
	t.Parallel()
	ft := &fakeTransport{resp: &Response{StatusCode: 503}}
	c, err := New(testToken, WithTransport(ft), WithLogging(false))
	require.NoError(t, err)
	_, err = c.ListTokens(context.Background())

	assert.Equal(t, KindServiceUnavailable, KindOf(err))
	assert.True(t, IsKind(err, KindServiceUnavailable))
	assert.False(t, IsKind(err, KindGeneric))
	assert.Equal(t, KindGeneric, KindOf(assert.AnError))
	assert.False(t, IsKind(nil, KindGeneric))
}
