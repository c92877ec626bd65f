package transport

import (
	"bytes"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redacted = "Bearer [redacted]"

// debugTransport dumps every gateway exchange at debug level, tagged with
// the request id so a request and its response can be paired in the logs.
// The Authorization header is redacted; message bodies are not.
//
// Enable it with WithDebugLogging(true) on the client, or by exporting
// SIGNALBRIDGE_DEBUG=true (or DEBUG=true).
type debugTransport struct {
	base   http.RoundTripper
	logger *zerolog.Logger // nil means the global logger
}

func (dt *debugTransport) sink() *zerolog.Logger {
	if dt.logger != nil {
		return dt.logger
	}
	return &log.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	l := dt.sink().With().
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Logger()

	if dump, err := dumpRedacted(req); err == nil {
		l.Debug().Str("request_dump", string(dump)).Msg("gateway request")
	}

	start := time.Now()
	resp, err := dt.base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		l.Error().Err(err).Dur("elapsed", elapsed).Msg("gateway request failed")
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		l.Debug().
			Int("status_code", resp.StatusCode).
			Dur("elapsed", elapsed).
			Str("response_dump", string(dump)).
			Msg("gateway response")
	}
	return resp, nil
}

// dumpRedacted dumps req with the bearer token masked in the output.
func dumpRedacted(req *http.Request) ([]byte, error) {
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return nil, err
	}
	if auth := req.Header.Get("Authorization"); auth != "" {
		dump = bytes.ReplaceAll(dump, []byte(auth), []byte(redacted))
	}
	return dump, nil
}

// DebugRequested reports whether HTTP dumps were requested through the
// environment: SIGNALBRIDGE_DEBUG=true or DEBUG=true.
func DebugRequested() bool {
	return os.Getenv("SIGNALBRIDGE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
