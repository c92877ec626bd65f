package api

import (
	"context"
	"encoding/json"
	"errors"

	apierrors "github.com/nugsoft/signalbridge-go/internal/errors"
	"github.com/nugsoft/signalbridge-go/internal/types"
)

var errNoResponse = errors.New("transport returned no response")

// call issues one request and returns the body of a 2xx answer. Anything
// else comes back as an APIError.
func call(ctx context.Context, tr types.Transport, req *types.Request) (*types.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierrors.ClassifyTransportFailure(err)
	}
	resp, err := tr.Do(ctx, req)
	if err != nil {
		return nil, apierrors.ClassifyTransportFailure(err)
	}
	if resp == nil {
		return nil, apierrors.ClassifyTransportFailure(errNoResponse)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.Classify(resp.StatusCode, resp.Body)
	}
	return resp, nil
}

// decode unmarshals a successful body into out. The gateway has already
// acted on the request, so a body that is valid JSON but does not fit out
// is decoded as far as it goes and the caller keeps Raw. Only a body that
// is not JSON at all is reported, as a Generic failure with the real status.
func decode(resp *types.Response, out any) error {
	if len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil && !json.Valid(resp.Body) {
		return apierrors.NewGenericError(resp.StatusCode, "Invalid response body", nil, err)
	}
	return nil
}

func rawCopy(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), b...)
}

func decodeDocument(resp *types.Response) (*types.Document, error) {
	doc := &types.Document{Fields: map[string]any{}, Raw: rawCopy(resp.Body)}
	if err := decode(resp, &doc.Value); err != nil {
		return nil, err
	}
	if m, ok := doc.Value.(map[string]any); ok {
		doc.Fields = m
	}
	return doc, nil
}
