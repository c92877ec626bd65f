package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nugsoft/signalbridge-go/internal/types"
)

// SendSMS sends a single message.
func SendSMS(ctx context.Context, tr types.Transport, timeout time.Duration, recipient, message string, opts types.SendOptions) (*types.SendResponse, error) {
	payload, err := BuildSend(recipient, message, opts)
	if err != nil {
		return nil, err
	}
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodPost,
		Path:    "/sms/send",
		Body:    payload,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	out := &types.SendResponse{Raw: rawCopy(resp.Body)}
	if err := decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendBatch sends several messages in one request. The gateway fans them
// out and reports each outcome in the response body.
func SendBatch(ctx context.Context, tr types.Transport, timeout time.Duration, messages []types.BatchMessage, opts types.BatchOptions) (*types.BatchResponse, error) {
	payload, err := BuildBatch(messages, opts)
	if err != nil {
		return nil, err
	}
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodPost,
		Path:    "/sms/send-batch",
		Body:    payload,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	out := &types.BatchResponse{Raw: rawCopy(resp.Body)}
	if err := decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}
