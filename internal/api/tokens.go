package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nugsoft/signalbridge-go/internal/types"
)

// ListTokens returns the API tokens of the account.
func ListTokens(ctx context.Context, tr types.Transport, timeout time.Duration) (*types.Document, error) {
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodGet,
		Path:    "/tokens",
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

// RevokeCurrentToken revokes the token the request was made with.
func RevokeCurrentToken(ctx context.Context, tr types.Transport, timeout time.Duration) (*types.Document, error) {
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodDelete,
		Path:    "/tokens/current",
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}
