package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nugsoft/signalbridge-go/internal/types"
)

// GetBalance returns the account balance in currency (UGX when empty).
func GetBalance(ctx context.Context, tr types.Transport, timeout time.Duration, currency string) (*types.Balance, error) {
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodGet,
		Path:    "/balance",
		Query:   BuildBalanceQuery(currency),
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	out := &types.Balance{Raw: rawCopy(resp.Body)}
	if err := decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBalanceSummary returns the gateway's balance summary with recent activity.
func GetBalanceSummary(ctx context.Context, tr types.Transport, timeout time.Duration) (*types.Document, error) {
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodGet,
		Path:    "/balance/summary",
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

// GetTransactions returns one page of transaction history.
func GetTransactions(ctx context.Context, tr types.Transport, timeout time.Duration, filter types.TransactionFilter) (*types.TransactionPage, error) {
	resp, err := call(ctx, tr, &types.Request{
		Method:  http.MethodGet,
		Path:    "/balance/transactions",
		Query:   BuildTransactionQuery(filter),
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	out := &types.TransactionPage{Raw: rawCopy(resp.Body)}
	if err := decode(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}
