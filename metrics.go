package signalbridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	opSendSMS            = "send_sms"
	opSendBatch          = "send_batch"
	opGetBalance         = "get_balance"
	opGetBalanceSummary  = "get_balance_summary"
	opGetTransactions    = "get_transactions"
	opListTokens         = "list_tokens"
	opRevokeCurrentToken = "revoke_current_token"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalbridge_client",
			Name:      "requests_total",
			Help:      "Gateway operations attempted, by operation.",
		},
		[]string{"operation"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signalbridge_client",
			Name:      "failures_total",
			Help:      "Gateway operations that failed, by operation and error kind.",
		},
		[]string{"operation", "kind"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signalbridge_client",
			Name:      "request_duration_seconds",
			Help:      "Wall time of gateway operations, including local validation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
