package types

import "time"

// ------------------------------
// Caller-facing options
// ------------------------------

// SendOptions are the optional fields of a single send. Nil pointers are
// omitted from the payload.
type SendOptions struct {
	SenderID    *string
	ScheduledAt *time.Time
	Metadata    map[string]any
	IsTest      bool
}

// BatchOptions apply to the whole batch. SenderID is sent only when set,
// an explicit empty string included.
type BatchOptions struct {
	SenderID *string
	IsTest   bool
}

// TransactionFilter narrows a transaction history query. Zero values are
// left out of the query string.
type TransactionFilter struct {
	Type      string
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// ------------------------------
// Wire payloads
// ------------------------------

// SendSMSRequest is the body of POST /sms/send.
type SendSMSRequest struct {
	Recipient   string         `json:"recipient"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata"`
	IsTest      bool           `json:"is_test"`
	SenderID    *string        `json:"sender_id,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
}

// BatchMessage is one entry of a batch send.
type BatchMessage struct {
	Recipient   string         `json:"recipient"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	SenderID    *string        `json:"sender_id,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
}

// SendBatchRequest is the body of POST /sms/send-batch.
type SendBatchRequest struct {
	Messages []BatchMessage `json:"messages"`
	IsTest   bool           `json:"is_test"`
	SenderID *string        `json:"sender_id,omitempty"`
}
