package api

import (
	"fmt"
	"net/url"
	"strconv"

	apierrors "github.com/nugsoft/signalbridge-go/internal/errors"
	"github.com/nugsoft/signalbridge-go/internal/types"
	"github.com/nugsoft/signalbridge-go/segments"
)

// DefaultCurrency is used by balance queries when the caller passes none.
const DefaultCurrency = "UGX"

// BuildSend assembles the POST /sms/send payload. The only client-side check
// is the body length; everything else is validated by the gateway.
func BuildSend(recipient, message string, opts types.SendOptions) (types.SendSMSRequest, error) {
	if err := checkLength("message", message); err != nil {
		return types.SendSMSRequest{}, err
	}
	metadata := opts.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return types.SendSMSRequest{
		Recipient:   recipient,
		Message:     message,
		Metadata:    metadata,
		IsTest:      opts.IsTest,
		SenderID:    opts.SenderID,
		ScheduledAt: opts.ScheduledAt,
	}, nil
}

// BuildBatch assembles the POST /sms/send-batch payload, keeping message
// order. sender_id is included only when opts.SenderID is set.
func BuildBatch(messages []types.BatchMessage, opts types.BatchOptions) (types.SendBatchRequest, error) {
	if len(messages) == 0 {
		return types.SendBatchRequest{}, apierrors.NewValidationError("", []apierrors.FieldErrors{
			{Field: "messages", Messages: []string{"The messages field is required."}},
		})
	}
	var fields []apierrors.FieldErrors
	for i, m := range messages {
		if segments.Length(m.Message) > segments.MaxMessageLength {
			fields = append(fields, tooLong(fmt.Sprintf("messages.%d.message", i)))
		}
	}
	if len(fields) > 0 {
		return types.SendBatchRequest{}, apierrors.NewValidationError("", fields)
	}
	out := make([]types.BatchMessage, len(messages))
	copy(out, messages)
	return types.SendBatchRequest{
		Messages: out,
		IsTest:   opts.IsTest,
		SenderID: opts.SenderID,
	}, nil
}

// BuildBalanceQuery returns the GET /balance query string.
func BuildBalanceQuery(currency string) url.Values {
	if currency == "" {
		currency = DefaultCurrency
	}
	return url.Values{"currency": []string{currency}}
}

// BuildTransactionQuery returns the GET /balance/transactions query string.
// Unset filter fields are omitted.
func BuildTransactionQuery(f types.TransactionFilter) url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return q
}

func checkLength(field, message string) error {
	if segments.Length(message) <= segments.MaxMessageLength {
		return nil
	}
	return apierrors.NewValidationError("", []apierrors.FieldErrors{tooLong(field)})
}

func tooLong(field string) apierrors.FieldErrors {
	return apierrors.FieldErrors{
		Field:    field,
		Messages: []string{fmt.Sprintf("The %s may not be greater than %d characters.", field, segments.MaxMessageLength)},
	}
}
