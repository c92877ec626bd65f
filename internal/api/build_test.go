package api

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	apierrors "github.com/nugsoft/signalbridge-go/internal/errors"
	"github.com/nugsoft/signalbridge-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSend_Defaults(t *testing.T) {
	t.Parallel()
	req, err := BuildSend("256700000000", "Hello", types.SendOptions{})
	require.NoError(t, err)
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipient":"256700000000","message":"Hello","metadata":{},"is_test":false}`, string(b))
}

func TestBuildSend_MergesOptions(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	req, err := BuildSend("256700000000", "Reminder", types.SendOptions{
		SenderID:    strPtr("NUGSOFT"),
		ScheduledAt: &at,
		Metadata:    map[string]any{"type": "appointment_reminder", "appointment_id": 456},
		IsTest:      true,
	})
	require.NoError(t, err)
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"recipient":"256700000000",
		"message":"Reminder",
		"metadata":{"type":"appointment_reminder","appointment_id":456},
		"is_test":true,
		"sender_id":"NUGSOFT",
		"scheduled_at":"2026-10-18T09:00:00+03:00"
	}`, string(b))
}

func TestBuildSend_DoesNotValidateRecipient(t *testing.T) {
	t.Parallel()
	_, err := BuildSend("", "", types.SendOptions{})
	assert.NoError(t, err)
}

func TestBuildSend_LengthLimit(t *testing.T) {
	t.Parallel()
	_, err := BuildSend("256700000000", strings.Repeat("ж", 1000), types.SendOptions{})
	require.NoError(t, err)

	_, err = BuildSend("256700000000", strings.Repeat("a", 1001), types.SendOptions{})
	var ve *apierrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 422, ve.StatusCode())
	assert.Equal(t, "The message may not be greater than 1000 characters.", ve.FirstError())
	assert.Contains(t, ve.Errors(), "message")
}

func TestBuildBatch_PreservesOrderAndOmitsSender(t *testing.T) {
	t.Parallel()
	msgs := []types.BatchMessage{
		{Recipient: "256700000002", Message: "third"},
		{Recipient: "256700000000", Message: "first"},
		{Recipient: "256700000001", Message: "second", Metadata: map[string]any{"score": 92}},
	}
	req, err := BuildBatch(msgs, types.BatchOptions{})
	require.NoError(t, err)
	require.Len(t, req.Messages, 3)
	for i := range msgs {
		assert.Equal(t, msgs[i].Recipient, req.Messages[i].Recipient)
	}

	var raw map[string]any
	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.NotContains(t, raw, "sender_id")
	assert.Equal(t, false, raw["is_test"])
}

func TestBuildBatch_InjectsSenderWhenSupplied(t *testing.T) {
	t.Parallel()
	msgs := []types.BatchMessage{{Recipient: "256700000000", Message: "hi"}}

	req, err := BuildBatch(msgs, types.BatchOptions{SenderID: strPtr("NUGSOFT"), IsTest: true})
	require.NoError(t, err)
	b, _ := json.Marshal(req)
	assert.JSONEq(t, `{"messages":[{"recipient":"256700000000","message":"hi"}],"is_test":true,"sender_id":"NUGSOFT"}`, string(b))

	// an explicit empty sender id is still sent
	req, err = BuildBatch(msgs, types.BatchOptions{SenderID: strPtr("")})
	require.NoError(t, err)
	b, _ = json.Marshal(req)
	assert.JSONEq(t, `{"messages":[{"recipient":"256700000000","message":"hi"}],"is_test":false,"sender_id":""}`, string(b))
}

func TestBuildBatch_DoesNotAliasInput(t *testing.T) {
	t.Parallel()
	msgs := []types.BatchMessage{{Recipient: "a", Message: "x"}}
	req, err := BuildBatch(msgs, types.BatchOptions{})
	require.NoError(t, err)
	msgs[0].Recipient = "changed"
	assert.Equal(t, "a", req.Messages[0].Recipient)
}

func TestBuildBatch_Validation(t *testing.T) {
	t.Parallel()
	_, err := BuildBatch(nil, types.BatchOptions{})
	var ve *apierrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "messages", ve.Fields()[0].Field)

	_, err = BuildBatch([]types.BatchMessage{
		{Recipient: "a", Message: "ok"},
		{Recipient: "b", Message: strings.Repeat("x", 1001)},
	}, types.BatchOptions{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "messages.1.message", ve.Fields()[0].Field)
}

func TestBuildBalanceQuery(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "currency=UGX", BuildBalanceQuery("").Encode())
	assert.Equal(t, "currency=KES", BuildBalanceQuery("KES").Encode())
}

func TestBuildTransactionQuery(t *testing.T) {
	t.Parallel()
	assert.Empty(t, BuildTransactionQuery(types.TransactionFilter{}))

	q := BuildTransactionQuery(types.TransactionFilter{
		Type:      "debit",
		StartDate: "2026-10-01",
		EndDate:   "2026-10-31",
		Page:      2,
		PerPage:   50,
	})
	assert.Equal(t, "end_date=2026-10-31&page=2&per_page=50&start_date=2026-10-01&type=debit", q.Encode())
}
