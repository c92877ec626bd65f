package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_KindPerStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   Kind
	}{
		{402, InsufficientBalance},
		{403, NoClient},
		{422, Validation},
		{503, ServiceUnavailable},
		{418, Generic},
		{400, Generic},
		{401, Generic},
		{404, Generic},
		{429, Generic},
		{500, Generic},
		{502, Generic},
	}
	for _, c := range cases {
		err := Classify(c.status, []byte(`{"message":"boom"}`))
		require.NotNil(t, err, "status %d", c.status)
		assert.Equal(t, c.want, err.Kind(), "status %d", c.status)
		assert.Equal(t, c.status, err.StatusCode(), "status %d", c.status)
		assert.Equal(t, "boom", err.Message(), "status %d", c.status)
	}
}

func TestClassify_ConcreteTypes(t *testing.T) {
	t.Parallel()
	var (
		ib  *InsufficientBalanceError
		nc  *NoClientError
		ve  *ValidationError
		su  *ServiceUnavailableError
		gen *GenericError
	)
	assert.True(t, stderrors.As(Classify(402, nil), &ib))
	assert.True(t, stderrors.As(Classify(403, nil), &nc))
	assert.True(t, stderrors.As(Classify(422, nil), &ve))
	assert.True(t, stderrors.As(Classify(503, nil), &su))
	assert.True(t, stderrors.As(Classify(418, nil), &gen))
	assert.Equal(t, 418, gen.StatusCode())
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()
	body := []byte(`{"message":"Invalid input","errors":{"b":["x"],"a":["y"]}}`)
	first := Classify(422, body).(*ValidationError)
	for i := 0; i < 20; i++ {
		again := Classify(422, body).(*ValidationError)
		require.Equal(t, first.Fields(), again.Fields())
		require.Equal(t, first.Error(), again.Error())
	}
}

func TestClassify_InsufficientBalance(t *testing.T) {
	t.Parallel()
	body := []byte(`{"message":"Insufficient funds","data":{"required_balance":500,"current_balance":120,"segments":3}}`)
	err := Classify(402, body)
	ib, ok := err.(*InsufficientBalanceError)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, "Insufficient funds", ib.Message())
	assert.Equal(t, 402, ib.StatusCode())

	req, ok := ib.RequiredBalance()
	require.True(t, ok)
	assert.True(t, req.Equal(decimal.NewFromInt(500)))
	cur, ok := ib.CurrentBalance()
	require.True(t, ok)
	assert.True(t, cur.Equal(decimal.NewFromInt(120)))
	seg, ok := ib.Segments()
	require.True(t, ok)
	assert.Equal(t, 3, seg)
}

func TestClassify_InsufficientBalanceMissingFields(t *testing.T) {
	t.Parallel()
	ib := Classify(402, []byte(`{"data":{"current_balance":"12.50","segments":null}}`)).(*InsufficientBalanceError)
	assert.Equal(t, DefaultInsufficientBalanceMessage, ib.Message())
	_, ok := ib.RequiredBalance()
	assert.False(t, ok)
	cur, ok := ib.CurrentBalance()
	require.True(t, ok)
	assert.Equal(t, "12.5", cur.String())
	_, ok = ib.Segments()
	assert.False(t, ok)

	// a malformed field does not drop the well-formed ones
	ib = Classify(402, []byte(`{"data":{"required_balance":90,"segments":"many"}}`)).(*InsufficientBalanceError)
	req, ok := ib.RequiredBalance()
	require.True(t, ok)
	assert.True(t, req.Equal(decimal.NewFromInt(90)))
	_, ok = ib.Segments()
	assert.False(t, ok)

	// empty PHP-style array instead of an object
	ib = Classify(402, []byte(`{"message":"x","data":[]}`)).(*InsufficientBalanceError)
	_, ok = ib.RequiredBalance()
	assert.False(t, ok)
}

func TestClassify_Validation(t *testing.T) {
	t.Parallel()
	body := []byte(`{"message":"Invalid input","errors":{"recipient":["must be a valid phone number"]}}`)
	ve, ok := Classify(422, body).(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Invalid input", ve.Message())
	assert.Equal(t, "must be a valid phone number", ve.FirstError())
	assert.Equal(t, map[string][]string{"recipient": {"must be a valid phone number"}}, ve.Errors())
}

func TestClassify_ValidationKeepsFieldOrder(t *testing.T) {
	t.Parallel()
	body := []byte(`{"errors":{"message":["too long","not utf-8"],"recipient":["required"],"sender_id":"unknown sender"}}`)
	ve := Classify(422, body).(*ValidationError)
	assert.Equal(t, DefaultValidationMessage, ve.Message())
	assert.Equal(t, "too long", ve.FirstError())
	assert.Equal(t, []FieldErrors{
		{Field: "message", Messages: []string{"too long", "not utf-8"}},
		{Field: "recipient", Messages: []string{"required"}},
		{Field: "sender_id", Messages: []string{"unknown sender"}},
	}, ve.Fields())
}

func TestClassify_ValidationWithoutErrors(t *testing.T) {
	t.Parallel()
	ve := Classify(422, []byte(`{"message":"nope"}`)).(*ValidationError)
	assert.Equal(t, "", ve.FirstError())
	assert.Empty(t, ve.Errors())
}

func TestClassify_FallbackMessages(t *testing.T) {
	t.Parallel()
	cases := map[int]string{
		402: DefaultInsufficientBalanceMessage,
		403: DefaultNoClientMessage,
		422: DefaultValidationMessage,
		503: DefaultServiceUnavailableMessage,
		500: DefaultGenericMessage,
	}
	for status, want := range cases {
		assert.Equal(t, want, Classify(status, nil).Message(), "status %d", status)
		assert.Equal(t, want, Classify(status, []byte("<html>bad gateway</html>")).Message(), "status %d", status)
	}
}

func TestClassify_GenericCarriesBody(t *testing.T) {
	t.Parallel()
	gen := Classify(418, []byte(`{"message":"teapot","data":{"hint":"brew"}}`)).(*GenericError)
	assert.Equal(t, 418, gen.StatusCode())
	body := gen.Body()
	assert.Equal(t, "teapot", body["message"])
	assert.Equal(t, map[string]any{"hint": "brew"}, body["data"])
	assert.Nil(t, gen.Unwrap())

	// callers cannot mutate the stored body
	body["message"] = "changed"
	assert.Equal(t, "teapot", gen.Body()["message"])
}

func TestClassifyTransportFailure(t *testing.T) {
	t.Parallel()
	cause := fmt.Errorf("dial tcp: %w", context.DeadlineExceeded)
	gen := ClassifyTransportFailure(cause)
	assert.Equal(t, Generic, gen.Kind())
	assert.Equal(t, 500, gen.StatusCode())
	assert.Equal(t, DefaultGenericMessage, gen.Message())
	assert.NotNil(t, gen.Body())
	assert.Empty(t, gen.Body())
	assert.True(t, stderrors.Is(gen, context.DeadlineExceeded))
	assert.Contains(t, gen.Error(), "dial tcp")
}

func TestClassify_NonStringMessageKeepsStructuredFields(t *testing.T) {
	t.Parallel()
	ib, ok := Classify(402, []byte(`{"message":{"text":"x"},"data":{"required_balance":500,"current_balance":120,"segments":3}}`)).(*InsufficientBalanceError)
	require.True(t, ok)
	assert.Equal(t, DefaultInsufficientBalanceMessage, ib.Message())
	req, ok := ib.RequiredBalance()
	require.True(t, ok)
	assert.True(t, req.Equal(decimal.NewFromInt(500)))
	cur, ok := ib.CurrentBalance()
	require.True(t, ok)
	assert.True(t, cur.Equal(decimal.NewFromInt(120)))
	segs, ok := ib.Segments()
	require.True(t, ok)
	assert.Equal(t, 3, segs)

	ve, ok := Classify(422, []byte(`{"message":["bad"],"errors":{"recipient":["must be a valid phone number"]}}`)).(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, DefaultValidationMessage, ve.Message())
	assert.Equal(t, "must be a valid phone number", ve.FirstError())

	gen, ok := Classify(400, []byte(`{"message":42}`)).(*GenericError)
	require.True(t, ok)
	assert.Equal(t, DefaultGenericMessage, gen.Message())
	assert.EqualValues(t, 42, gen.Body()["message"])
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Generic", Generic.String())
	assert.Equal(t, "Validation", Validation.String())
	assert.Equal(t, "InsufficientBalance", InsufficientBalance.String())
	assert.Equal(t, "NoClient", NoClient.String())
	assert.Equal(t, "ServiceUnavailable", ServiceUnavailable.String())
	assert.Equal(t, "Unknown(42)", Kind(42).String())
}

func TestValidationError_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()
	ve := NewValidationError("", []FieldErrors{{Field: "recipient", Messages: []string{"required"}}})
	fields := ve.Fields()
	fields[0].Messages[0] = "mutated"
	errs := ve.Errors()
	errs["recipient"][0] = "mutated"
	assert.Equal(t, "required", ve.FirstError())
	assert.Equal(t, 422, ve.StatusCode())
}
