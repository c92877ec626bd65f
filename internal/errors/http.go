package errors

import (
	"encoding/json"
	"net/http"

	"github.com/buger/jsonparser"
)

// Classify maps a non-2xx response to its APIError variant. body may be
// nil or not JSON; both are treated as an empty document. Classify is
// total: every status yields exactly one variant.
//
// message, data and errors are read independently, so a malformed message
// never costs the caller the structured fields.
func Classify(statusCode int, body []byte) APIError {
	decoded := map[string]any{}
	var msg string
	var data, fieldErrs []byte
	if len(body) > 0 && json.Unmarshal(body, &decoded) == nil {
		msg = stringField(body, "message")
		data = objectField(body, "data")
		fieldErrs = objectField(body, "errors")
	} else {
		decoded = map[string]any{}
	}

	switch statusCode {
	case http.StatusPaymentRequired:
		return NewInsufficientBalanceError(msg, parseShortfall(data))
	case http.StatusForbidden:
		return NewNoClientError(msg)
	case http.StatusUnprocessableEntity:
		return NewValidationError(msg, parseFieldErrors(fieldErrs))
	case http.StatusServiceUnavailable:
		return NewServiceUnavailableError(msg)
	default:
		return NewGenericError(statusCode, msg, decoded, nil)
	}
}

func stringField(body []byte, key string) string {
	v, typ, _, err := jsonparser.Get(body, key)
	if err != nil || typ != jsonparser.String {
		return ""
	}
	s, err := jsonparser.ParseString(v)
	if err != nil {
		return ""
	}
	return s
}

// objectField returns the raw value of key when it is a JSON object.
func objectField(body []byte, key string) []byte {
	v, typ, _, err := jsonparser.Get(body, key)
	if err != nil || typ != jsonparser.Object {
		return nil
	}
	return v
}

// ClassifyTransportFailure handles a call that produced no response at all.
// The result reports status 500 with an empty body and wraps cause.
func ClassifyTransportFailure(cause error) *GenericError {
	return NewGenericError(http.StatusInternalServerError, "", nil, cause)
}

// parseShortfall reads the 402 data object. Fields that are missing, null
// or of the wrong type are left unset.
func parseShortfall(raw []byte) Shortfall {
	var s Shortfall
	if len(raw) == 0 {
		return s
	}
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Decode field by field so one malformed value does not drop the others.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Shortfall{}
	}
	var partial Shortfall
	if v, ok := fields["required_balance"]; ok {
		_ = json.Unmarshal(v, &partial.RequiredBalance)
	}
	if v, ok := fields["current_balance"]; ok {
		_ = json.Unmarshal(v, &partial.CurrentBalance)
	}
	if v, ok := fields["segments"]; ok {
		_ = json.Unmarshal(v, &partial.Segments)
	}
	return partial
}

// parseFieldErrors walks the 422 errors object in document order. A field
// whose value is a single string is treated as a one-element list.
func parseFieldErrors(raw []byte) []FieldErrors {
	if len(raw) == 0 {
		return nil
	}
	var out []FieldErrors
	_ = jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		field, err := jsonparser.ParseString(key)
		if err != nil {
			return nil
		}
		fe := FieldErrors{Field: field}
		switch dataType {
		case jsonparser.Array:
			_, _ = jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
				if itemType != jsonparser.String {
					return
				}
				if s, err := jsonparser.ParseString(item); err == nil {
					fe.Messages = append(fe.Messages, s)
				}
			})
		case jsonparser.String:
			if s, err := jsonparser.ParseString(value); err == nil {
				fe.Messages = append(fe.Messages, s)
			}
		}
		out = append(out, fe)
		return nil
	})
	return out
}
