package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ------------------------------
// Response Types
// ------------------------------
//
// Every response keeps the undecoded body in Raw so fields the SDK does not
// model remain reachable.

// ID is an identifier the gateway may send as a JSON number or string.
type ID string

// UnmarshalJSON accepts both "abc" and 123. Any other JSON value leaves
// the ID empty.
func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ""
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*id = ID(s)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
	}
	return nil
}

// Int is a count the gateway may send as 3, 3.0 or "3". Values that are
// not numbers decode as zero instead of failing the response.
type Int int

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int) UnmarshalJSON(b []byte) error {
	*n = 0
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err == nil {
		*n = Int(d.IntPart())
	}
	return nil
}

// Amount is a money value. It accepts JSON numbers and numeric strings;
// anything else (null, "", [] from an empty PHP array) decodes as zero.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Decimal = decimal.Zero
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err == nil {
		a.Decimal = d
	}
	return nil
}

// SendResult is the data object of a successful send.
type SendResult struct {
	MessageID    ID     `json:"message_id"`
	Recipient    string `json:"recipient,omitempty"`
	Status       string `json:"status,omitempty"`
	Segments     Int    `json:"segments,omitempty"`
	Cost         Amount `json:"cost"`
	BalanceAfter Amount `json:"balance_after"`
	ScheduledAt  string `json:"scheduled_at,omitempty"`
}

// SendResponse wraps POST /sms/send.
type SendResponse struct {
	Message string          `json:"message,omitempty"`
	Data    SendResult      `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

// BatchItem is the outcome for one message of a batch. Data is kept raw
// because failed items may carry null, [] or an error object there; use
// Result to read it.
type BatchItem struct {
	Recipient string          `json:"recipient"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
}

// Result decodes Data. ok is false when Data is absent or not an object.
func (b BatchItem) Result() (*SendResult, bool) {
	d := bytes.TrimSpace(b.Data)
	if len(d) == 0 || d[0] != '{' {
		return nil, false
	}
	var r SendResult
	// Fields that do not fit stay zero; the object itself was present.
	_ = json.Unmarshal(d, &r)
	return &r, true
}

// ErrorMessage returns the per-message failure reason. The gateway sends
// either a string or an object with a message field.
func (b BatchItem) ErrorMessage() string {
	if len(b.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(b.Error)
}

// BatchResult is the data object of a batch send.
type BatchResult struct {
	Total      Int         `json:"total"`
	Successful Int         `json:"successful"`
	Failed     Int         `json:"failed"`
	Messages   []BatchItem `json:"messages"`
}

// BatchResponse wraps POST /sms/send-batch. Per-message failures are data,
// not errors.
type BatchResponse struct {
	Message string          `json:"message,omitempty"`
	Data    BatchResult     `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

// Balance is the body of GET /balance.
type Balance struct {
	Balance          Amount          `json:"balance"`
	AvailableBalance Amount          `json:"available_balance"`
	SegmentPrice     Amount          `json:"segment_price"`
	Currency         string          `json:"currency"`
	Raw              json.RawMessage `json:"-"`
}

// Transaction is one balance movement.
type Transaction struct {
	ID           ID     `json:"id,omitempty"`
	Type         string `json:"type,omitempty"`
	Amount       Amount `json:"amount"`
	Currency     string `json:"currency"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
	BalanceAfter Amount `json:"balance_after"`
}

// Pagination follows the gateway's paginator fields.
type Pagination struct {
	CurrentPage Int `json:"current_page"`
	PerPage     Int `json:"per_page"`
	Total       Int `json:"total"`
	LastPage    Int `json:"last_page"`
}

// TransactionPage is the body of GET /balance/transactions.
type TransactionPage struct {
	Data       []Transaction   `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

// Document is a response whose shape the gateway defines and the SDK
// passes through: balance summary, token list, token revocation.
// Value holds the decoded body; Fields is set when that body is an object.
type Document struct {
	Value  any
	Fields map[string]any
	Raw    json.RawMessage
}

// Get returns the top-level field key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.Fields[key]
	return v, ok
}

// Decode unmarshals the raw body into v.
func (d *Document) Decode(v any) error {
	if len(d.Raw) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(d.Raw, v)
}
