// Package errors provides the typed failure taxonomy returned by the SDK.
// Every unsuccessful gateway call ends up as exactly one APIError variant.
package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies which APIError variant a failure is.
type Kind int

const (
	// Generic covers any status without a dedicated kind, and missing responses.
	Generic Kind = iota
	// Validation means the request shape was rejected (HTTP 422).
	Validation
	// InsufficientBalance means the account cannot cover the operation (HTTP 402).
	InsufficientBalance
	// NoClient means the account is not provisioned for messaging (HTTP 403).
	NoClient
	// ServiceUnavailable means the gateway is temporarily down (HTTP 503).
	ServiceUnavailable
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Generic:
		return "Generic"
	case Validation:
		return "Validation"
	case InsufficientBalance:
		return "InsufficientBalance"
	case NoClient:
		return "NoClient"
	case ServiceUnavailable:
		return "ServiceUnavailable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Fallback messages used when the response body carries none.
const (
	DefaultGenericMessage             = "Unknown error occurred"
	DefaultValidationMessage          = "Validation error"
	DefaultInsufficientBalanceMessage = "Insufficient balance"
	DefaultNoClientMessage            = "No client associated with your account"
	DefaultServiceUnavailableMessage  = "SMS service is currently unavailable"
)

// APIError is implemented by every failure variant. The set of
// implementations is closed: switch on the concrete type or on Kind.
type APIError interface {
	error
	Kind() Kind
	StatusCode() int
	Message() string
	apiError()
}

type base struct {
	kind    Kind
	status  int
	message string
}

func (b base) Kind() Kind { return b.kind }

func (b base) StatusCode() int { return b.status }

func (b base) Message() string { return b.message }

func (b base) apiError() {}

func (b base) describe() string {
	return fmt.Sprintf("signalbridge: %s (HTTP %d): %s", b.kind, b.status, b.message)
}

// FieldErrors holds the messages reported for one request field.
type FieldErrors struct {
	Field    string
	Messages []string
}

// ValidationError is returned for HTTP 422 and for client-side pre-checks.
type ValidationError struct {
	base
	fields []FieldErrors
}

// NewValidationError builds a ValidationError. Field order is preserved.
func NewValidationError(message string, fields []FieldErrors) *ValidationError {
	if message == "" {
		message = DefaultValidationMessage
	}
	return &ValidationError{
		base:   base{kind: Validation, status: 422, message: message},
		fields: cloneFields(fields),
	}
}

func (e *ValidationError) Error() string { return e.describe() }

// Fields returns the field errors in the order the server reported them.
func (e *ValidationError) Fields() []FieldErrors { return cloneFields(e.fields) }

// Errors returns the field errors keyed by field name.
func (e *ValidationError) Errors() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for _, f := range e.fields {
		out[f.Field] = append([]string(nil), f.Messages...)
	}
	return out
}

// FirstError returns the first message of the first field, or "" when the
// error carries no field messages.
func (e *ValidationError) FirstError() string {
	if len(e.fields) == 0 || len(e.fields[0].Messages) == 0 {
		return ""
	}
	return e.fields[0].Messages[0]
}

func cloneFields(in []FieldErrors) []FieldErrors {
	if in == nil {
		return nil
	}
	out := make([]FieldErrors, len(in))
	for i, f := range in {
		out[i] = FieldErrors{Field: f.Field, Messages: append([]string(nil), f.Messages...)}
	}
	return out
}

// Shortfall is the balance context the gateway attaches to HTTP 402.
// Absent values stay nil.
type Shortfall struct {
	RequiredBalance *decimal.Decimal `json:"required_balance"`
	CurrentBalance  *decimal.Decimal `json:"current_balance"`
	Segments        *int             `json:"segments"`
}

// InsufficientBalanceError is returned for HTTP 402.
type InsufficientBalanceError struct {
	base
	shortfall Shortfall
}

// NewInsufficientBalanceError builds an InsufficientBalanceError.
func NewInsufficientBalanceError(message string, s Shortfall) *InsufficientBalanceError {
	if message == "" {
		message = DefaultInsufficientBalanceMessage
	}
	return &InsufficientBalanceError{
		base:      base{kind: InsufficientBalance, status: 402, message: message},
		shortfall: s,
	}
}

func (e *InsufficientBalanceError) Error() string { return e.describe() }

// RequiredBalance is the amount the operation needed.
func (e *InsufficientBalanceError) RequiredBalance() (decimal.Decimal, bool) {
	if e.shortfall.RequiredBalance == nil {
		return decimal.Zero, false
	}
	return *e.shortfall.RequiredBalance, true
}

// CurrentBalance is the balance at the time of the request.
func (e *InsufficientBalanceError) CurrentBalance() (decimal.Decimal, bool) {
	if e.shortfall.CurrentBalance == nil {
		return decimal.Zero, false
	}
	return *e.shortfall.CurrentBalance, true
}

// Segments is the number of segments the gateway tried to bill.
func (e *InsufficientBalanceError) Segments() (int, bool) {
	if e.shortfall.Segments == nil {
		return 0, false
	}
	return *e.shortfall.Segments, true
}

// NoClientError is returned for HTTP 403.
type NoClientError struct{ base }

// NewNoClientError builds a NoClientError.
func NewNoClientError(message string) *NoClientError {
	if message == "" {
		message = DefaultNoClientMessage
	}
	return &NoClientError{base{kind: NoClient, status: 403, message: message}}
}

func (e *NoClientError) Error() string { return e.describe() }

// ServiceUnavailableError is returned for HTTP 503.
type ServiceUnavailableError struct{ base }

// NewServiceUnavailableError builds a ServiceUnavailableError.
func NewServiceUnavailableError(message string) *ServiceUnavailableError {
	if message == "" {
		message = DefaultServiceUnavailableMessage
	}
	return &ServiceUnavailableError{base{kind: ServiceUnavailable, status: 503, message: message}}
}

func (e *ServiceUnavailableError) Error() string { return e.describe() }

// GenericError covers every other status and transport failures.
type GenericError struct {
	base
	body       map[string]any
	underlying error
}

// NewGenericError builds a GenericError. cause may be nil.
func NewGenericError(status int, message string, body map[string]any, cause error) *GenericError {
	if message == "" {
		message = DefaultGenericMessage
	}
	return &GenericError{
		base:       base{kind: Generic, status: status, message: message},
		body:       cloneMap(body),
		underlying: cause,
	}
}

// Error implements the error interface.
func (e *GenericError) Error() string {
	if e.underlying != nil {
		return fmt.Sprintf("%s: %v", e.describe(), e.underlying)
	}
	return e.describe()
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *GenericError) Unwrap() error { return e.underlying }

// Body returns the decoded response body. It is empty, never nil, when the
// gateway sent nothing usable.
func (e *GenericError) Body() map[string]any { return cloneMap(e.body) }

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
