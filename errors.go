package signalbridge

import (
	"errors"

	apierrors "github.com/nugsoft/signalbridge-go/internal/errors"
)

// Re-export the error taxonomy so callers import only this package.
type (
	// APIError is implemented by every failure variant below.
	APIError = apierrors.APIError
	// Kind names an APIError variant.
	Kind = apierrors.Kind

	ValidationError          = apierrors.ValidationError
	InsufficientBalanceError = apierrors.InsufficientBalanceError
	NoClientError            = apierrors.NoClientError
	ServiceUnavailableError  = apierrors.ServiceUnavailableError
	GenericError             = apierrors.GenericError

	// FieldErrors is one field's entry in a ValidationError.
	FieldErrors = apierrors.FieldErrors
)

// Error kinds.
const (
	KindGeneric             = apierrors.Generic
	KindValidation          = apierrors.Validation
	KindInsufficientBalance = apierrors.InsufficientBalance
	KindNoClient            = apierrors.NoClient
	KindServiceUnavailable  = apierrors.ServiceUnavailable
)

// KindOf returns the kind of the APIError in err's chain, or KindGeneric
// when err is not an APIError.
func KindOf(err error) Kind {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindGeneric
}

// IsKind reports whether err's chain holds an APIError of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Kind() == k
}
