package signalbridge

import "github.com/nugsoft/signalbridge-go/internal/types"

// Public type aliases so SDK consumers can import only this package.
type (
	// Options
	SendOptions       = types.SendOptions
	BatchOptions      = types.BatchOptions
	BatchMessage      = types.BatchMessage
	TransactionFilter = types.TransactionFilter

	// Responses
	ID              = types.ID
	Int             = types.Int
	Amount          = types.Amount
	SendResponse    = types.SendResponse
	SendResult      = types.SendResult
	BatchResponse   = types.BatchResponse
	BatchResult     = types.BatchResult
	BatchItem       = types.BatchItem
	Balance         = types.Balance
	Transaction     = types.Transaction
	TransactionPage = types.TransactionPage
	Pagination      = types.Pagination
	Document        = types.Document

	// Transport collaborator
	Transport = types.Transport
	Request   = types.Request
	Response  = types.Response
)

// String returns a pointer to s, for optional fields such as
// SendOptions.SenderID.
func String(s string) *string { return &s }
