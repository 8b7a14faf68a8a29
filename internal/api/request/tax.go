package request

// TaxCalculationRequest runs the yearly computation. Inline transactions,
// when present, are recorded to the ledger before the run.
type TaxCalculationRequest struct {
	Year         int                        `json:"year"`
	Transactions []CreateTransactionRequest `json:"transactions,omitempty"`
}
