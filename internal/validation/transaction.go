package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/financeapi-br/backend/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - ticker: Must be non-empty
//   - type: Must be BUY or SELL
//   - quantity: Must be positive
//   - priceUsd: Must be positive
//   - date: Must be in YYYY-MM-DD format
//
// exchangeRate is optional but must be positive when provided;
// brokerageFee must not be negative.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if !req.PriceUSD.IsPositive() {
		errors["priceUsd"] = "priceUsd must be positive"
	}

	if req.ExchangeRate.IsNegative() {
		errors["exchangeRate"] = "exchangeRate must be positive"
	}

	if req.BrokerageFee.IsNegative() {
		errors["brokerageFee"] = "brokerageFee cannot be negative"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
