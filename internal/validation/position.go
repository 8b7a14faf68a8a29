package validation

import (
	"strings"

	"github.com/financeapi-br/backend/internal/api/request"
)

// ValidateUpsertPosition validates a position upsert request.
//
// Required fields:
//   - ticker: Must be non-empty
//   - quantity: Must be positive
//   - avgPriceUsd: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpsertPosition(req request.UpsertPositionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if !req.AvgPriceUSD.IsPositive() {
		errors["avgPriceUsd"] = "avgPriceUsd must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
