package validation

import (
	"fmt"
	"time"

	"github.com/financeapi-br/backend/internal/api/request"
)

// ValidateTaxCalculation validates a tax calculation request. The year
// must be a plausible fiscal year no later than the current one; inline
// transactions are validated like ledger inserts and must fall within
// the requested year.
func ValidateTaxCalculation(req request.TaxCalculationRequest) error {
	errors := make(map[string]string)

	currentYear := time.Now().UTC().Year()
	if req.Year < 2000 || req.Year > currentYear {
		errors["year"] = fmt.Sprintf("year must be between 2000 and %d", currentYear)
	}

	for i, tx := range req.Transactions {
		if err := ValidateCreateTransaction(tx); err != nil {
			errors[fmt.Sprintf("transactions[%d]", i)] = err.Error()
			continue
		}
		date, _ := time.Parse("2006-01-02", tx.Date)
		if date.Year() != req.Year {
			errors[fmt.Sprintf("transactions[%d].date", i)] = "date outside requested year"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
