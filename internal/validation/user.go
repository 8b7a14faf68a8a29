package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/financeapi-br/backend/internal/api/request"
)

// ValidPlan contains the accepted subscription plans.
var ValidPlan = map[string]bool{
	"free": true, "pro": true, "premium": true,
}

// ValidateRegisterUser validates a registration request.
//
// Required fields:
//   - email: Must be a valid address
//   - plan: Must be one of: free, pro, premium (empty defaults to free)
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRegisterUser(req request.RegisterUserRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errors["email"] = "invalid email address"
	}

	if req.Plan != "" && !ValidPlan[req.Plan] {
		errors["plan"] = fmt.Sprintf("invalid plan: %s", req.Plan)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
