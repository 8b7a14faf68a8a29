package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/financeapi-br/backend/internal/api/request"
)

// ValidAlertCondition contains the allowed alert condition values.
var ValidAlertCondition = map[string]bool{
	"above": true, "below": true, "change_percent": true,
}

// ValidateCreateAlert validates an alert creation request.
//
// Required fields:
//   - ticker: Must be non-empty
//   - condition: Must be one of: above, below, change_percent
//   - targetValue: Must be positive
//
// webhookUrl is required for the webhook channel and must be an absolute
// http(s) URL.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateAlert(req request.CreateAlertRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if strings.TrimSpace(req.Condition) == "" {
		errors["condition"] = "condition is required"
	} else if !ValidAlertCondition[req.Condition] {
		errors["condition"] = fmt.Sprintf("invalid condition: %s", req.Condition)
	}

	if !req.TargetValue.IsPositive() {
		errors["targetValue"] = "targetValue must be positive"
	}

	if req.Channel == "" || req.Channel == "webhook" {
		if strings.TrimSpace(req.WebhookURL) == "" {
			errors["webhookUrl"] = "webhookUrl is required for the webhook channel"
		} else if u, err := url.Parse(req.WebhookURL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			errors["webhookUrl"] = "webhookUrl must be an absolute http(s) URL"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
