package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/financeapi-br/backend/internal/api/request"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateCreateTransaction(t *testing.T) {
	valid := request.CreateTransactionRequest{
		Ticker:       "VALE",
		Type:         "BUY",
		Quantity:     dec("100"),
		PriceUSD:     dec("10.50"),
		ExchangeRate: dec("5.00"),
		Date:         "2024-03-15",
	}

	if err := ValidateCreateTransaction(valid); err != nil {
		t.Fatalf("Expected valid request, got: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*request.CreateTransactionRequest)
		field  string
	}{
		{"missing ticker", func(r *request.CreateTransactionRequest) { r.Ticker = " " }, "ticker"},
		{"unknown type", func(r *request.CreateTransactionRequest) { r.Type = "HOLD" }, "type"},
		{"zero quantity", func(r *request.CreateTransactionRequest) { r.Quantity = dec("0") }, "quantity"},
		{"negative price", func(r *request.CreateTransactionRequest) { r.PriceUSD = dec("-1") }, "priceUsd"},
		{"negative fee", func(r *request.CreateTransactionRequest) { r.BrokerageFee = dec("-0.01") }, "brokerageFee"},
		{"malformed date", func(r *request.CreateTransactionRequest) { r.Date = "15/03/2024" }, "date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			err := ValidateCreateTransaction(req)

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got: %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("Expected error on field %q, got %v", tc.field, verr.Fields)
			}
		})
	}

	t.Run("omitted exchange rate is accepted", func(t *testing.T) {
		req := valid
		req.ExchangeRate = decimal.Zero
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected omitted rate to pass, got: %v", err)
		}
	})
}

func TestValidateCreateAlert(t *testing.T) {
	valid := request.CreateAlertRequest{
		Ticker:      "PBR",
		Condition:   "above",
		TargetValue: dec("15.00"),
		Channel:     "webhook",
		WebhookURL:  "https://example.com/hook",
	}

	if err := ValidateCreateAlert(valid); err != nil {
		t.Fatalf("Expected valid request, got: %v", err)
	}

	t.Run("webhook channel requires a URL", func(t *testing.T) {
		req := valid
		req.WebhookURL = ""

		err := ValidateCreateAlert(req)

		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got: %v", err)
		}
		if _, ok := verr.Fields["webhookUrl"]; !ok {
			t.Errorf("Expected error on webhookUrl, got %v", verr.Fields)
		}
	})

	t.Run("relative webhook URL is rejected", func(t *testing.T) {
		req := valid
		req.WebhookURL = "/hook"
		if ValidateCreateAlert(req) == nil {
			t.Error("Expected error for relative URL")
		}
	})

	t.Run("unknown condition is rejected", func(t *testing.T) {
		req := valid
		req.Condition = "crosses"
		if ValidateCreateAlert(req) == nil {
			t.Error("Expected error for unknown condition")
		}
	})
}

func TestValidateRegisterUser(t *testing.T) {
	if err := ValidateRegisterUser(request.RegisterUserRequest{Email: "ana@example.com", Plan: "pro"}); err != nil {
		t.Fatalf("Expected valid request, got: %v", err)
	}

	t.Run("empty plan defaults downstream", func(t *testing.T) {
		if err := ValidateRegisterUser(request.RegisterUserRequest{Email: "ana@example.com"}); err != nil {
			t.Errorf("Expected empty plan to pass, got: %v", err)
		}
	})

	t.Run("bad email is rejected", func(t *testing.T) {
		if ValidateRegisterUser(request.RegisterUserRequest{Email: "not-an-email"}) == nil {
			t.Error("Expected error for malformed email")
		}
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		if ValidateRegisterUser(request.RegisterUserRequest{Email: "ana@example.com", Plan: "platinum"}) == nil {
			t.Error("Expected error for unknown plan")
		}
	})
}

func TestValidateTaxCalculation(t *testing.T) {
	if err := ValidateTaxCalculation(request.TaxCalculationRequest{Year: 2024}); err != nil {
		t.Fatalf("Expected valid request, got: %v", err)
	}

	t.Run("future year is rejected", func(t *testing.T) {
		if ValidateTaxCalculation(request.TaxCalculationRequest{Year: 3000}) == nil {
			t.Error("Expected error for future year")
		}
	})

	t.Run("inline transaction outside the year is rejected", func(t *testing.T) {
		req := request.TaxCalculationRequest{
			Year: 2024,
			Transactions: []request.CreateTransactionRequest{{
				Ticker:   "VALE",
				Type:     "BUY",
				Quantity: dec("10"),
				PriceUSD: dec("10"),
				Date:     "2023-06-01",
			}},
		}
		if ValidateTaxCalculation(req) == nil {
			t.Error("Expected error for out-of-year transaction")
		}
	})
}
