package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that no user matches the given ID or API key.
	ErrUserNotFound = errors.New("user not found")

	// ErrQuoteNotFound indicates that no stored quote exists for the ticker.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAlertNotFound indicates that a price alert with the given ID does not exist.
	ErrAlertNotFound = errors.New("price alert not found")

	// ErrPositionNotFound indicates that a portfolio position does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrExchangeRateNotFound indicates no record for a specific date.
	ErrExchangeRateNotFound = errors.New("exchange rate not found")

	// ErrCorrelationNotFound indicates no stored market correlation data.
	ErrCorrelationNotFound = errors.New("correlation data not found")

	// ErrTaxReportNotFound indicates that no stored tax report exists for the year.
	ErrTaxReportNotFound = errors.New("tax report not found")

	// ErrTickerNotSupported indicates a ticker outside the supported ADR list.
	ErrTickerNotSupported = errors.New("ticker not supported")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrRateLimitExceeded indicates the user has spent their daily request budget.
	ErrRateLimitExceeded = errors.New("daily request limit exceeded")

	// ErrMissingAPIKey indicates the request carries no API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidAPIKey indicates the API key does not match any user.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveQuote        = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveAlerts       = errors.New("failed to retrieve price alerts")
	ErrFailedToRetrievePositions    = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveCorrelation  = errors.New("failed to retrieve correlation data")
	ErrFailedToRetrieveExchangeRate = errors.New("failed to retrieve exchange rate")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToGetDashboard         = errors.New("failed to get dashboard data")
	ErrFailedToCalculateTaxes       = errors.New("tax calculation failed")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")

	// ErrQuoteUnavailable indicates every upstream market-data source failed.
	ErrQuoteUnavailable = errors.New("quote not available from upstream sources")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state.
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
