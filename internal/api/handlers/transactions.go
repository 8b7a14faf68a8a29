package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/validation"
)

// TransactionHandler handles HTTP requests for the transaction ledger.
// Every endpoint is scoped to the authenticated user.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List handles GET requests for the user's ledger, ordered by
// (date, created_at).
//
// Endpoint: GET /api/transactions
// Response: 200 OK with array of TransactionResponse
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	transactions, err := h.transactionService.GetTransactions(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, transactions)
}

// Get handles GET requests for one ledger entry.
//
// Endpoint: GET /api/transactions/{uuid}
// Response: 200 OK with TransactionResponse
// Error: 404 Not Found if the entry does not exist for this user
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(user.ID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, transaction)
}

// Create handles POST requests to record a ledger entry.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(user.ID, req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Delete handles DELETE requests to remove a ledger entry.
//
// Endpoint: DELETE /api/transactions/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if the ID is not a UUID
// Error: 404 Not Found if the entry does not exist for this user
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id := chi.URLParam(r, "uuid")

	if err := h.transactionService.DeleteTransaction(user.ID, id); err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidUUID):
			response.RespondError(w, http.StatusBadRequest, validation.ErrInvalidUUID.Error(), id)
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
