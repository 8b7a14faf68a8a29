package handlers

import (
	"errors"
	"net/http"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/api/response"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/validation"
)

// UserHandler handles HTTP requests for user registration.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler with the provided service dependency.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register handles POST requests to create a user and issue an API key.
// The key appears only in this response.
//
// Endpoint: POST /api/users/register
// Response: 201 Created with User (including apiKey)
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the email is already registered
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterUserRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userService.Register(req)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			response.RespondError(w, http.StatusConflict, "email already registered", nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to register user", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}
