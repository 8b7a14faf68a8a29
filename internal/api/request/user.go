package request

// RegisterUserRequest creates an API user and issues a key.
type RegisterUserRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}
