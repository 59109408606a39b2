package transport

import "github.com/shahzaib1233/todo-app-phase-2/domain"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// NewError returns an error body with optional field details.
func NewError(detail string, fields []domain.FieldError) ErrorResponse {
	return ErrorResponse{Detail: detail, Errors: fields}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse exposes a user without its credentials.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.Subject(),
		Name:  user.Name,
		Email: user.Email,
	}
}
