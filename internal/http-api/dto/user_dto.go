package dto

import (
	"time"

	"users-api/internal/http-api/models"
)

// DateLayout is the wire format of birthday values.
const DateLayout = "2006-01-02"

// CreateUserRequest for POST /users. Required-field checks happen in the
// service so that every rule produces the same validation error shape.
type CreateUserRequest struct {
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Birthday  OptionalDate `json:"birthday"`
}

// UpdateUserRequest for PUT /users/:id. Every field is optional; empty
// strings count as not supplied.
type UpdateUserRequest struct {
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	Birthday  OptionalDate `json:"birthday"`
}

// UserResponse is the projection returned to callers; it has no password.
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Birthday  *string   `json:"birthday"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToUserResponse converts a User model to UserResponse DTO
func FromModelToUserResponse(user *models.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Birthday != nil {
		b := user.Birthday.Format(DateLayout)
		resp.Birthday = &b
	}
	return resp
}

// FromModelsToUserResponses keeps the input order and never returns nil.
func FromModelsToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *FromModelToUserResponse(&users[i]))
	}
	return out
}
