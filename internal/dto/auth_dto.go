package dto

import "github.com/noah-isme/journal-go-api/internal/models"

// LoginRequest carries the credentials submitted at sign-in.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized account representation returned to clients.
type UserResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	GroupID  *uint       `json:"group_id,omitempty"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:       model.ID,
		Username: model.Username,
		FullName: model.FullName,
		Role:     model.Role,
		GroupID:  model.GroupID,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

// LoginResponse carries the signed token and the authenticated account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
