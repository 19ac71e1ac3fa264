package dto

import "github.com/widya-labs/pustaka-api/internal/models"

// LoginRequest carries NIS credentials.
type LoginRequest struct {
	NIS      string `json:"nis" validate:"required,min=1,max=20"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse returns the signed token and the authenticated profile.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest carries a password rotation request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UserResponse serialises a user without credential material.
type UserResponse struct {
	ID     uint   `json:"id"`
	NIS    string `json:"nis"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	Class  string `json:"class,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:     model.ID,
		NIS:    model.NIS,
		Name:   model.Name,
		Email:  model.Email,
		Role:   model.Role,
		Class:  model.Class,
		Gender: model.Gender,
	}
}
