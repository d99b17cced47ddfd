package dto

import (
	"github.com/yukikurage/todo-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}

// UserResponse is returned by the current-user endpoint
type UserResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

// MessageResponse carries a plain confirmation message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
