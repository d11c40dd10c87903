package dto

import (
	"time"

	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
	Password   string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	Department string `json:"department"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		Username:   user.Username,
		FullName:   user.FullName,
		Department: user.Department,
	}
}

// NewUserResponses maps a user list.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
