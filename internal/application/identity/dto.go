package identity

import (
	"time"

	shoppingapp "github.com/bizgrow/backend/internal/application/shopping"
	"github.com/bizgrow/backend/internal/domain/identity"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterRequest creates an account. Role defaults to shopper.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Role     string `json:"role" binding:"omitempty,oneof=merchant shopper"`
}

// LoginRequest signs in. Local carries the device's anonymous cart and wishlist.
type LoginRequest struct {
	Email    string                  `json:"email" binding:"required,email"`
	Password string                  `json:"password" binding:"required"`
	Local    *shoppingapp.LocalState `json:"local,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally revokes the refresh token too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest changes the caller's profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"omitempty,phone"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	Token  *auth.TokenPair            `json:"token"`
	User   UserResponse               `json:"user"`
	Merged *shoppingapp.MergeResponse `json:"merged,omitempty"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
