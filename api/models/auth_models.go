// api/models/auth_models.go
package models

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// --- Auth Request/Response Structs ---

// SignupRequest defines the structure for the signup request body
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Token   string `json:"token"`
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
}

// UpdateProfileRequest carries the profile fields a user may change.
// Nil fields are left untouched; an empty avatar_url clears the avatar.
// A non-empty avatar_url must be an absolute http(s) URL.
type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=120"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=2048"`
}

// ViewModeRequest selects the default calendar view.
type ViewModeRequest struct {
	ViewMode string `json:"view_mode" binding:"required,oneof=year month"`
}

// --- JWT Claims ---

// CustomClaims includes standard claims and the user identity carried by the token
type CustomClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
