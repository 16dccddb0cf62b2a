package dto

import (
	"time"

	"github.com/alumlink/alumlink-api/internal/models"
)

// SignupRequest is the payload for account registration.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token and the authenticated profile.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ProfileUpdateRequest is the payload for editing one's own profile.
type ProfileUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	City        *string `json:"city" validate:"omitempty,max=120"`
	Country     *string `json:"country" validate:"omitempty,max=120"`
	CurrentRole *string `json:"current_role" validate:"omitempty,max=255"`
	Bio         *string `json:"bio" validate:"omitempty,max=4000"`
	LinkedinURL *string `json:"linkedin_url" validate:"omitempty,url,max=500"`
	WebsiteURL  *string `json:"website_url" validate:"omitempty,url,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	CanHelpWith *string `json:"can_help_with" validate:"omitempty,max=4000"`
	LookingFor  *string `json:"looking_for" validate:"omitempty,max=4000"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CurrentRole string    `json:"current_role,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	LinkedinURL string    `json:"linkedin_url,omitempty"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	CanHelpWith string    `json:"can_help_with,omitempty"`
	LookingFor  string    `json:"looking_for,omitempty"`
	Role        string    `json:"role"`
	IsBanned    bool      `json:"is_banned,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AvatarURL:   user.AvatarURL,
		CurrentRole: user.CurrentRole,
		Bio:         user.Bio,
		City:        user.City,
		Country:     user.Country,
		LinkedinURL: user.LinkedinURL,
		WebsiteURL:  user.WebsiteURL,
		CanHelpWith: user.CanHelpWith,
		LookingFor:  user.LookingFor,
		Role:        user.Role,
		IsBanned:    user.IsBanned,
		CreatedAt:   user.CreatedAt,
	}
}

// UserSummary is the compact author/participant representation embedded in
// other payloads.
type UserSummary struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CurrentRole string `json:"current_role,omitempty"`
}

// NewUserSummary converts a user model into its compact form.
func NewUserSummary(user *models.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AvatarURL:   user.AvatarURL,
		CurrentRole: user.CurrentRole,
	}
}
