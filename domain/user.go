package domain

import "time"

// UserProfile is the account as the backend reports it. Username and id are
// immutable; the rest is editable by the owner.
type UserProfile struct {
	Id              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Bio             string    `json:"bio"`
	ProfileImageUrl string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type UpdateProfileRequest struct {
	FullName        string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImageUrl string `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}
