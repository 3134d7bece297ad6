package dto

import "time"

type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserType string `json:"userType" validate:"required,oneof=member doctor"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"required,oneof=member doctor"`
	// ClientAddr is whatever the collaborator knows about the caller's
	// origin; it is recorded verbatim in the login history and may be empty.
	ClientAddr string `json:"clientAddr"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

type LoginHistoryResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	UserType   string    `json:"userType"`
	LoginTime  time.Time `json:"loginTime"`
	Success    bool      `json:"success"`
	ClientAddr string    `json:"clientAddr,omitempty"`
}
