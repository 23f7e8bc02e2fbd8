package dto

import (
	"time"

	"github.com/campusops/facility-desk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	ContactNo  string `json:"contact_no"`
}

// UpdateUserRequest is a partial update; omitted fields are unchanged.
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	ContactNo  *string `json:"contact_no"`
	Approved   *bool   `json:"approved"`
}

// DeleteUsersRequest payload.
type DeleteUsersRequest struct {
	IDs []string `json:"ids"`
}

// UserResponse represents a directory entry.
type UserResponse struct {
	ID         string      `json:"id"`
	UserCode   string      `json:"user_code"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	ContactNo  string      `json:"contact_no,omitempty"`
	Approved   bool        `json:"approved"`
	CreatedAt  time.Time   `json:"created_at"`
}
