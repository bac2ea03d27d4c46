package dto

import "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"

// RegisterUserRequest is sent on first sign-in.
type RegisterUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=200"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// InsertResult reports an idempotent insert. Inserted is false when the record already existed.
type InsertResult struct {
	Inserted   bool   `json:"inserted"`
	InsertedID string `json:"inserted_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// UpdateRoleRequest assigns an elevated role to a user.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=instructor admin"`
}

// UserRoleResponse is returned after a role change.
type UserRoleResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}
