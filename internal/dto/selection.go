package dto

import "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"

// SelectClassRequest enrolls the caller in a class.
type SelectClassRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
}

// SelectResult reports the outcome of a selection. Inserted is false when the class was already selected.
type SelectResult struct {
	Inserted  bool              `json:"inserted"`
	Selection *models.Selection `json:"selection,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// DeleteResult mirrors a delete acknowledgement.
type DeleteResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
