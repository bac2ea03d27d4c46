package models

import "time"

// Domain event types published after a state change has been committed.
const (
	EventPaymentCompleted = "payment.completed"
	EventClassReviewed    = "class.reviewed"
)

// PaymentCompletedEvent is emitted after a payment transaction commits.
type PaymentCompletedEvent struct {
	PaymentID     string    `json:"payment_id"`
	Email         string    `json:"email"`
	ClassID       string    `json:"class_id"`
	ClassName     string    `json:"class_name"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paid_at"`
}

// ClassReviewedEvent is emitted after an admin changes a class status.
type ClassReviewedEvent struct {
	ClassID         string      `json:"class_id"`
	ClassName       string      `json:"class_name"`
	InstructorEmail string      `json:"instructor_email"`
	Status          ClassStatus `json:"status"`
	ReviewedBy      string      `json:"reviewed_by"`
}
