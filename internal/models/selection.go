package models

import "time"

// Selection is a user's claim on a class. It is pending until a payment links a transaction id.
type Selection struct {
	ID              string     `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	ClassID         string     `db:"class_id" json:"class_id"`
	ClassName       string     `db:"class_name" json:"class_name"`
	InstructorEmail string     `db:"instructor_email" json:"instructor_email"`
	ImageURL        string     `db:"image_url" json:"image_url"`
	Price           float64    `db:"price" json:"price"`
	TransactionID   *string    `db:"transaction_id" json:"transaction_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	PaidAt          *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

// Paid reports whether a payment has been linked.
func (s Selection) Paid() bool {
	return s.TransactionID != nil && *s.TransactionID != ""
}
