package models

import "time"

// ClassStatus tracks moderation of a submitted class.
type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusDenied   ClassStatus = "denied"
)

// Class is a language course offered by an instructor.
type Class struct {
	ID              string      `db:"id" json:"id"`
	ClassName       string      `db:"class_name" json:"class_name"`
	ImageURL        string      `db:"image_url" json:"image_url"`
	InstructorName  string      `db:"instructor_name" json:"instructor_name"`
	InstructorEmail string      `db:"instructor_email" json:"instructor_email"`
	Price           float64     `db:"price" json:"price"`
	AvailableSeats  int         `db:"available_seats" json:"available_seats"`
	Students        int         `db:"students" json:"students"`
	Status          ClassStatus `db:"status" json:"status"`
	Feedback        *string     `db:"feedback" json:"feedback,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// Capacity is the conserved seat total of the class.
func (c Class) Capacity() int {
	return c.AvailableSeats + c.Students
}

// SeatState is the counter snapshot returned by the seat decrement.
type SeatState struct {
	ClassID        string `db:"id" json:"class_id"`
	AvailableSeats int    `db:"available_seats" json:"available_seats"`
	Students       int    `db:"students" json:"students"`
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	Status          ClassStatus
	InstructorEmail string
	Limit           int
}
