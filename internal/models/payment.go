package models

import "time"

// Payment records one successful payment. Rows are never updated or deleted.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	SelectionID   string    `db:"selection_id" json:"selection_id"`
	ClassID       string    `db:"class_id" json:"class_id"`
	ClassName     string    `db:"class_name" json:"class_name"`
	Amount        float64   `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	PaidAt        time.Time `db:"paid_at" json:"paid_at"`
}

// PaymentCompletion is the input of the seat-consuming payment transaction.
type PaymentCompletion struct {
	Email         string
	SelectionID   string
	TransactionID string
	Amount        float64
	Currency      string
	PaidAt        time.Time
}

// PaymentReceipt is returned once a payment has been committed.
type PaymentReceipt struct {
	Payment   Payment   `json:"payment"`
	Selection Selection `json:"selection"`
	Seats     SeatState `json:"seats"`
}
