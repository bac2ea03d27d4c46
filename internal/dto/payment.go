package dto

// PaymentIntentRequest asks the processor for a client secret.
type PaymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

// PaymentIntentResponse carries the client-usable secret.
type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

// CompletePaymentRequest links a confirmed processor transaction to a pending selection.
type CompletePaymentRequest struct {
	SelectionID   string  `json:"selection_id" validate:"required,uuid"`
	TransactionID string  `json:"transaction_id" validate:"required,max=255"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
}
