package dto

// CreateClassRequest is submitted by an instructor. New classes start pending with no students.
type CreateClassRequest struct {
	ClassName      string  `json:"class_name" validate:"required,max=200"`
	ImageURL       string  `json:"image_url" validate:"omitempty,url"`
	InstructorName string  `json:"instructor_name" validate:"max=200"`
	Price          float64 `json:"price" validate:"gte=0"`
	AvailableSeats int     `json:"available_seats" validate:"gte=1,lte=10000"`
}

// UpdateClassStatusRequest moderates a class.
type UpdateClassStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved denied"`
}

// ClassFeedbackRequest attaches admin feedback to a class.
type ClassFeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}
