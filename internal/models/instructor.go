package models

// Instructor aggregates a user holding the instructor role with the enrolment totals of their approved classes.
type Instructor struct {
	Email    string `db:"email" json:"email"`
	Name     string `db:"name" json:"name"`
	PhotoURL string `db:"photo_url" json:"photo_url"`
	Classes  int    `db:"classes" json:"classes"`
	Students int    `db:"students" json:"students"`
}
