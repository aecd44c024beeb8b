package dto

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name           string  `json:"name" validate:"required,min=2"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone"`
	Message        string  `json:"message" validate:"required,min=2"`
	CourseType     *string `json:"course_type"`
	SelectedCourse *string `json:"selected_course"`
}
