package models

import "time"

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Message        string    `db:"message" json:"message"`
	CourseType     *string   `db:"course_type" json:"course_type,omitempty"`
	SelectedCourse *string   `db:"selected_course" json:"selected_course,omitempty"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
