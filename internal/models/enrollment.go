package models

import "time"

// Enrollment is a persisted course enrollment application.
type Enrollment struct {
	ID                      string    `db:"id" json:"id"`
	CourseID                *string   `db:"course_id" json:"course_id,omitempty"`
	CourseTitle             string    `db:"course_title" json:"course_title"`
	Name                    string    `db:"name" json:"name"`
	Address                 string    `db:"address" json:"address"`
	Phone                   string    `db:"phone" json:"phone"`
	Email                   string    `db:"email" json:"email"`
	DateOfBirth             time.Time `db:"date_of_birth" json:"date_of_birth"`
	Nationality             string    `db:"nationality" json:"nationality"`
	Languages               string    `db:"languages" json:"languages"`
	MaritalStatus           string    `db:"marital_status" json:"marital_status"`
	ChurchName              string    `db:"church_name" json:"church_name"`
	ChurchPosition          *string   `db:"church_position" json:"church_position,omitempty"`
	PastorOverseerAwareness bool      `db:"pastor_overseer_awareness" json:"pastor_overseer_awareness"`
	PreviousBibleSchool     bool      `db:"previous_bible_school" json:"previous_bible_school"`
	ESignatureURL           string    `db:"e_signature_url" json:"e_signature_url"`
	PhotoCopyURL            string    `db:"photo_copy_url" json:"photo_copy_url"`
	Read                    bool      `db:"read" json:"read"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	Read     *bool
	Page     int
	PageSize int
}
