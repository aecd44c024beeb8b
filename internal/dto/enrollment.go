package dto

// Step1Payload carries the personal-information step of the enrollment form.
type Step1Payload struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	DateOfBirth   string `json:"date_of_birth"`
	Nationality   string `json:"nationality"`
	Languages     string `json:"languages"`
	MaritalStatus string `json:"marital_status"`
}

// Step2Payload carries the church and training step.
type Step2Payload struct {
	ChurchName              string `json:"church_name"`
	ChurchPosition          string `json:"church_position"`
	PastorOverseerAwareness string `json:"pastor_overseer_awareness"`
	PreviousBibleSchool     string `json:"previous_bible_school"`
}

// FileMeta describes an uploaded file for validation purposes.
type FileMeta struct {
	Filename string
	MIMEType string
	Size     int64
}

// PhoneCheckRequest asks whether a partially typed phone number is acceptable.
// Country is an optional ISO 3166-1 alpha-2 hint from the form's country picker.
type PhoneCheckRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Country string `json:"country"`
}

// PhoneCheckResponse reports the per-keystroke phone decision.
type PhoneCheckResponse struct {
	Accepted bool   `json:"accepted"`
	Value    string `json:"value"`
	Error    string `json:"error,omitempty"`
}

// StepValidationResponse reports field-level validation results for one step.
type StepValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// SubmissionResponse acknowledges a persisted enrollment.
type SubmissionResponse struct {
	ID          string `json:"id"`
	CourseTitle string `json:"course_title"`
}

// EnrollmentListRequest filters the admin enrollment listing.
type EnrollmentListRequest struct {
	Read     *bool `form:"read"`
	Page     int   `form:"page"`
	PageSize int   `form:"page_size"`
}
