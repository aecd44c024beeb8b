package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/jobs"
	"github.com/gracebti/admissions-api/pkg/storage"
)

const (
	bucketEnrollments = "enrollments"
	folderESignatures = "e-signatures"
	folderPhotoCopies = "photo-copies"

	maxUploadBytes = 2 * 1024 * 1024

	jobTypeConfirmationEmail = "enrollment_confirmation_email"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	maritalStatuses = map[string]bool{
		"Single": true, "Married": true, "Divorced": true, "Widowed": true,
	}

	allowedUploadMIMEs = map[string]bool{
		"image/jpeg": true, "image/jpg": true, "image/png": true,
		"image/gif": true, "image/webp": true,
	}

	rlsSQLState = pq.ErrorCode("42501")
)

type enrollmentCreator interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

type intakeCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type intakeObjectStore interface {
	Upload(bucket, path string, data []byte) error
	PublicURL(bucket, path string) (string, error)
	Remove(bucket, path string) error
}

type mailEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ConfirmationEmailPayload is the job payload for post-submit email.
type ConfirmationEmailPayload struct {
	EnrollmentID string
	Name         string
	Email        string
	CourseTitle  string
}

// SubmissionInput is a fully assembled draft ready for final submit.
type SubmissionInput struct {
	CourseID    *string
	CourseTitle string
	Step1       dto.Step1Payload
	Step2       dto.Step2Payload
	ESignature  *FileUpload
	PhotoCopy   *FileUpload
}

// IntakeService validates the enrollment wizard's steps and commits a
// validated draft: two object uploads, one row insert, a queued confirmation
// email.
type IntakeService struct {
	enrollments enrollmentCreator
	courses     intakeCourseReader
	store       intakeObjectStore
	phones      *PhoneService
	mailQueue   mailEnqueuer
	logger      *zap.Logger
	now         func() time.Time
}

// NewIntakeService constructs an IntakeService.
func NewIntakeService(enrollments enrollmentCreator, courses intakeCourseReader, store intakeObjectStore, phones *PhoneService, mailQueue mailEnqueuer, logger *zap.Logger) *IntakeService {
	if phones == nil {
		phones = NewPhoneService(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		enrollments: enrollments,
		courses:     courses,
		store:       store,
		phones:      phones,
		mailQueue:   mailQueue,
		logger:      logger,
		now:         time.Now,
	}
}

// CheckPhone runs the per-keystroke ceiling check.
func (s *IntakeService) CheckPhone(raw, countryHint string) PhoneDecision {
	return s.phones.Normalize(raw, countryHint)
}

// ValidateStep1 checks the personal-information fields. An empty map means
// the step may advance.
func (s *IntakeService) ValidateStep1(payload dto.Step1Payload) map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(payload.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case len(name) < 2:
		errs["name"] = "Name must be at least 2 characters"
	case !nameRe.MatchString(name):
		errs["name"] = "Name can only contain letters, spaces, hyphens and apostrophes"
	}

	address := strings.TrimSpace(payload.Address)
	switch {
	case address == "":
		errs["address"] = "Address is required"
	case len(address) < 10:
		errs["address"] = "Address must be at least 10 characters"
	}

	if strings.TrimSpace(payload.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if err := s.phones.Validate(payload.Phone); err != nil {
		errs["phone"] = "Please enter a valid phone number"
	}

	email := strings.TrimSpace(payload.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}

	if msg := s.validateDateOfBirth(payload.DateOfBirth); msg != "" {
		errs["date_of_birth"] = msg
	}

	if len(strings.TrimSpace(payload.Nationality)) < 2 {
		errs["nationality"] = "Nationality is required"
	}
	if len(strings.TrimSpace(payload.Languages)) < 2 {
		errs["languages"] = "Languages spoken is required"
	}
	if !maritalStatuses[payload.MaritalStatus] {
		errs["marital_status"] = "Please select your marital status"
	}

	return errs
}

// ValidateStep2 checks the church and training fields.
func (s *IntakeService) ValidateStep2(payload dto.Step2Payload) map[string]string {
	errs := map[string]string{}

	if len(strings.TrimSpace(payload.ChurchName)) < 2 {
		errs["church_name"] = "Church name is required"
	}
	if position := strings.TrimSpace(payload.ChurchPosition); position != "" && len(position) < 2 {
		errs["church_position"] = "Church position must be at least 2 characters"
	}
	if !isYesNo(payload.PastorOverseerAwareness) {
		errs["pastor_overseer_awareness"] = "Please select yes or no"
	}
	if !isYesNo(payload.PreviousBibleSchool) {
		errs["previous_bible_school"] = "Please select yes or no"
	}

	return errs
}

// ValidateStep3 checks the two document uploads. It runs on file receipt and
// again inside Submit.
func (s *IntakeService) ValidateStep3(eSignature, photoCopy *FileUpload) map[string]string {
	errs := map[string]string{}

	if eSignature == nil {
		errs["e_signature"] = "E-Signature is required"
	} else if msg := validateUpload(eSignature); msg != "" {
		errs["e_signature"] = msg
	}

	if photoCopy == nil {
		errs["photo_copy"] = "Photo copy is required"
	} else if msg := validateUpload(photoCopy); msg != "" {
		errs["photo_copy"] = msg
	}

	return errs
}

// ApplyStep1 validates and records the step on the draft.
func (s *IntakeService) ApplyStep1(draft *Draft, payload dto.Step1Payload) map[string]string {
	errs := s.ValidateStep1(payload)
	draft.Step1 = Step1Data{Step1Payload: payload, Errors: errs, valid: len(errs) == 0}
	return errs
}

// ApplyStep2 validates and records the step on the draft.
func (s *IntakeService) ApplyStep2(draft *Draft, payload dto.Step2Payload) map[string]string {
	errs := s.ValidateStep2(payload)
	draft.Step2 = Step2Data{Step2Payload: payload, Errors: errs, valid: len(errs) == 0}
	return errs
}

// ApplyStep3 validates and records the uploads on the draft.
func (s *IntakeService) ApplyStep3(draft *Draft, eSignature, photoCopy *FileUpload) map[string]string {
	errs := s.ValidateStep3(eSignature, photoCopy)
	draft.Step3 = Step3Data{ESignature: eSignature, PhotoCopy: photoCopy, Errors: errs, valid: len(errs) == 0}
	return errs
}

// Submit commits a validated draft. All steps are re-validated first; a
// non-empty returned map reports field errors and no side effects occurred.
// On any failure after an upload succeeded, the uploaded objects are removed
// best-effort so a failed submit leaves no orphans.
func (s *IntakeService) Submit(ctx context.Context, input SubmissionInput) (*dto.SubmissionResponse, map[string]string, error) {
	fieldErrs := map[string]string{}
	for field, msg := range s.ValidateStep1(input.Step1) {
		fieldErrs[field] = msg
	}
	for field, msg := range s.ValidateStep2(input.Step2) {
		fieldErrs[field] = msg
	}
	for field, msg := range s.ValidateStep3(input.ESignature, input.PhotoCopy) {
		fieldErrs[field] = msg
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, appErrors.ErrValidation
	}

	courseTitle := input.CourseTitle
	if input.CourseID != nil && s.courses != nil {
		course, err := s.courses.FindByID(ctx, *input.CourseID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation, "selected course not found")
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve course")
		}
		courseTitle = course.Title
	}

	var uploaded []string

	signaturePath, err := s.uploadDocument(folderESignatures, input.ESignature)
	if err != nil {
		return nil, nil, err
	}
	uploaded = append(uploaded, signaturePath)

	photoPath, err := s.uploadDocument(folderPhotoCopies, input.PhotoCopy)
	if err != nil {
		s.cleanupUploads(uploaded)
		return nil, nil, err
	}
	uploaded = append(uploaded, photoPath)

	signatureURL, err := s.store.PublicURL(bucketEnrollments, signaturePath)
	if err != nil {
		s.cleanupUploads(uploaded)
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to resolve uploaded file URL")
	}
	photoURL, err := s.store.PublicURL(bucketEnrollments, photoPath)
	if err != nil {
		s.cleanupUploads(uploaded)
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to resolve uploaded file URL")
	}

	enrollment, err := s.buildEnrollment(input, courseTitle, signatureURL, photoURL)
	if err != nil {
		s.cleanupUploads(uploaded)
		return nil, nil, err
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		s.cleanupUploads(uploaded)
		return nil, nil, classifyInsertError(err)
	}

	s.enqueueConfirmation(enrollment)

	return &dto.SubmissionResponse{ID: enrollment.ID, CourseTitle: enrollment.CourseTitle}, nil, nil
}

func (s *IntakeService) uploadDocument(folder string, file *FileUpload) (string, error) {
	path := folder + "/" + storage.NewObjectKey(file.Filename)
	if err := s.store.Upload(bucketEnrollments, path, file.Data); err != nil {
		if errors.Is(err, storage.ErrBucketNotFound) {
			return "", appErrors.Wrap(err, appErrors.ErrBucketNotFound.Code, appErrors.ErrBucketNotFound.Status, appErrors.ErrBucketNotFound.Message)
		}
		return "", appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, err.Error())
	}
	return path, nil
}

func (s *IntakeService) cleanupUploads(paths []string) {
	for _, path := range paths {
		if err := s.store.Remove(bucketEnrollments, path); err != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("bucket", bucketEnrollments), zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *IntakeService) buildEnrollment(input SubmissionInput, courseTitle, signatureURL, photoURL string) (*models.Enrollment, error) {
	dob, err := time.Parse("2006-01-02", input.Step1.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please enter a valid date of birth")
	}

	var churchPosition *string
	if position := strings.TrimSpace(input.Step2.ChurchPosition); position != "" {
		churchPosition = &position
	}

	now := s.now().UTC()
	return &models.Enrollment{
		ID:                      uuid.NewString(),
		CourseID:                input.CourseID,
		CourseTitle:             courseTitle,
		Name:                    strings.TrimSpace(input.Step1.Name),
		Address:                 strings.TrimSpace(input.Step1.Address),
		Phone:                   strings.TrimSpace(input.Step1.Phone),
		Email:                   strings.TrimSpace(input.Step1.Email),
		DateOfBirth:             dob,
		Nationality:             strings.TrimSpace(input.Step1.Nationality),
		Languages:               strings.TrimSpace(input.Step1.Languages),
		MaritalStatus:           input.Step1.MaritalStatus,
		ChurchName:              strings.TrimSpace(input.Step2.ChurchName),
		ChurchPosition:          churchPosition,
		PastorOverseerAwareness: strings.EqualFold(input.Step2.PastorOverseerAwareness, "yes"),
		PreviousBibleSchool:     strings.EqualFold(input.Step2.PreviousBibleSchool, "yes"),
		ESignatureURL:           signatureURL,
		PhotoCopyURL:            photoURL,
		Read:                    false,
		CreatedAt:               now,
		UpdatedAt:               now,
	}, nil
}

func (s *IntakeService) enqueueConfirmation(enrollment *models.Enrollment) {
	if s.mailQueue == nil {
		return
	}
	job := jobs.Job{
		ID:   enrollment.ID,
		Type: jobTypeConfirmationEmail,
		Payload: ConfirmationEmailPayload{
			EnrollmentID: enrollment.ID,
			Name:         enrollment.Name,
			Email:        enrollment.Email,
			CourseTitle:  enrollment.CourseTitle,
		},
	}
	if err := s.mailQueue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue confirmation email",
			zap.String("enrollment_id", enrollment.ID), zap.Error(err))
	}
}

func (s *IntakeService) validateDateOfBirth(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Date of birth is required"
	}
	dob, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "Please enter a valid date of birth"
	}
	today := s.now()
	if dob.After(today) {
		return "Date of birth cannot be in the future"
	}

	// Year/month difference, not day precision.
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() {
		age--
	}
	if age < 16 {
		return "You must be at least 16 years old to enroll"
	}
	if age > 100 {
		return "Please enter a valid date of birth"
	}
	return ""
}

func validateUpload(file *FileUpload) string {
	mime := strings.ToLower(file.MIMEType)
	if len(file.Data) > 0 {
		// The declared type is advisory; sniff the bytes.
		mime = mimetype.Detect(file.Data).String()
	}
	if !allowedUploadMIMEs[mime] {
		return "Only JPEG, JPG, PNG, GIF and WEBP files are allowed"
	}
	if file.Size > maxUploadBytes {
		return fmt.Sprintf("File size (%.2fMB) exceeds the 2MB limit", float64(file.Size)/(1024*1024))
	}
	return ""
}

func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == rlsSQLState {
		return appErrors.Wrap(err, appErrors.ErrPolicyDenied.Code, appErrors.ErrPolicyDenied.Status, appErrors.ErrPolicyDenied.Message)
	}
	if strings.Contains(err.Error(), "row-level security") {
		return appErrors.Wrap(err, appErrors.ErrPolicyDenied.Code, appErrors.ErrPolicyDenied.Status, appErrors.ErrPolicyDenied.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
}

func isYesNo(value string) bool {
	return strings.EqualFold(value, "yes") || strings.EqualFold(value, "no")
}
