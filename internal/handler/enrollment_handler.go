package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	"github.com/gracebti/admissions-api/internal/service"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/response"
)

// Generous read cap for multipart files; the 2 MiB business rule is enforced
// by the intake service so oversized files still get the sized error message.
const maxMultipartReadBytes = 16 << 20

type intakeService interface {
	CheckPhone(raw, countryHint string) service.PhoneDecision
	ValidateStep1(payload dto.Step1Payload) map[string]string
	ValidateStep2(payload dto.Step2Payload) map[string]string
	ValidateStep3(eSignature, photoCopy *service.FileUpload) map[string]string
	Submit(ctx context.Context, input service.SubmissionInput) (*dto.SubmissionResponse, map[string]string, error)
}

type enrollmentAdminService interface {
	List(ctx context.Context, req dto.EnrollmentListRequest) ([]models.Enrollment, *models.Pagination, error)
	Detail(ctx context.Context, id string) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentExportService interface {
	ExportPDF(ctx context.Context, id string) (*service.ExportFile, error)
	ExportCSV(ctx context.Context, req dto.EnrollmentListRequest) (*service.ExportFile, error)
}

// EnrollmentHandler exposes the public intake wizard endpoints and the admin
// enrollment endpoints.
type EnrollmentHandler struct {
	intake  intakeService
	admin   enrollmentAdminService
	exports enrollmentExportService
	metrics *service.MetricsService
}

// NewEnrollmentHandler builds a new handler.
func NewEnrollmentHandler(intake intakeService, admin enrollmentAdminService, exports enrollmentExportService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{intake: intake, admin: admin, exports: exports, metrics: metrics}
}

// CheckPhone godoc
// @Summary Per-keystroke phone number check
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.PhoneCheckRequest true "Phone payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/phone-check [post]
func (h *EnrollmentHandler) CheckPhone(c *gin.Context) {
	var req dto.PhoneCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid phone payload"))
		return
	}
	decision := h.intake.CheckPhone(req.Phone, req.Country)
	response.JSON(c, http.StatusOK, dto.PhoneCheckResponse{
		Accepted: decision.Accepted,
		Value:    decision.Value,
		Error:    decision.Error,
	}, nil)
}

// ValidateStep1 godoc
// @Summary Validate the personal information step
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.Step1Payload true "Step payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/validate/step1 [post]
func (h *EnrollmentHandler) ValidateStep1(c *gin.Context) {
	var req dto.Step1Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid step payload"))
		return
	}
	errs := h.intake.ValidateStep1(req)
	response.JSON(c, http.StatusOK, dto.StepValidationResponse{Valid: len(errs) == 0, Errors: errs}, nil)
}

// ValidateStep2 godoc
// @Summary Validate the church and training step
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.Step2Payload true "Step payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/validate/step2 [post]
func (h *EnrollmentHandler) ValidateStep2(c *gin.Context) {
	var req dto.Step2Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid step payload"))
		return
	}
	errs := h.intake.ValidateStep2(req)
	response.JSON(c, http.StatusOK, dto.StepValidationResponse{Valid: len(errs) == 0, Errors: errs}, nil)
}

// ValidateStep3 godoc
// @Summary Validate the document uploads
// @Tags Enrollment
// @Accept multipart/form-data
// @Produce json
// @Param e_signature formData file false "E-Signature image"
// @Param photo_copy formData file false "Photo copy image"
// @Success 200 {object} response.Envelope
// @Router /enrollments/validate/step3 [post]
func (h *EnrollmentHandler) ValidateStep3(c *gin.Context) {
	eSignature, err := formFileUpload(c, "e_signature")
	if err != nil {
		response.Error(c, err)
		return
	}
	photoCopy, err := formFileUpload(c, "photo_copy")
	if err != nil {
		response.Error(c, err)
		return
	}
	errs := h.intake.ValidateStep3(eSignature, photoCopy)
	response.JSON(c, http.StatusOK, dto.StepValidationResponse{Valid: len(errs) == 0, Errors: errs}, nil)
}

// Submit godoc
// @Summary Submit a completed enrollment
// @Tags Enrollment
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	input, err := h.submissionFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, fieldErrs, err := h.intake.Submit(c.Request.Context(), *input)
	if len(fieldErrs) > 0 {
		h.metrics.RecordSubmission("validation_error")
		response.JSON(c, http.StatusBadRequest, dto.StepValidationResponse{Valid: false, Errors: fieldErrs}, nil)
		return
	}
	if err != nil {
		h.metrics.RecordSubmission("error")
		response.Error(c, err)
		return
	}
	h.metrics.RecordSubmission("success")
	response.Created(c, result)
}

// List godoc
// @Summary List enrollments
// @Tags Admin
// @Produce json
// @Param read query bool false "Filter by read flag"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid list query"))
		return
	}
	enrollments, pagination, err := h.admin.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Detail godoc
// @Summary Get one enrollment, marking it read
// @Tags Admin
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/enrollments/{id} [get]
func (h *EnrollmentHandler) Detail(c *gin.Context) {
	enrollment, err := h.admin.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Delete godoc
// @Summary Delete an enrollment
// @Tags Admin
// @Param id path string true "Enrollment ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.admin.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportPDF godoc
// @Summary Export one enrollment as PDF
// @Tags Admin
// @Produce application/pdf
// @Param id path string true "Enrollment ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/enrollments/{id}/export [get]
func (h *EnrollmentHandler) ExportPDF(c *gin.Context) {
	start := time.Now()
	file, err := h.exports.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.ObserveExport(time.Since(start))
	serveDownload(c, file)
}

// ExportCSV godoc
// @Summary Export the enrollment list as CSV
// @Tags Admin
// @Produce text/csv
// @Param read query bool false "Filter by read flag"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/enrollments/export [get]
func (h *EnrollmentHandler) ExportCSV(c *gin.Context) {
	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.exports.ExportCSV(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, file)
}

func (h *EnrollmentHandler) submissionFromForm(c *gin.Context) (*service.SubmissionInput, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartReadBytes); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}

	input := service.SubmissionInput{
		CourseTitle: c.PostForm("course_title"),
		Step1: dto.Step1Payload{
			Name:          c.PostForm("name"),
			Address:       c.PostForm("address"),
			Phone:         c.PostForm("phone"),
			Email:         c.PostForm("email"),
			DateOfBirth:   c.PostForm("date_of_birth"),
			Nationality:   c.PostForm("nationality"),
			Languages:     c.PostForm("languages"),
			MaritalStatus: c.PostForm("marital_status"),
		},
		Step2: dto.Step2Payload{
			ChurchName:              c.PostForm("church_name"),
			ChurchPosition:          c.PostForm("church_position"),
			PastorOverseerAwareness: c.PostForm("pastor_overseer_awareness"),
			PreviousBibleSchool:     c.PostForm("previous_bible_school"),
		},
	}
	if courseID := c.PostForm("course_id"); courseID != "" {
		input.CourseID = &courseID
	}

	var err error
	if input.ESignature, err = formFileUpload(c, "e_signature"); err != nil {
		return nil, err
	}
	if input.PhotoCopy, err = formFileUpload(c, "photo_copy"); err != nil {
		return nil, err
	}
	return &input, nil
}

// formFileUpload reads one multipart file. A missing file yields nil so the
// intake service can report the field as required.
func formFileUpload(c *gin.Context, field string) (*service.FileUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("failed to read %s", field))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxMultipartReadBytes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("failed to read %s", field))
	}
	return &service.FileUpload{
		Filename: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Data:     data,
	}, nil
}

func serveDownload(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
